package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ncruces/zenity"
)

// ErrNoImageSelected is returned when the user cancels image selection.
var ErrNoImageSelected = errors.New("no image selected")

// imagePatterns are the file dialog filters for fridge photos.
var imagePatterns = []string{"*.jpg", "*.jpeg", "*.png", "*.webp", "*.gif", "*.heic", "*.heif"}

// PickImage opens a native file dialog for choosing a fridge photo.
func PickImage() (string, error) {
	selected, err := zenity.SelectFile(
		zenity.Title("Select a photo of your fridge"),
		zenity.FileFilters{
			{Name: "Images", Patterns: imagePatterns},
		},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrNoImageSelected
		}
		return "", fmt.Errorf("file picker failed: %w", err)
	}
	return selected, nil
}

// PromptForImagePath asks for an image path on out and reads it from in.
func PromptForImagePath(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Fridge photo path: ")

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.Trim(strings.TrimSpace(input), `"'`)
	if input == "" {
		return "", ErrNoImageSelected
	}
	return input, nil
}
