// Package imagedata converts between image files, raw bytes, and the base64
// data URLs used on the wire.
//
// Capture widgets hand the client a data URL like
// "data:image/jpeg;base64,/9j/4AAQ...". The backend decodes it, optionally
// shrinks the image, and forwards the bytes to the model.
package imagedata

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultMIMEType is assumed for bare base64 payloads without a data URL header.
const DefaultMIMEType = "image/jpeg"

// SupportedImageExtensions maps file extensions to image MIME types.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// ErrInvalidDataURL is returned for data URLs without a payload separator.
var ErrInvalidDataURL = errors.New("invalid data URL format")

// ParseDataURL decodes a base64 data URL into raw bytes and its MIME type.
// A bare base64 string (no "data:" header) is accepted and reported as
// DefaultMIMEType. A doubled "image/image/" prefix is collapsed.
func ParseDataURL(dataURL string) ([]byte, string, error) {
	dataURL = strings.TrimSpace(dataURL)

	if !strings.HasPrefix(dataURL, "data:") {
		data, err := decodeBase64(dataURL)
		if err != nil {
			return nil, "", err
		}
		return data, DefaultMIMEType, nil
	}

	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return nil, "", ErrInvalidDataURL
	}

	mimeType, _, _ := strings.Cut(strings.TrimPrefix(header, "data:"), ";")
	mimeType = normalizeMIMEType(mimeType)
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return nil, "", err
	}
	return data, mimeType, nil
}

// EncodeDataURL builds a base64 data URL for data.
func EncodeDataURL(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// LoadFile reads an image from disk and returns it as a data URL. The MIME
// type comes from the extension, falling back to content sniffing.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image file is empty: %s", path)
	}

	mimeType, err := DetectMIMEType(path, data)
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("path", path).
		Str("mime_type", mimeType).
		Int("bytes", len(data)).
		Msg("Image loaded")

	return EncodeDataURL(data, mimeType), nil
}

// DetectMIMEType resolves the image MIME type of a file, by extension first
// and then by sniffing the content. Non-image content is rejected.
func DetectMIMEType(path string, data []byte) (string, error) {
	if mimeType, ok := SupportedImageExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return mimeType, nil
	}
	sniffed, _, _ := strings.Cut(http.DetectContentType(data), ";")
	if !strings.HasPrefix(sniffed, "image/") {
		return "", fmt.Errorf("unsupported file type %q for %s", sniffed, filepath.Base(path))
	}
	return sniffed, nil
}

// IsImage reports whether ext (including the dot) is a supported image extension.
func IsImage(ext string) bool {
	_, ok := SupportedImageExtensions[strings.ToLower(ext)]
	return ok
}

func normalizeMIMEType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for strings.HasPrefix(mimeType, "image/image/") {
		mimeType = strings.TrimPrefix(mimeType, "image/")
	}
	return mimeType
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, errors.New("empty image payload")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(payload); rawErr == nil {
		return raw, nil
	}
	return nil, fmt.Errorf("failed to decode base64: %w", err)
}
