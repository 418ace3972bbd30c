// Package auth resolves the Gemini API key for local binaries and checks
// that it works before any image is sent.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// APIKeyEnvVar takes priority over the encrypted credentials file.
	APIKeyEnvVar = "GEMINI_API_KEY"

	credentialDir  = ".fridge-chef"
	credentialFile = "credentials.gpg"
	passphraseFile = ".gpg-passphrase"
)

// GetAPIKey retrieves the Gemini API key. Priority order:
//  1. GEMINI_API_KEY environment variable
//  2. GPG-encrypted file at ~/.fridge-chef/credentials.gpg
func GetAPIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnvVar)); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		return key, nil
	}

	key, err := getFromGPG()
	if err == nil && key != "" {
		log.Debug().Msg("Using API key from GPG encrypted file")
		return key, nil
	}

	log.Debug().Err(err).Msg("No API key in GPG credentials")
	return "", &ValidationError{
		Type:    ErrTypeNoKey,
		Message: fmt.Sprintf("API key not found. Set %s or create ~/%s/%s", APIKeyEnvVar, credentialDir, credentialFile),
		Err:     err,
	}
}

func getFromGPG() (string, error) {
	credPath, err := getCredentialPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(credPath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("GPG credentials file not found at %s", credPath)
	}

	log.Debug().Str("file", credPath).Msg("Decrypting GPG credentials")

	args := []string{"--decrypt", "--quiet"}
	if passphrasePath, ok := findPassphraseFile(); ok {
		args = append(args, "--pinentry-mode", "loopback", "--passphrase-file", passphrasePath)
	}
	args = append(args, credPath)

	output, err := exec.Command("gpg", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("GPG decryption failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("GPG decryption failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

func getCredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, credentialDir, credentialFile), nil
}

// findPassphraseFile looks for an owner-only .gpg-passphrase in the working
// directory, then next to the credentials file. Files readable by group or
// others are skipped.
func findPassphraseFile() (string, bool) {
	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, passphraseFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, credentialDir, passphraseFile))
	}

	for _, path := range candidates {
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		if mode := fi.Mode().Perm(); mode&0o077 != 0 {
			log.Warn().
				Str("passphrase_file", path).
				Str("permissions", fmt.Sprintf("%04o", mode)).
				Msg("Passphrase file has insecure permissions (should be 0600); skipping")
			continue
		}
		return path, true
	}
	return "", false
}
