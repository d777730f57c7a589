package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotLoggedIn: токена нет, нужно выполнить login.
var ErrNotLoggedIn = errors.New("not logged in, run: login <username> <password>")

// SaveToken writes token to the auth token file (0600), creating its directory.
func SaveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

// LoadToken reads token from the auth token file.
func LoadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}
	// Trim any trailing newlines/spaces
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// ClearToken удаляет файл токена. Отсутствие файла: не ошибка.
func ClearToken(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
