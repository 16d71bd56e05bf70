package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword - точка подмены term.ReadPassword в тестах
var readPassword = term.ReadPassword

// passwordOrPrompt возвращает пароль из флага или спрашивает его без эха
func passwordOrPrompt(flag string, w io.Writer) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}
