// Package credential supplies the sealing password.
package credential

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

// PasswordEnvVar, when set and non-empty, replaces the interactive prompt.
const PasswordEnvVar = "CFGSEAL_PASSWORD"

// Source returns a password. Implementations never echo it.
type Source interface {
	Password(prompt string) ([]byte, error)
}

// Terminal prompts on the controlling terminal without echo.
type Terminal struct {
	// Prompt destination; os.Stderr when nil.
	Out io.Writer
}

// Static always returns the same password.
type Static string

func (s Static) Password(string) ([]byte, error) {
	return []byte(s), nil
}

func (t Terminal) Password(prompt string) ([]byte, error) {
	if envPass := os.Getenv(PasswordEnvVar); envPass != "" {
		return []byte(envPass), nil
	}
	return t.readPassword(prompt)
}

func (t Terminal) readPassword(prompt string) ([]byte, error) {
	out := t.Out
	if out == nil {
		out = os.Stderr
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// STDIN is piped, fall back to the controlling terminal
		ttyPath := "/dev/tty"
		if runtime.GOOS == "windows" {
			ttyPath = "CON"
		}
		tty, err := os.Open(ttyPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read password: stdin is not a terminal and %s is not available, set %s", ttyPath, PasswordEnvVar)
		}
		defer tty.Close()
		fd = int(tty.Fd())
	}

	fmt.Fprint(out, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(out) // newline after hidden input
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
