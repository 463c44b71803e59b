package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordSource obtains the operator password for a bootstrap run.
type PasswordSource interface {
	ReadPassword() (string, error)
}

// StdinPassword reads the first line of the command's reader. It serves
// "--password-file -" and piped input.
type StdinPassword struct {
	IO IOTuple
}

// ReadPassword returns the first line with its line ending removed.
func (s StdinPassword) ReadPassword() (string, error) {
	line, err := bufio.NewReader(s.IO.Reader).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// FilePassword reads the password from a file. Trailing newlines are stripped.
type FilePassword struct {
	Path string
}

// ReadPassword returns the file content without trailing newlines.
func (f FilePassword) ReadPassword() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read password file: %w", err)
	}

	password := strings.TrimRight(string(data), "\r\n")
	if password == "" {
		return "", fmt.Errorf("password file %s is empty", f.Path)
	}
	return password, nil
}

// TerminalPassword prompts on the controlling terminal with echo disabled.
type TerminalPassword struct {
	Input  *os.File
	Prompt *os.File
}

// ReadPassword asks for the password twice and requires both entries to match.
func (p TerminalPassword) ReadPassword() (string, error) {
	fd := int(p.Input.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal available for interactive password prompt (use --password-file)")
	}

	first, err := p.prompt(fd, "Operator password: ")
	if err != nil {
		return "", err
	}
	second, err := p.prompt(fd, "Repeat operator password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("passwords do not match")
	}
	return first, nil
}

func (p TerminalPassword) prompt(fd int, label string) (string, error) {
	_, _ = fmt.Fprint(p.Prompt, label)
	password, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(p.Prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// NewPasswordSource picks the source for passwordFile: empty prompts on the
// terminal, "-" reads a line from io, anything else is a file path.
func NewPasswordSource(passwordFile string, io IOTuple) PasswordSource {
	switch passwordFile {
	case "":
		return TerminalPassword{Input: os.Stdin, Prompt: os.Stderr}
	case "-":
		return StdinPassword{IO: io}
	default:
		return FilePassword{Path: passwordFile}
	}
}
