package accounts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// maxStderr bounds how much command stderr is kept for error messages.
const maxStderr = 4096

// ShellQuote wraps s in single quotes for POSIX sh.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ExpandCommand substitutes {user_id}, {home} and {comment} in template with
// shell-quoted values.
func ExpandCommand(template, userID, home, comment string) string {
	r := strings.NewReplacer(
		"{user_id}", ShellQuote(userID),
		"{home}", ShellQuote(home),
		"{comment}", ShellQuote(comment),
	)
	return r.Replace(template)
}

func runShell(ctx context.Context, command string, stdin io.Reader) error {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Stdin = stdin

	var stderr bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderr, n: maxStderr}

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// ShellProvisioner creates OS accounts by running a command template through
// /bin/sh, e.g. "useradd -m -d {home} -c {comment} {user_id}".
type ShellProvisioner struct {
	template string
}

func NewShellProvisioner(template string) *ShellProvisioner {
	return &ShellProvisioner{template: template}
}

func (p *ShellProvisioner) CreateAccount(ctx context.Context, userID, home, comment string) error {
	if err := runShell(ctx, ExpandCommand(p.template, userID, home, comment), nil); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// ChpasswdSetter sets system passwords by piping "user:hash" into a command
// that accepts pre-encrypted passwords, such as "chpasswd -e". The plaintext
// never reaches the command line or the child process.
type ChpasswdSetter struct {
	command string
	cost    int
}

func NewChpasswdSetter(command string) *ChpasswdSetter {
	return &ChpasswdSetter{command: command, cost: bcrypt.DefaultCost}
}

func (s *ChpasswdSetter) SetPassword(ctx context.Context, userID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	line := userID + ":" + string(hash) + "\n"
	if err := runShell(ctx, s.command, strings.NewReader(line)); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

type limitedWriter struct {
	w io.Writer
	n int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	total := len(p)
	if l.n <= 0 {
		return total, nil
	}
	if len(p) > l.n {
		p = p[:l.n]
	}
	n, err := l.w.Write(p)
	l.n -= n
	if err != nil {
		return n, err
	}
	return total, nil
}
