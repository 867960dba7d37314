package accounts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	SSHDirPerm         = 0o700
	AuthorizedKeysPerm = 0o600
)

// KeyLockTimeout bounds the wait for the authorized_keys lock. A holder that
// never releases it fails the key installation instead of stalling the worker.
var KeyLockTimeout = 10 * time.Second

// InstallAuthorizedKey appends pubkey and a newline to
// <home>/.ssh/authorized_keys. The .ssh directory is created when missing.
// Appends are serialised across processes with a lock file next to the keys.
func InstallAuthorizedKey(ctx context.Context, home, pubkey string) error {
	sshDir := filepath.Join(home, ".ssh")
	if err := os.Mkdir(sshDir, SSHDirPerm); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create %s: %w", sshDir, err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, KeyLockTimeout)
	defer cancel()

	lock := flock.New(filepath.Join(sshDir, ".authorized_keys.lock"))
	locked, err := lock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock authorized_keys: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock authorized_keys: not acquired")
	}
	defer lock.Unlock()

	path := filepath.Join(sshDir, "authorized_keys")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, AuthorizedKeysPerm)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	if _, err := f.WriteString(pubkey + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
