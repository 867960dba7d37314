// Package inbox resolves a user's inbox root from the configured template.
package inbox

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/legaflow/internal/filex"
)

// UserIDPlaceholder is replaced by the user id in the home template.
const UserIDPlaceholder = "{user_id}"

// ErrInboxUnresolved is returned when no inbox path can be derived.
var ErrInboxUnresolved = errors.New("inbox unresolved")

// Locator derives inbox paths from a template such as "/ega/inbox/{user_id}".
type Locator struct {
	template string
}

func NewLocator(template string) *Locator {
	return &Locator{template: template}
}

// Path returns the inbox root of userID. It does not touch the filesystem.
func (l *Locator) Path(userID string) (string, error) {
	if !strings.Contains(l.template, UserIDPlaceholder) {
		return "", fmt.Errorf("%w: template %q has no %s", ErrInboxUnresolved, l.template, UserIDPlaceholder)
	}
	if !filex.IsPlainName(userID) {
		return "", fmt.Errorf("%w: user id %q", ErrInboxUnresolved, userID)
	}
	return filepath.Clean(strings.ReplaceAll(l.template, UserIDPlaceholder, userID)), nil
}
