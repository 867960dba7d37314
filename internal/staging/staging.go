// Package staging resolves the per-submission staging directories that sit
// between a user's inbox and the downstream re-encryption workers.
//
// Paths are a pure function of (submission id, phase), so repeated and
// concurrent calls for the same submission, in this or any later process,
// agree on the location. Directories are created on demand and never removed
// here.
package staging

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/legaflow/internal/filex"
)

// Phase selects which side of the downstream transform a location serves.
type Phase int

const (
	// PreTransform receives verified uploads moved out of the inbox.
	PreTransform Phase = iota
	// PostTransform is where the transform worker is expected to write.
	PostTransform
)

// PostTransformSuffix is appended to the submission id for PostTransform.
const PostTransformSuffix = ".enc"

func (p Phase) String() string {
	switch p {
	case PreTransform:
		return "pre-transform"
	case PostTransform:
		return "post-transform"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrInvalidSubmissionID is returned for ids that cannot name a directory.
var ErrInvalidSubmissionID = errors.New("invalid submission id")

// Manager hands out staging locations under a single root.
type Manager struct {
	root string
}

func NewManager(root string) *Manager {
	return &Manager{root: filepath.Clean(root)}
}

// Root returns the staging root directory.
func (m *Manager) Root() string {
	return m.root
}

// Path returns the directory for submissionID in phase, creating it when
// create is set.
func (m *Manager) Path(submissionID string, phase Phase, create bool) (string, error) {
	if !filex.IsPlainName(submissionID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSubmissionID, submissionID)
	}

	var name string
	switch phase {
	case PreTransform:
		name = submissionID
	case PostTransform:
		name = submissionID + PostTransformSuffix
	default:
		return "", fmt.Errorf("unknown staging phase %v", phase)
	}

	path := filepath.Join(m.root, name)
	if create {
		if err := filex.EnsureDir(path); err != nil {
			return "", fmt.Errorf("staging %s: %w", phase, err)
		}
	}
	return path, nil
}

// Locations holds both staging directories of one submission.
type Locations struct {
	SubmissionID string
	Pre          string
	Post         string
}

// Locations resolves and creates both phases for submissionID.
func (m *Manager) Locations(submissionID string) (Locations, error) {
	pre, err := m.Path(submissionID, PreTransform, true)
	if err != nil {
		return Locations{}, err
	}
	post, err := m.Path(submissionID, PostTransform, true)
	if err != nil {
		return Locations{}, err
	}
	return Locations{SubmissionID: submissionID, Pre: pre, Post: post}, nil
}
