package staging

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_Deterministic(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)

	pre, err := m.Path("sub-1", PreTransform, false)
	require.NoError(t, err)
	post, err := m.Path("sub-1", PostTransform, false)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "sub-1"), pre)
	assert.Equal(t, filepath.Join(root, "sub-1.enc"), post)
	assert.NotEqual(t, pre, post)

	_, err = os.Stat(pre)
	assert.True(t, os.IsNotExist(err), "create=false must not touch the filesystem")
}

func TestPath_StableAcrossManagers(t *testing.T) {
	root := t.TempDir()

	first, err := NewManager(root).Path("sub-9", PreTransform, true)
	require.NoError(t, err)
	// a new Manager stands in for a restarted process
	second, err := NewManager(root + "/").Path("sub-9", PreTransform, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPath_CreateIsIdempotent(t *testing.T) {
	m := NewManager(t.TempDir())

	for i := 0; i < 3; i++ {
		p, err := m.Path("sub-2", PostTransform, true)
		require.NoError(t, err)
		fi, err := os.Stat(p)
		require.NoError(t, err)
		require.True(t, fi.IsDir())
	}
}

func TestPath_ConcurrentCreate(t *testing.T) {
	m := NewManager(t.TempDir())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Path("sub-3", PreTransform, true)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestPath_InvalidSubmissionID(t *testing.T) {
	m := NewManager(t.TempDir())

	for _, id := range []string{"", ".", "..", "../escape", "a/b"} {
		_, err := m.Path(id, PreTransform, true)
		require.Error(t, err, id)
		assert.True(t, errors.Is(err, ErrInvalidSubmissionID), id)
	}
}

func TestPath_FileInTheWay(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub-4"), []byte("x"), 0o600))

	_, err := NewManager(root).Path("sub-4", PreTransform, true)
	require.Error(t, err)
}

func TestLocations(t *testing.T) {
	root := t.TempDir()
	loc, err := NewManager(root).Locations("sub-5")
	require.NoError(t, err)

	assert.Equal(t, "sub-5", loc.SubmissionID)
	assert.DirExists(t, loc.Pre)
	assert.DirExists(t, loc.Post)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "pre-transform", PreTransform.String())
	assert.Equal(t, "post-transform", PostTransform.String())
	assert.Equal(t, "phase(7)", Phase(7).String())
}
