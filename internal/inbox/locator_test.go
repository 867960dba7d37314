package inbox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocator_Path(t *testing.T) {
	l := NewLocator("/ega/inbox/{user_id}")

	p, err := l.Path("john")
	require.NoError(t, err)
	assert.Equal(t, "/ega/inbox/john", p)

	again, err := l.Path("john")
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestLocator_RepeatedPlaceholder(t *testing.T) {
	p, err := NewLocator("/home/{user_id}/inbox-{user_id}/").Path("42")
	require.NoError(t, err)
	assert.Equal(t, "/home/42/inbox-42", p)
}

func TestLocator_Unresolved(t *testing.T) {
	tests := []struct {
		name     string
		template string
		userID   string
	}{
		{name: "empty user", template: "/ega/inbox/{user_id}", userID: ""},
		{name: "traversal", template: "/ega/inbox/{user_id}", userID: ".."},
		{name: "separator", template: "/ega/inbox/{user_id}", userID: "a/b"},
		{name: "template without placeholder", template: "/ega/inbox", userID: "john"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocator(tt.template).Path(tt.userID)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInboxUnresolved))
		})
	}
}
