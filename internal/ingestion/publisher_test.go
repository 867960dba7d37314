package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/legaflow/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawPublish struct {
	key  string
	body []byte
}

type fakeBroker struct {
	sent []rawPublish
	err  error
}

func (f *fakeBroker) Publish(_ context.Context, key string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, rawPublish{key: key, body: body})
	return nil
}

func TestRoutesFromConfig(t *testing.T) {
	r := RoutesFromConfig(config.BrokerConfig{RoutingTodo: "tasks", RoutingAccount: "account.created"})

	key, err := r.Key(TaskIngest)
	require.NoError(t, err)
	assert.Equal(t, "tasks", key)

	key, err = r.Key(TaskAccount)
	require.NoError(t, err)
	assert.Equal(t, "account.created", key)

	_, err = r.Key("archive")
	assert.True(t, errors.Is(err, ErrUnknownTaskType))
}

func TestTaskPublisher_Publish(t *testing.T) {
	fb := &fakeBroker{}
	p := NewTaskPublisher(fb, Routes{TaskIngest: "tasks"})

	task := IngestTask{
		SubmissionID: "s1",
		UserID:       "u1",
		Filepath:     "/staging/s1/f",
		Target:       "/staging/s1.enc/f",
		Hash:         "h",
		HashAlgo:     "sha256",
	}
	require.NoError(t, p.Publish(context.Background(), task))

	require.Len(t, fb.sent, 1)
	assert.Equal(t, "tasks", fb.sent[0].key)

	var got map[string]string
	require.NoError(t, json.Unmarshal(fb.sent[0].body, &got))
	assert.Equal(t, map[string]string{
		"submission_id": "s1",
		"user_id":       "u1",
		"filepath":      "/staging/s1/f",
		"target":        "/staging/s1.enc/f",
		"hash":          "h",
		"hash_algo":     "sha256",
	}, got)
}

func TestTaskPublisher_Errors(t *testing.T) {
	fb := &fakeBroker{}
	p := NewTaskPublisher(fb, Routes{TaskIngest: ""})

	err := p.Publish(context.Background(), IngestTask{})
	assert.True(t, errors.Is(err, ErrUnknownTaskType))
	assert.Empty(t, fb.sent)

	boom := errors.New("closed")
	p = NewTaskPublisher(&fakeBroker{err: boom}, Routes{TaskIngest: "tasks"})
	assert.ErrorIs(t, p.Publish(context.Background(), IngestTask{}), boom)
}
