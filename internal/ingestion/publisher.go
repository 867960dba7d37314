package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/legaflow/internal/broker"
	"github.com/dmitrijs2005/legaflow/internal/config"
)

// TaskType names a kind of outbound message.
type TaskType string

const (
	TaskIngest  TaskType = "ingest"
	TaskAccount TaskType = "account"
)

var ErrUnknownTaskType = errors.New("unknown task type")

// Routes maps task types to routing keys.
type Routes map[TaskType]string

// RoutesFromConfig builds the routing table from the broker section.
func RoutesFromConfig(cfg config.BrokerConfig) Routes {
	return Routes{
		TaskIngest:  cfg.RoutingTodo,
		TaskAccount: cfg.RoutingAccount,
	}
}

// Key returns the routing key of t.
func (r Routes) Key(t TaskType) (string, error) {
	key, ok := r[t]
	if !ok || key == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownTaskType, t)
	}
	return key, nil
}

// TaskPublisher serialises tasks to JSON and publishes them.
type TaskPublisher struct {
	pub    broker.Publisher
	routes Routes
}

func NewTaskPublisher(pub broker.Publisher, routes Routes) *TaskPublisher {
	return &TaskPublisher{pub: pub, routes: routes}
}

// Publish sends an ingest task to the workers.
func (p *TaskPublisher) Publish(ctx context.Context, task IngestTask) error {
	return p.PublishAs(ctx, TaskIngest, task)
}

// PublishAs sends v under the routing key of t.
func (p *TaskPublisher) PublishAs(ctx context.Context, t TaskType, v any) error {
	key, err := p.routes.Key(t)
	if err != nil {
		return err
	}
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s task: %w", t, err)
	}
	return p.pub.Publish(ctx, key, body)
}
