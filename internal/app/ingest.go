package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/legaflow/internal/broker"
	"github.com/dmitrijs2005/legaflow/internal/config"
	"github.com/dmitrijs2005/legaflow/internal/httpapi"
	"github.com/dmitrijs2005/legaflow/internal/inbox"
	"github.com/dmitrijs2005/legaflow/internal/ingestion"
	"github.com/dmitrijs2005/legaflow/internal/logging"
	"github.com/dmitrijs2005/legaflow/internal/metrics"
	"github.com/dmitrijs2005/legaflow/internal/staging"
	"golang.org/x/sync/errgroup"
)

type IngestApp struct {
	config *config.Config
	logger logging.Logger
}

func NewIngestApp(c *config.Config) *IngestApp {
	return newIngestApp(c, os.Stdout)
}

func newIngestApp(c *config.Config, w io.Writer) *IngestApp {
	return &IngestApp{
		config: c,
		logger: logging.New(w, c.LogLevel).With("service", string(config.ServiceIngest)),
	}
}

// Run serves the ingestion API until a signal arrives or the broker
// connection or channel is lost.
func (app *IngestApp) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	initSignalHandler(cancelFunc)

	session, err := broker.Dial(app.config.Broker.URL)
	if err != nil {
		return err
	}
	defer session.Close()
	closed := session.Closed()

	reg := newRegistry()
	m := metrics.New(reg)

	pub := broker.NewPublisher(session.Channel(), app.config.Broker.Exchange, app.logger, m)
	tasks := ingestion.NewTaskPublisher(pub, ingestion.RoutesFromConfig(app.config.Broker))
	stg := staging.NewManager(app.config.Staging.Root)
	app.logger.Info(ctx, "staging area", "root", stg.Root(), "inbox", app.config.Inbox.UserHome)

	orch := ingestion.NewOrchestrator(
		inbox.NewLocator(app.config.Inbox.UserHome),
		stg,
		tasks,
		app.logger,
		m,
	)

	router := httpapi.NewRouter(httpapi.NewHandler(orch, app.logger), m, reg, app.logger)
	srv := httpapi.NewServer(app.config.HTTPAddr, router, app.logger, app.config.ShutdownTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		return watchBroker(gctx, closed, app.logger)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	app.logger.Info(ctx, "Stopped")
	return nil
}
