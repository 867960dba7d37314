package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/legaflow/internal/accounts"
	"github.com/dmitrijs2005/legaflow/internal/broker"
	"github.com/dmitrijs2005/legaflow/internal/config"
	"github.com/dmitrijs2005/legaflow/internal/cryptox"
	"github.com/dmitrijs2005/legaflow/internal/httpapi"
	"github.com/dmitrijs2005/legaflow/internal/inbox"
	"github.com/dmitrijs2005/legaflow/internal/ingestion"
	"github.com/dmitrijs2005/legaflow/internal/logging"
	"github.com/dmitrijs2005/legaflow/internal/metrics"
	"github.com/dmitrijs2005/legaflow/internal/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

type InboxApp struct {
	config *config.Config
	logger logging.Logger
}

func NewInboxApp(c *config.Config) *InboxApp {
	return newInboxApp(c, os.Stdout)
}

func newInboxApp(c *config.Config, w io.Writer) *InboxApp {
	return &InboxApp{
		config: c,
		logger: logging.New(w, c.LogLevel).With("service", string(config.ServiceInbox)),
	}
}

// Run consumes account requests one at a time until a signal arrives or the
// broker closes the delivery channel. Metrics are served on HTTPAddr when set.
func (app *InboxApp) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	initSignalHandler(cancelFunc)

	db, err := repomanager.Open(ctx, app.config.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return err
	}

	session, err := broker.Dial(app.config.Broker.URL)
	if err != nil {
		return err
	}
	defer session.Close()

	replyKey, err := ingestion.RoutesFromConfig(app.config.Broker).Key(ingestion.TaskAccount)
	if err != nil {
		return err
	}

	reg := newRegistry()
	m := metrics.New(reg)

	worker := accounts.NewWorker(
		inbox.NewLocator(app.config.Inbox.UserHome),
		accounts.NewShellProvisioner(app.config.Inbox.CreateAccount),
		cryptox.NewRSAKeyGenerator(app.config.Inbox.KeyBits),
		accounts.NewChpasswdSetter(app.config.Inbox.SetPassword),
		accounts.NewDBStore(db, rm),
		app.logger,
		accounts.WithPasswordLength(app.config.Inbox.PasswordLength),
		accounts.WithMetrics(m),
	)

	consumer := broker.NewConsumer(session.Channel(), app.config.Broker.UsersQueue, app.config.Broker.Exchange, replyKey, app.logger, m)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Run(gctx, worker.Handle)
	})
	if app.config.HTTPAddr != "" {
		srv := httpapi.NewServer(app.config.HTTPAddr, metricsRouter(reg), app.logger, app.config.ShutdownTimeout)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("inbox: %w", err)
	}
	app.logger.Info(ctx, "Stopped")
	return nil
}
