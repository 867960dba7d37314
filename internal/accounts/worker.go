// Package accounts provisions inbox accounts for new users.
//
// Each AccountRequest runs through a fixed sequence: create the OS account,
// generate an RSA key pair, install the public key, set a random password and
// record the credentials in the database. A step runs only when every earlier
// step succeeded.
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/legaflow/internal/common"
	"github.com/dmitrijs2005/legaflow/internal/cryptox"
	"github.com/dmitrijs2005/legaflow/internal/logging"
	"github.com/dmitrijs2005/legaflow/internal/metrics"
)

// DefaultPasswordLength is the length of generated system passwords.
const DefaultPasswordLength = 10

var ErrInvalidAccountRequest = fmt.Errorf("%w: account request", common.ErrorInvalidRequest)

type HomeResolver interface {
	Path(userID string) (string, error)
}

// Provisioner creates the OS account that owns an inbox.
type Provisioner interface {
	CreateAccount(ctx context.Context, userID, home, comment string) error
}

type KeyGenerator interface {
	Generate() (cryptox.KeyPair, error)
}

type PasswordSetter interface {
	SetPassword(ctx context.Context, userID, password string) error
}

// Store persists provisioned credentials.
type Store interface {
	UpdateUser(ctx context.Context, userID, password, pubkey, seckey string) error
}

// KeyInstaller appends a public key to the account's authorized keys.
type KeyInstaller func(ctx context.Context, home, pubkey string) error

type Worker struct {
	homes          HomeResolver
	provisioner    Provisioner
	keys           KeyGenerator
	installKey     KeyInstaller
	passwords      PasswordSetter
	store          Store
	passwordLength int
	logger         logging.Logger
	metrics        *metrics.Metrics
}

type Option func(*Worker)

// WithPasswordLength overrides DefaultPasswordLength.
func WithPasswordLength(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.passwordLength = n
		}
	}
}

// WithKeyInstaller replaces InstallAuthorizedKey.
func WithKeyInstaller(k KeyInstaller) Option {
	return func(w *Worker) { w.installKey = k }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) { w.metrics = m }
}

func NewWorker(homes HomeResolver, p Provisioner, k KeyGenerator, ps PasswordSetter, s Store, l logging.Logger, opts ...Option) *Worker {
	w := &Worker{
		homes:          homes,
		provisioner:    p,
		keys:           k,
		installKey:     InstallAuthorizedKey,
		passwords:      ps,
		store:          s,
		passwordLength: DefaultPasswordLength,
		logger:         l.With("module", "accounts"),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Provision runs the full state machine for req.
func (w *Worker) Provision(ctx context.Context, req AccountRequest) (acc *ProvisionedAccount, err error) {
	start := time.Now()
	log := w.logger.With("user_id", req.UserID, "elixir_id", req.ElixirID)
	state := Received

	defer func() {
		final := Done
		if err != nil {
			final = Failed
		}
		w.metrics.ObserveProvision(final.String(), start)
	}()

	fail := func(next State, err error) (*ProvisionedAccount, error) {
		log.Debug(ctx, "provisioning stopped", "state", state.String(), "next", next.String())
		return nil, &ProvisionError{State: next, Err: err}
	}

	log.Info(ctx, "handling account creation")

	if req.UserID == "" {
		return fail(AccountCreated, fmt.Errorf("%w: empty user_id", ErrInvalidAccountRequest))
	}

	home, err := w.homes.Path(req.UserID)
	if err != nil {
		return fail(AccountCreated, err)
	}

	if err := w.provisioner.CreateAccount(ctx, req.UserID, home, req.ElixirID); err != nil {
		return fail(AccountCreated, err)
	}
	state = AccountCreated
	log.Debug(ctx, "os account created", "home", home)

	kp, err := w.keys.Generate()
	if err != nil {
		return fail(KeyGenerated, err)
	}
	state = KeyGenerated

	if err := w.installKey(ctx, home, kp.Public); err != nil {
		return fail(KeyInstalled, err)
	}
	state = KeyInstalled
	log.Debug(ctx, "public key installed")

	password, err := common.GeneratePassword(w.passwordLength)
	if err != nil {
		return fail(PasswordSet, fmt.Errorf("generate password: %w", err))
	}
	if err := w.passwords.SetPassword(ctx, req.UserID, password); err != nil {
		return fail(PasswordSet, err)
	}
	state = PasswordSet

	if err := w.store.UpdateUser(ctx, req.UserID, password, kp.Public, kp.Secret); err != nil {
		return fail(DatabaseUpdated, err)
	}
	state = DatabaseUpdated

	acc = &ProvisionedAccount{
		UserID:   req.UserID,
		ElixirID: req.ElixirID,
		PubKey:   kp.Public,
		SecKey:   kp.Secret,
		Password: password,
		Home:     home,
	}
	log.Info(ctx, "account created", "account", acc)
	return acc, nil
}

// Handle is the broker entry point. Failures are logged and swallowed so the
// consume loop moves on to the next request.
func (w *Worker) Handle(ctx context.Context, body []byte) ([]byte, error) {
	var req AccountRequest
	if err := json.Unmarshal(body, &req); err != nil {
		w.logger.Error(ctx, "account request not decoded", "error", fmt.Errorf("%w: %v", ErrInvalidAccountRequest, err))
		return nil, nil
	}

	acc, err := w.Provision(ctx, req)
	if err != nil {
		var perr *ProvisionError
		state := Failed
		if errors.As(err, &perr) {
			state = perr.State
		}
		w.logger.Error(ctx, "account not provisioned",
			"user_id", req.UserID, "elixir_id", req.ElixirID, "failed_state", state.String(), "error", err)
		return nil, nil
	}

	reply, err := json.Marshal(acc)
	if err != nil {
		w.logger.Error(ctx, "account reply not encoded", "user_id", req.UserID, "error", err)
		return nil, nil
	}
	return reply, nil
}
