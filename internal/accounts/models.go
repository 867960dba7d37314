package accounts

import (
	"fmt"
	"log/slog"
)

// AccountRequest asks for an inbox account for UserID.
type AccountRequest struct {
	UserID   string `json:"user_id"`
	ElixirID string `json:"elixir_id"`
}

// ProvisionedAccount is the result of a completed provisioning run. It is
// the reply body published for the request. SecKey and Password are redacted
// from its log and string forms.
type ProvisionedAccount struct {
	UserID   string `json:"user_id"`
	ElixirID string `json:"elixir_id"`
	PubKey   string `json:"pubkey"`
	SecKey   string `json:"seckey"`
	Password string `json:"password"`
	Home     string `json:"home"`
}

func (a ProvisionedAccount) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user_id", a.UserID),
		slog.String("elixir_id", a.ElixirID),
		slog.String("home", a.Home),
	)
}

func (a ProvisionedAccount) String() string {
	return fmt.Sprintf("account{user_id=%s elixir_id=%s home=%s}", a.UserID, a.ElixirID, a.Home)
}

func (a ProvisionedAccount) GoString() string {
	return a.String()
}
