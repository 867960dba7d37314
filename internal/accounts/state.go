package accounts

import "fmt"

// State is a step of the provisioning state machine. Steps run strictly in
// declaration order; any failure ends in Failed.
type State int

const (
	Received State = iota
	AccountCreated
	KeyGenerated
	KeyInstalled
	PasswordSet
	DatabaseUpdated
	Done
	Failed
)

var stateNames = [...]string{
	Received:        "received",
	AccountCreated:  "account_created",
	KeyGenerated:    "key_generated",
	KeyInstalled:    "key_installed",
	PasswordSet:     "password_set",
	DatabaseUpdated: "database_updated",
	Done:            "done",
	Failed:          "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ProvisionError reports the state that could not be reached.
type ProvisionError struct {
	State State
	Err   error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provisioning failed before %s: %v", e.State, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}
