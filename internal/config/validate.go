package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every load or validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// MinKeyBits is the smallest RSA modulus accepted for inbox keys.
const MinKeyBits = 2048

// Validate checks the settings svc needs and reports every problem at once.
func (c *Config) Validate(svc Service) error {
	var problems []string
	require := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			problems = append(problems, name+" is required")
		}
	}

	require("broker.url", c.Broker.URL)
	require("broker.exchange", c.Broker.Exchange)
	require("inbox.user_home", c.Inbox.UserHome)
	if c.Inbox.UserHome != "" && !strings.Contains(c.Inbox.UserHome, "{user_id}") {
		problems = append(problems, "inbox.user_home must contain {user_id}")
	}

	switch svc {
	case ServiceIngest:
		require("http_addr", c.HTTPAddr)
		require("staging.root", c.Staging.Root)
		require("broker.routing_todo", c.Broker.RoutingTodo)
		if c.ShutdownTimeout <= 0 {
			problems = append(problems, "shutdown_timeout must be positive")
		}
	case ServiceInbox:
		require("database_dsn", c.DatabaseDSN)
		require("inbox.create_account", c.Inbox.CreateAccount)
		require("inbox.set_password", c.Inbox.SetPassword)
		require("broker.users_queue", c.Broker.UsersQueue)
		require("broker.routing_account", c.Broker.RoutingAccount)
		if c.Inbox.KeyBits < MinKeyBits {
			problems = append(problems, fmt.Sprintf("inbox.key_bits must be at least %d", MinKeyBits))
		}
		if c.Inbox.PasswordLength <= 0 {
			problems = append(problems, "inbox.password_length must be positive")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown service %q", svc))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
