package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/legaflow/internal/flagx"
)

// parseEnv overlays SECTION_OPTION environment variables, e.g.
// BROKER_EXCHANGE or INBOX_USER_HOME. Top-level options have no section
// (HTTP_ADDR, LOG_LEVEL, DATABASE_DSN, SHUTDOWN_TIMEOUT).
func parseEnv(config *Config) error {
	stringVars := []struct {
		section, option string
		dst             *string
	}{
		{"", "http_addr", &config.HTTPAddr},
		{"", "log_level", &config.LogLevel},
		{"", "database_dsn", &config.DatabaseDSN},
		{"inbox", "user_home", &config.Inbox.UserHome},
		{"inbox", "create_account", &config.Inbox.CreateAccount},
		{"inbox", "set_password", &config.Inbox.SetPassword},
		{"staging", "root", &config.Staging.Root},
		{"broker", "url", &config.Broker.URL},
		{"broker", "exchange", &config.Broker.Exchange},
		{"broker", "users_queue", &config.Broker.UsersQueue},
		{"broker", "routing_todo", &config.Broker.RoutingTodo},
		{"broker", "routing_account", &config.Broker.RoutingAccount},
	}
	for _, s := range stringVars {
		if v, ok := flagx.LookupEnv(s.section, s.option); ok {
			*s.dst = v
		}
	}

	ints := []struct {
		section, option string
		dst             *int
	}{
		{"inbox", "key_bits", &config.Inbox.KeyBits},
		{"inbox", "password_length", &config.Inbox.PasswordLength},
	}
	for _, i := range ints {
		v, ok := flagx.LookupEnv(i.section, i.option)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, flagx.EnvName(i.section, i.option), err)
		}
		*i.dst = n
	}

	if v, ok := flagx.LookupEnv("", "shutdown_timeout"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: SHUTDOWN_TIMEOUT: %v", ErrInvalidConfig, err)
		}
		config.ShutdownTimeout = d
	}

	return nil
}
