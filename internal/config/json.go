package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/legaflow/internal/flagx"
	"github.com/dmitrijs2005/legaflow/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Sections are nested objects;
// empty or zero values leave the current setting untouched.
type JsonConfig struct {
	HTTPAddr        string          `json:"http_addr"`
	LogLevel        string          `json:"log_level"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
	DatabaseDSN     string          `json:"database_dsn"`
	Inbox           struct {
		UserHome       string `json:"user_home"`
		CreateAccount  string `json:"create_account"`
		SetPassword    string `json:"set_password"`
		KeyBits        int    `json:"key_bits"`
		PasswordLength int    `json:"password_length"`
	} `json:"inbox"`
	Staging struct {
		Root string `json:"root"`
	} `json:"staging"`
	Broker struct {
		URL            string `json:"url"`
		Exchange       string `json:"exchange"`
		UsersQueue     string `json:"users_queue"`
		RoutingTodo    string `json:"routing_todo"`
		RoutingAccount string `json:"routing_account"`
	} `json:"broker"`
}

// parseJson overlays values from the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.LogLevel, c.LogLevel)
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.DatabaseDSN, c.DatabaseDSN)

	setString(&config.Inbox.UserHome, c.Inbox.UserHome)
	setString(&config.Inbox.CreateAccount, c.Inbox.CreateAccount)
	setString(&config.Inbox.SetPassword, c.Inbox.SetPassword)
	setInt(&config.Inbox.KeyBits, c.Inbox.KeyBits)
	setInt(&config.Inbox.PasswordLength, c.Inbox.PasswordLength)

	setString(&config.Staging.Root, c.Staging.Root)

	setString(&config.Broker.URL, c.Broker.URL)
	setString(&config.Broker.Exchange, c.Broker.Exchange)
	setString(&config.Broker.UsersQueue, c.Broker.UsersQueue)
	setString(&config.Broker.RoutingTodo, c.Broker.RoutingTodo)
	setString(&config.Broker.RoutingAccount, c.Broker.RoutingAccount)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
