package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/legaflow/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-l string   log level
//	-s string   staging root
//	-i string   inbox home template
//	-b string   broker URL
//	-x string   broker exchange
//
// Arguments are filtered with flagx.FilterArgs first so that -c/-config and
// unrelated flags do not trip the parser.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-l", "-s", "-i", "-b", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the ingestion endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.Staging.Root, "s", config.Staging.Root, "staging root directory")
	fs.StringVar(&config.Inbox.UserHome, "i", config.Inbox.UserHome, "inbox home template")
	fs.StringVar(&config.Broker.URL, "b", config.Broker.URL, "broker URL")
	fs.StringVar(&config.Broker.Exchange, "x", config.Broker.Exchange, "broker exchange")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
