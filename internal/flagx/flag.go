// Package flagx contains small helpers for picking configuration values out
// of command-line arguments and the process environment.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made of allowed flags and their values.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      -config=conf.json
//
// A value is only taken from the next argument when it does not itself
// start with '-'. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigPath extracts the configuration file path given with -c or -config.
// Other arguments are ignored. It returns "" when neither flag is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// EnvName builds the environment variable name for a configuration option:
// section and option upper-cased and joined with '_' (broker, exchange ->
// BROKER_EXCHANGE). Dots and dashes in either part become '_'.
func EnvName(section, option string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	if section == "" {
		return strings.ToUpper(r.Replace(option))
	}
	return strings.ToUpper(r.Replace(section) + "_" + r.Replace(option))
}

// LookupEnv returns the value of the variable for section/option when it is
// set to a non-empty value.
func LookupEnv(section, option string) (string, bool) {
	v, ok := os.LookupEnv(EnvName(section, option))
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
