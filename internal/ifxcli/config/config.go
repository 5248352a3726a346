package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/ifxcli/ifxcli/internal/ifx/dsn"
	"github.com/ifxcli/ifxcli/internal/version"
)

// Config represents the configuration for the ifxcli REPL.
type Config struct {
	Target   string `arg:"positional" help:"DSN name from odbc.ini or a full KEY=VALUE;... connection string (default is an in-memory database)"`
	User     string `arg:"-u,--user" help:"User name, overrides the odbc.ini entry"`
	Password string `arg:"-p,--password" help:"Password, overrides the odbc.ini entry"`
	OdbcIni  string `arg:"--odbcini" help:"Explicit odbc.ini path searched before the standard locations"`
	Debug    bool   `arg:"--debug" help:"Write JSON debug logs to stderr"`

	Resolved dsn.Config `arg:"-"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.CLIVersion())
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	cfg.Resolved, err = resolveTarget(cfg.Target, cfg.User, cfg.Password, cfg.OdbcIni)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

// resolveTarget turns the positional argument into a connection config. A
// target containing "=" is a full connection string, anything else is a DSN
// name resolved through odbc.ini. Explicit credentials always win.
func resolveTarget(target, user, password, odbcIni string) (dsn.Config, error) {
	if strings.Contains(target, "=") {
		cfg, err := dsn.Parse(target)
		if err != nil {
			return dsn.Config{}, err
		}
		if user != "" {
			cfg.User = user
		}
		if password != "" {
			cfg.Password = password
		}
		return cfg, nil
	}

	if target != "" {
		return dsn.Resolve(target, user, password, odbcIni)
	}

	return dsn.Config{User: user, Password: password}, nil
}
