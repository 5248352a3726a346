// Package dsn handles the connection string syntax and odbc.ini resolution
// used to reach a data source.
package dsn

import (
	"fmt"
	"strings"
)

// Config holds every recognized connection string attribute. The Driver
// attribute only comes from odbc.ini and is never rendered back into a
// connection string.
type Config struct {
	DSN      string
	Driver   string
	Database string
	Host     string
	Server   string
	Service  string
	Protocol string
	User     string
	Password string
}

// String renders the config as a KEY=VALUE;... connection string in the
// fixed attribute order expected by the native driver. Empty attributes are
// omitted and values containing delimiters are brace-quoted.
func (c Config) String() string {
	sb := strings.Builder{}
	appendPair(&sb, "DSN", c.DSN)
	appendPair(&sb, "DATABASE", c.Database)
	appendPair(&sb, "HOST", c.Host)
	appendPair(&sb, "SERVER", c.Server)
	appendPair(&sb, "SERVICE", c.Service)
	appendPair(&sb, "PROTOCOL", c.Protocol)
	appendPair(&sb, "UID", c.User)
	appendPair(&sb, "PWD", c.Password)
	return sb.String()
}

// Redacted is like String but masks the password. Use it for logs.
func (c Config) Redacted() string {
	if c.Password != "" {
		c.Password = "****"
	}
	return c.String()
}

func appendPair(sb *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	if strings.ContainsAny(value, ";= ") {
		sb.WriteString(key + "={" + value + "};")
		return
	}
	sb.WriteString(key + "=" + value + ";")
}

// Parse parses a KEY=VALUE;KEY={VALUE};... connection string. Keys are
// case-insensitive and unrecognized keys are ignored. Values wrapped in
// braces may contain semicolons and equals signs.
func Parse(connStr string) (Config, error) {
	cfg := Config{}

	rest := connStr
	for rest != "" {
		pair, remaining, err := nextPair(rest)
		if err != nil {
			return Config{}, err
		}
		rest = remaining

		if pair == "" {
			continue
		}

		key, value, found := strings.Cut(pair, "=")
		if !found {
			return Config{}, fmt.Errorf("malformed connection string attribute %q", pair)
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, "{") && strings.HasSuffix(value, "}") {
			value = value[1 : len(value)-1]
		}

		switch strings.ToUpper(key) {
		case "DSN":
			cfg.DSN = value
		case "DRIVER":
			cfg.Driver = value
		case "DATABASE":
			cfg.Database = value
		case "HOST":
			cfg.Host = value
		case "SERVER":
			cfg.Server = value
		case "SERVICE":
			cfg.Service = value
		case "PROTOCOL":
			cfg.Protocol = value
		case "UID":
			cfg.User = value
		case "PWD":
			cfg.Password = value
		}
	}

	return cfg, nil
}

// nextPair cuts the next KEY=VALUE attribute off the connection string,
// honoring brace-quoted values that contain semicolons.
func nextPair(s string) (pair string, rest string, err error) {
	inBraces := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			inBraces = true
		case '}':
			inBraces = false
		case ';':
			if !inBraces {
				return strings.TrimSpace(s[:i]), s[i+1:], nil
			}
		}
	}
	if inBraces {
		return "", "", fmt.Errorf("unterminated brace-quoted value in connection string")
	}
	return strings.TrimSpace(s), "", nil
}
