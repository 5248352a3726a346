package dsn

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// searchPaths returns the candidate odbc.ini locations in priority order:
//
//  1. the explicit override path (if any)
//  2. $ODBCINI
//  3. $HOME/.odbc.ini
//  4. $ODBCSYSINI/odbc.ini
//  5. /etc/odbc.ini
func searchPaths(override string) []string {
	paths := []string{}

	if override != "" {
		paths = append(paths, override)
	}
	if odbcini := os.Getenv("ODBCINI"); odbcini != "" {
		paths = append(paths, odbcini)
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".odbc.ini"))
	}
	if sysini := os.Getenv("ODBCSYSINI"); sysini != "" {
		paths = append(paths, filepath.Join(sysini, "odbc.ini"))
	}

	return append(paths, "/etc/odbc.ini")
}

// Lookup searches the odbc.ini files for a section matching dsnName. The
// first file containing a matching section wins. The boolean return is false
// when no file defines the DSN, which is not an error: the caller falls back
// to a minimal connection string.
func Lookup(dsnName, override string) (Config, bool, error) {
	for _, path := range searchPaths(override) {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, path)
		if err != nil {
			return Config{}, false, fmt.Errorf("failed to read %s: %w", path, err)
		}

		section, err := file.GetSection(dsnName)
		if err != nil {
			continue
		}

		return Config{
			DSN:      dsnName,
			Driver:   firstKey(section, "driver"),
			Database: firstKey(section, "database"),
			Host:     firstKey(section, "host"),
			Server:   firstKey(section, "server", "servername"),
			Service:  firstKey(section, "service", "port"),
			Protocol: firstKey(section, "protocol"),
			User:     firstKey(section, "uid", "logonid"),
			Password: firstKey(section, "pwd", "password"),
		}, true, nil
	}

	return Config{}, false, nil
}

// firstKey returns the value of the first key alias present in the section.
func firstKey(section *ini.Section, names ...string) string {
	for _, name := range names {
		if section.HasKey(name) {
			return section.Key(name).String()
		}
	}
	return ""
}

// Resolve builds the full connection config for a DSN. Credentials given by
// the caller win over odbc.ini values. A DSN with no odbc.ini entry resolves
// to a minimal config carrying only the DSN name and credentials.
func Resolve(dsnName, user, password, override string) (Config, error) {
	cfg, _, err := Lookup(dsnName, override)
	if err != nil {
		return Config{}, err
	}

	cfg.DSN = dsnName
	if user != "" {
		cfg.User = user
	}
	if password != "" {
		cfg.Password = password
	}

	return cfg, nil
}
