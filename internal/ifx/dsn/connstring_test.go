package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigString(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected string
	}{
		{
			name:     "DSNOnly",
			config:   Config{DSN: "stores"},
			expected: "DSN=stores;",
		},
		{
			name: "FullAttributeOrder",
			config: Config{
				DSN:      "stores",
				Database: "stores7",
				Host:     "dbhost",
				Server:   "ol_stores",
				Service:  "9088",
				Protocol: "onsoctcp",
				User:     "informix",
				Password: "secret",
			},
			expected: "DSN=stores;DATABASE=stores7;HOST=dbhost;SERVER=ol_stores;" +
				"SERVICE=9088;PROTOCOL=onsoctcp;UID=informix;PWD=secret;",
		},
		{
			name:     "EmptyAttributesOmitted",
			config:   Config{Database: "stores7", User: "informix"},
			expected: "DATABASE=stores7;UID=informix;",
		},
		{
			name:     "DelimiterValueIsBraceQuoted",
			config:   Config{DSN: "stores", Password: "p;w=d"},
			expected: "DSN=stores;PWD={p;w=d};",
		},
		{
			name:     "SpaceValueIsBraceQuoted",
			config:   Config{Database: "my db"},
			expected: "DATABASE={my db};",
		},
		{
			name:     "DriverIsNeverRendered",
			config:   Config{DSN: "stores", Driver: "/opt/informix/lib/cli/iclit09b.so"},
			expected: "DSN=stores;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.String())
		})
	}
}

func TestConfigRedacted(t *testing.T) {
	t.Run("MasksPassword", func(t *testing.T) {
		cfg := Config{DSN: "stores", User: "informix", Password: "secret"}
		assert.Equal(t, "DSN=stores;UID=informix;PWD=****;", cfg.Redacted())

		// Redaction must not touch the original.
		assert.Equal(t, "secret", cfg.Password)
	})

	t.Run("NoPasswordNoMask", func(t *testing.T) {
		cfg := Config{DSN: "stores"}
		assert.Equal(t, "DSN=stores;", cfg.Redacted())
	})
}

func TestParse(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		original := Config{
			DSN:      "stores",
			Database: "stores7",
			Host:     "dbhost",
			Server:   "ol_stores",
			Service:  "9088",
			Protocol: "onsoctcp",
			User:     "informix",
			Password: "p;w=d",
		}

		parsed, err := Parse(original.String())
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("CaseInsensitiveKeys", func(t *testing.T) {
		cfg, err := Parse("dsn=stores;Database=stores7;uid=informix")
		require.NoError(t, err)
		assert.Equal(t, "stores", cfg.DSN)
		assert.Equal(t, "stores7", cfg.Database)
		assert.Equal(t, "informix", cfg.User)
	})

	t.Run("UnknownKeysIgnored", func(t *testing.T) {
		cfg, err := Parse("DSN=stores;CLIENT_LOCALE=en_US.utf8;")
		require.NoError(t, err)
		assert.Equal(t, Config{DSN: "stores"}, cfg)
	})

	t.Run("WhitespaceAroundPairs", func(t *testing.T) {
		cfg, err := Parse(" DSN = stores ; UID = informix ")
		require.NoError(t, err)
		assert.Equal(t, "stores", cfg.DSN)
		assert.Equal(t, "informix", cfg.User)
	})

	t.Run("BracedValueKeepsDelimiters", func(t *testing.T) {
		cfg, err := Parse("DSN=stores;PWD={p;w=d};HOST=dbhost")
		require.NoError(t, err)
		assert.Equal(t, "p;w=d", cfg.Password)
		assert.Equal(t, "dbhost", cfg.Host)
	})

	t.Run("DriverIsParsed", func(t *testing.T) {
		cfg, err := Parse("DRIVER=/opt/informix/lib/cli/iclit09b.so;DATABASE=stores7")
		require.NoError(t, err)
		assert.Equal(t, "/opt/informix/lib/cli/iclit09b.so", cfg.Driver)
	})

	t.Run("EmptyString", func(t *testing.T) {
		cfg, err := Parse("")
		require.NoError(t, err)
		assert.Equal(t, Config{}, cfg)
	})

	t.Run("MalformedAttribute", func(t *testing.T) {
		_, err := Parse("DSN=stores;garbage;")
		assert.ErrorContains(t, err, "malformed connection string attribute")
	})

	t.Run("UnterminatedBrace", func(t *testing.T) {
		_, err := Parse("PWD={p;w=d")
		assert.ErrorContains(t, err, "unterminated brace")
	})
}
