package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sqldriver/internal/value"
)

func TestParseBasicConnection(t *testing.T) {
	doc := `
[connection]
host = "db.internal"
port = 3306
user = "app"
password = "secret"
database = "appdb"
charset = "utf8mb4"
connect_timeout = "5s"
`
	cp, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, "db.internal", cp.Host)
	require.Equal(t, 3306, cp.Port)
	require.Equal(t, "app", cp.User)
	require.Equal(t, "appdb", cp.Database)
	require.Equal(t, 5*time.Second, cp.ConnectTimeout)
	require.Equal(t, value.TLSPreferred, cp.TLS.Mode)
}

func TestParseWithTLSBlock(t *testing.T) {
	doc := `
[connection]
host = "db.internal"

[tls]
mode = "required"
ca = "/etc/ssl/ca.pem"
`
	cp, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, value.TLSRequired, cp.TLS.Mode)
	require.Equal(t, "/etc/ssl/ca.pem", cp.TLS.CA)
}

func TestParseInvalidDuration(t *testing.T) {
	doc := `
[connection]
host = "db"
connect_timeout = "banana"
`
	_, err := Parse(strings.NewReader(doc))
	require.Error(t, err)
}

func TestParseOptionsMap(t *testing.T) {
	doc := `
[connection]
host = "db"

[options]
reconnect = "true"
compress = "false"
`
	cp, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, "true", cp.Options["reconnect"])
}

func TestToConnectionParametersRoundTrip(t *testing.T) {
	cp := value.ConnectionParams{
		Host:     "db.internal",
		Port:     3306,
		User:     "app",
		Database: "appdb",
	}
	cp.TLS.Mode = value.TLSRequired
	params := ToConnectionParameters(cp)
	require.Equal(t, "db.internal", params["host"])
	require.Equal(t, "3306", params["port"])
	require.Equal(t, "REQUIRED", params["tls_mode"])
}
