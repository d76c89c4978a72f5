package sqldriver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sqldriver/internal/value"
)

func TestNewDriverStartsWithNoError(t *testing.T) {
	d := New()
	require.Equal(t, NoError, d.LastError().Category)
}

func TestToConnectionParamsBasicFields(t *testing.T) {
	cp, err := toConnectionParams(ConnectionParameters{
		"host":     "db.internal",
		"port":     "3307",
		"user":     "app",
		"password": "secret",
		"database": "appdb",
		"charset":  "utf8mb4",
	})
	require.NoError(t, err)
	require.Equal(t, "db.internal", cp.Host)
	require.Equal(t, 3307, cp.Port)
	require.Equal(t, "app", cp.User)
	require.Equal(t, "appdb", cp.Database)
	require.Equal(t, "utf8mb4", cp.Charset)
}

func TestToConnectionParamsInvalidPort(t *testing.T) {
	_, err := toConnectionParams(ConnectionParameters{"port": "not-a-number"})
	require.Error(t, err)
}

func TestToConnectionParamsInvalidTimeout(t *testing.T) {
	_, err := toConnectionParams(ConnectionParameters{"connect_timeout": "banana"})
	require.Error(t, err)
}

func TestToConnectionParamsTLSMode(t *testing.T) {
	cp, err := toConnectionParams(ConnectionParameters{"tls_mode": "required"})
	require.NoError(t, err)
	require.Equal(t, value.TLSRequired, cp.TLS.Mode)
}

func TestToConnectionParamsDefaultTLSModeIsPreferred(t *testing.T) {
	cp, err := toConnectionParams(ConnectionParameters{})
	require.NoError(t, err)
	require.Equal(t, value.TLSPreferred, cp.TLS.Mode)
}
