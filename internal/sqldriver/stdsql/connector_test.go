package stdsql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConnectorParsesDSN(t *testing.T) {
	c, err := newConnector("host=db.internal;port=3307;user=app;password=secret;database=appdb")
	require.NoError(t, err)
	require.Equal(t, "db.internal", c.params["host"])
	require.Equal(t, "3307", c.params["port"])
	require.Equal(t, "app", c.params["user"])
	require.Equal(t, "secret", c.params["password"])
	require.Equal(t, "appdb", c.params["database"])
}

func TestNewConnectorIgnoresEmptySegments(t *testing.T) {
	c, err := newConnector("host=db;;port=3306;")
	require.NoError(t, err)
	require.Len(t, c.params, 2)
}

func TestNewConnectorKeyWithoutValue(t *testing.T) {
	c, err := newConnector("host=db;charset=")
	require.NoError(t, err)
	require.Equal(t, "", c.params["charset"])
}
