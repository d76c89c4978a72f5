package sqldriver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCleanRegistry(t *testing.T) {
	t.Helper()
	original := snapshotRegistry()
	t.Cleanup(func() { resetRegistry(original) })
	resetRegistry(map[string]Factory{})
}

func TestRegisterAndGet(t *testing.T) {
	withCleanRegistry(t)

	Register("TESTDRIVER", New)

	d, err := Get("TESTDRIVER")
	require.NoError(t, err)
	assert.NotNil(t, d)
}

func TestGetUnregisteredNameErrors(t *testing.T) {
	withCleanRegistry(t)

	_, err := Get("NOPE")
	assert.Error(t, err)
}

func TestRegisterOverwritesExistingName(t *testing.T) {
	withCleanRegistry(t)

	first := func() *Driver { return &Driver{lastErr: noError} }
	second := New
	Register("TESTDRIVER", first)
	Register("TESTDRIVER", second)

	d, err := Get("TESTDRIVER")
	require.NoError(t, err)
	assert.NotNil(t, d)
}

func TestRegisterMySQLRegistersUnderMYSQL(t *testing.T) {
	withCleanRegistry(t)

	RegisterMySQL()

	d, err := Get("MYSQL")
	require.NoError(t, err)
	assert.NotNil(t, d)
}
