package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyBySQLStateClasses(t *testing.T) {
	cases := []struct {
		sqlstate string
		errno    uint16
		want     ErrorCategory
	}{
		{"08004", 0, CategoryConnectivity},
		{"28000", 0, CategoryAuth},
		{"23000", 0, CategoryConstraint},
		{"42000", 0, CategorySyntax},
		{"3D000", 0, CategorySyntax},
		{"3F000", 0, CategorySyntax},
		{"22001", 0, CategoryDataError},
		{"21000", 0, CategoryDataError},
		{"25000", 0, CategoryTransaction},
		{"40001", 0, CategoryTransaction},
		{"0A000", 0, CategoryNotSupported},
	}
	for _, c := range cases {
		require.Equal(t, c.want, ClassifyBySQLState(c.sqlstate, c.errno), "sqlstate %s", c.sqlstate)
	}
}

func TestClassifyBySQLStateHY000RefinesByErrno(t *testing.T) {
	require.Equal(t, CategoryDriverInternal, ClassifyBySQLState("HY000", errnoCommandsOutOfSync))
	require.Equal(t, CategoryResource, ClassifyBySQLState("HY000", errnoTooManyConnections))
	require.Equal(t, CategoryResource, ClassifyBySQLState("HY000", errnoOutOfResources))
	require.Equal(t, CategoryResource, ClassifyBySQLState("HY000", errnoOutOfMemory))
	require.Equal(t, CategoryResource, ClassifyBySQLState("HY000", errnoTooManyUserConns))
	require.Equal(t, CategoryDatabaseInternal, ClassifyBySQLState("HY000", 9999))
}

func TestClassifyBySQLStateUnknownClassAndShortString(t *testing.T) {
	require.Equal(t, CategoryUnknown, ClassifyBySQLState("99000", 0))
	require.Equal(t, CategoryUnknown, ClassifyBySQLState("4", 0))
	require.Equal(t, CategoryUnknown, ClassifyBySQLState("", 0))
}
