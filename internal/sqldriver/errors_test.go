package sqldriver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	mysql "sqldriver/internal/transport/mysql"
)

func TestClassifyErrorNilIsNoError(t *testing.T) {
	de := classifyError(nil)
	require.Equal(t, NoError, de.Category)
}

func TestClassifyErrorMapsTransportCategories(t *testing.T) {
	cases := []struct {
		in   mysql.ErrorCategory
		want DriverCategory
	}{
		{mysql.CategoryConnectivity, Connectivity},
		{mysql.CategoryAuth, Permissions},
		{mysql.CategorySyntax, Syntax},
		{mysql.CategoryDataError, DataRelated},
		{mysql.CategoryConstraint, Constraint},
		{mysql.CategoryTransaction, Transaction},
		{mysql.CategoryDriverInternal, DriverInternal},
		{mysql.CategoryProtocol, DatabaseInternal},
		{mysql.CategoryDatabaseInternal, DatabaseInternal},
		{mysql.CategoryResource, Resource},
		{mysql.CategoryNotSupported, FeatureNotSupported},
	}
	for _, c := range cases {
		te := &mysql.TransportError{Category: c.in, Message: "boom"}
		de := classifyError(te)
		require.Equal(t, c.want, de.Category, "category %s", c.in)
		require.ErrorIs(t, de.Err, te)
	}
}

func TestClassifyErrorPlaceholderCompatErrorIsDriverInternal(t *testing.T) {
	tc := &TransportCompatError{Message: "bad syntax choice"}
	de := classifyError(tc)
	require.Equal(t, DriverInternal, de.Category)
}

func TestClassifyErrorUnknownErrorBecomesUnknownCategory(t *testing.T) {
	de := classifyError(errors.New("something else"))
	require.Equal(t, Unknown, de.Category)
}

func TestDriverErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	de := &DriverError{Category: Unknown, Message: "wrap", Err: inner}
	require.ErrorIs(t, de, inner)
}
