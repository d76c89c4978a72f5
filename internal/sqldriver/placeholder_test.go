package sqldriver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteQuestionSyntaxIsPassThrough(t *testing.T) {
	res, err := Rewrite("SELECT * FROM t WHERE a = ?", SyntaxQuestion)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM t WHERE a = ?", res.Query)
	require.Empty(t, res.Names)
	require.False(t, res.HadNamedPlaceholders)
}

func TestRewriteColonSyntaxBasic(t *testing.T) {
	res, err := Rewrite("SELECT * FROM t WHERE a = :x AND b = :y", SyntaxColon)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM t WHERE a = ? AND b = ?", res.Query)
	require.Equal(t, []string{"x", "y"}, res.Names)
	require.True(t, res.HadNamedPlaceholders)
}

func TestRewriteIgnoresColonInsideQuotedStrings(t *testing.T) {
	res, err := Rewrite(`SELECT * FROM t WHERE a = :x AND b = @y AND c = ':x'`, SyntaxColon)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM t WHERE a = ? AND b = @y AND c = ':x'`, res.Query)
	require.Equal(t, []string{"x"}, res.Names)
}

func TestRewriteIgnoresEscapedQuoteInsideString(t *testing.T) {
	res, err := Rewrite(`SELECT * FROM t WHERE a = ':x\'s value' AND b = :y`, SyntaxColon)
	require.NoError(t, err)
	require.Equal(t, []string{"y"}, res.Names)
}

func TestRewriteDoubleQuotedIdentifierUntouched(t *testing.T) {
	res, err := Rewrite(`SELECT "col:name" FROM t WHERE a = :x`, SyntaxColon)
	require.NoError(t, err)
	require.Equal(t, `SELECT "col:name" FROM t WHERE a = ?`, res.Query)
	require.Equal(t, []string{"x"}, res.Names)
}

func TestRewriteNoPlaceholdersIsIdentity(t *testing.T) {
	res, err := Rewrite("SELECT * FROM t", SyntaxColon)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM t", res.Query)
	require.Empty(t, res.Names)
	require.False(t, res.HadNamedPlaceholders)
}

func TestRewriteAtSyntaxDisabledByDefault(t *testing.T) {
	_, err := Rewrite("SELECT * FROM t WHERE a = @x", SyntaxAt)
	require.Error(t, err)
}

func TestRewriteAtSyntaxOptIn(t *testing.T) {
	res, err := Rewrite("SELECT * FROM t WHERE a = @x", SyntaxAt, AllowUserVariableCollision)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM t WHERE a = ?", res.Query)
	require.Equal(t, []string{"x"}, res.Names)
}

func TestRewriteRepeatedNameRecordedEachOccurrence(t *testing.T) {
	res, err := Rewrite("SELECT * FROM t WHERE a = :x OR b = :x", SyntaxColon)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "x"}, res.Names)
	require.Equal(t, "SELECT * FROM t WHERE a = ? OR b = ?", res.Query)
}
