package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateSavepointName(t *testing.T) {
	require.NoError(t, validateSavepointName("sp1"))
	require.Error(t, validateSavepointName(""))
	require.Error(t, validateSavepointName("sp`1"))
	require.Error(t, validateSavepointName("sp'1"))
	require.Error(t, validateSavepointName(`sp"1`))
	require.Error(t, validateSavepointName("sp 1"))
}
