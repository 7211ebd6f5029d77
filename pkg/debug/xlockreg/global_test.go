//go:build !xlockreg_off

package xlockreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableDisable(t *testing.T) {
	t.Cleanup(Disable)
	assert.True(t, CompiledIn)

	Disable()
	assert.Nil(t, Global())

	r, err := Enable()
	require.NoError(t, err)
	assert.Same(t, r, Global())

	again, err := Enable()
	require.NoError(t, err)
	assert.Same(t, r, again)

	Disable()
	assert.Nil(t, Global())

	_, err = Enable(WithShardCount(3))
	assert.ErrorIs(t, err, ErrInvalidShardCount)
	assert.Nil(t, Global())
}
