//go:build xlockreg_off

package xlockreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompiledOut(t *testing.T) {
	assert.False(t, CompiledIn)
	r, err := Enable()
	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrCompiledOut)
	Disable()
	assert.Nil(t, Global())
}
