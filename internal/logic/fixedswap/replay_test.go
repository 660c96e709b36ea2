package fixedswap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumedIndexRecord(t *testing.T) {
	r := NewConsumedIndexRecord()
	require.NoError(t, r.Consume(0))
	require.NoError(t, r.Consume(2))
	assert.ErrorIs(t, r.Consume(0), ErrInstructionAlreadyConsumed)
	assert.ErrorIs(t, r.Consume(2), ErrInstructionAlreadyConsumed)
	assert.Equal(t, 2, r.Len())

	assert.NoError(t, NewConsumedIndexRecord().Consume(0))
}
