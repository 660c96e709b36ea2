package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleEvent struct {
	Account [32]byte
	Amount  uint64
	Memo    string
	Values  []uint32
}

func TestEventCodec(t *testing.T) {
	in := sampleEvent{Amount: 500, Memo: "swap", Values: []uint32{1, 2, 3}}
	in.Account[0] = 7

	data, err := EncodeEvent(42, in)
	require.NoError(t, err)
	assert.Equal(t, []byte{42, 0, 0, 0}, data[:4])

	var out sampleEvent
	eventType, err := DecodeEvent(data, &out)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), eventType)
	assert.Equal(t, in, out)

	_, err = DecodeEvent([]byte{1, 2}, &out)
	assert.ErrorIs(t, err, ErrShortEvent)

	_, err = DecodeEvent(data[:10], &out)
	assert.Error(t, err)
}

func TestPartitionHashBytes(t *testing.T) {
	b := make([]byte, 32)
	b[7], b[15], b[19], b[27] = 1, 2, 3, 13

	assert.Equal(t, uint32(0), PartitionHashBytes(b[:20], 7))
	assert.Equal(t, uint32(0), PartitionHashBytes(b, 1))
	assert.Equal(t, uint32(13&3), PartitionHashBytes(b, 4))

	hash := uint32(1)<<24 | uint32(2)<<16 | uint32(3)<<8 | 13
	assert.Equal(t, hash%7, PartitionHashBytes(b, 7))

	var key [32]byte
	copy(key[:], b)
	assert.Equal(t, int32(hash%7), PartitionOf(key, 7))
	assert.Equal(t, int32(0), PartitionOf(key, 0))
}

func TestCalcCapPerPartition(t *testing.T) {
	assert.Equal(t, 100, CalcCapPerPartition(100, 1, 10))
	assert.Equal(t, 10, CalcCapPerPartition(4, 3, 10))
	assert.Equal(t, 50, CalcCapPerPartition(100, 4, 10))
	assert.Equal(t, 30, CalcCapPerPartition(100, 10, 10))
}
