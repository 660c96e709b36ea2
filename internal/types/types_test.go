package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const wsolMint = "So11111111111111111111111111111111111111112"

func TestPubkeyBase58(t *testing.T) {
	p, err := TryPubkeyFromBase58(wsolMint)
	require.NoError(t, err)
	assert.Equal(t, wsolMint, p.String())
	assert.True(t, p.Equals(PubkeyFromBase58(wsolMint)))
	assert.False(t, p.IsZero())
	assert.True(t, Pubkey{}.IsZero())

	_, err = TryPubkeyFromBase58("0OIl")
	assert.Error(t, err)
	_, err = TryPubkeyFromBase58("3yZe7d")
	assert.Error(t, err)
	assert.Panics(t, func() { PubkeyFromBase58("bad!") })

	_, err = PubkeyFromBytes(make([]byte, 31))
	assert.Error(t, err)
}

func TestPubkeyYAML(t *testing.T) {
	var v struct {
		Mint  Pubkey   `yaml:"mint"`
		Other []Pubkey `yaml:"other"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("mint: "+wsolMint+"\nother: ["+wsolMint+"]\n"), &v))
	assert.Equal(t, wsolMint, v.Mint.String())
	require.Len(t, v.Other, 1)

	assert.Error(t, yaml.Unmarshal([]byte("mint: nope0"), &v))
}

func TestHashFromBase58(t *testing.T) {
	var h Hash
	h[0], h[31] = 1, 2
	parsed, err := HashFromBase58(h.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equals(h))

	_, err = HashFromBase58(wsolMint[:10])
	assert.Error(t, err)
}
