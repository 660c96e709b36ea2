package genesis

import (
	"os"
	"path/filepath"
	"testing"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/runtime"
	"trusted-swap-sol/internal/logic/tokenstate"
	"trusted-swap-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genesisYAML = `
wallets:
  - key: 9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM
    lamports: 1000000000
mints:
  - key: So11111111111111111111111111111111111111112
    decimals: 9
    supply: 5000
token_accounts:
  - key: 7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU
    mint: So11111111111111111111111111111111111111112
    owner: 9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM
    amount: 1234
`

func TestLoadAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(genesisYAML), 0o644))

	g, err := Load(path)
	require.NoError(t, err)
	require.Len(t, g.Wallets, 1)
	require.Len(t, g.Mints, 1)
	require.Len(t, g.TokenAccounts, 1)

	db := runtime.NewAccountsDB()
	require.NoError(t, g.Apply(db))
	assert.Equal(t, 3, db.Len())

	wallet := types.PubkeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	tokenAcc := types.PubkeyFromBase58("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU")
	mint := types.PubkeyFromBase58("So11111111111111111111111111111111111111112")

	amount, ok := TokenAmount(db, tokenAcc)
	require.True(t, ok)
	assert.Equal(t, uint64(1234), amount)

	acc, ok := db.Get(tokenAcc)
	require.True(t, ok)
	state, err := tokenstate.Unmarshal(acc.Data)
	require.NoError(t, err)
	assert.Equal(t, mint, state.Mint)
	assert.Equal(t, wallet, state.Owner)

	mintAcc, ok := db.Get(mint)
	require.True(t, ok)
	assert.Equal(t, consts.TokenProgram, mintAcc.Owner)
	m, err := tokenstate.UnmarshalMint(mintAcc.Data)
	require.NoError(t, err)
	assert.Equal(t, uint8(9), m.Decimals)

	_, ok = TokenAmount(db, wallet)
	assert.False(t, ok)
}

func TestApplyDuplicate(t *testing.T) {
	key := types.PubkeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	g := &Genesis{
		Wallets: []Wallet{{Key: key, Lamports: 1}},
		Mints:   []Mint{{Key: key, Decimals: 6}},
	}
	assert.Error(t, g.Apply(runtime.NewAccountsDB()))
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wallets:\n  - key: not-base58-0OIl\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
