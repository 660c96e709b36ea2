package genesis

import (
	"fmt"
	"os"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/runtime"
	"trusted-swap-sol/internal/logic/tokenstate"
	"trusted-swap-sol/internal/types"

	"gopkg.in/yaml.v3"
)

// Genesis 描述账本的初始账户
type Genesis struct {
	Wallets       []Wallet       `yaml:"wallets"`
	Mints         []Mint         `yaml:"mints"`
	TokenAccounts []TokenAccount `yaml:"token_accounts"`
}

type Wallet struct {
	Key      types.Pubkey `yaml:"key"`
	Lamports uint64       `yaml:"lamports"`
}

type Mint struct {
	Key       types.Pubkey  `yaml:"key"`
	Decimals  uint8         `yaml:"decimals"`
	Supply    uint64        `yaml:"supply"`
	Authority *types.Pubkey `yaml:"authority"`
}

type TokenAccount struct {
	Key    types.Pubkey `yaml:"key"`
	Mint   types.Pubkey `yaml:"mint"`
	Owner  types.Pubkey `yaml:"owner"`
	Amount uint64       `yaml:"amount"`
}

// Load 从 yaml 文件读取创世配置
func Load(path string) (*Genesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis file %s: %w", path, err)
	}
	var g Genesis
	if err := yaml.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode genesis file %s: %w", path, err)
	}
	return &g, nil
}

// Apply 把创世账户写入账本，地址重复时报错
func (g *Genesis) Apply(db *runtime.AccountsDB) error {
	seen := make(map[types.Pubkey]struct{})
	put := func(acc *runtime.Account) error {
		if _, ok := seen[acc.Key]; ok {
			return fmt.Errorf("duplicate genesis account %s", acc.Key)
		}
		seen[acc.Key] = struct{}{}
		db.Put(acc)
		return nil
	}

	for _, w := range g.Wallets {
		if err := put(WalletAccount(w.Key, w.Lamports)); err != nil {
			return err
		}
	}
	for _, m := range g.Mints {
		if err := put(MintAccount(m.Key, m.Decimals, m.Supply, m.Authority)); err != nil {
			return err
		}
	}
	for _, ta := range g.TokenAccounts {
		if err := put(TokenAccountOf(ta.Key, ta.Mint, ta.Owner, ta.Amount)); err != nil {
			return err
		}
	}
	return nil
}

// WalletAccount 普通钱包账户（System Program 所有）
func WalletAccount(key types.Pubkey, lamports uint64) *runtime.Account {
	return &runtime.Account{Key: key, Owner: consts.SystemProgram, Lamports: lamports}
}

// MintAccount 已初始化的 Mint 账户
func MintAccount(key types.Pubkey, decimals uint8, supply uint64, authority *types.Pubkey) *runtime.Account {
	m := &tokenstate.Mint{
		MintAuthority: authority,
		Supply:        supply,
		Decimals:      decimals,
		IsInitialized: true,
	}
	return &runtime.Account{Key: key, Owner: consts.TokenProgram, Data: m.Marshal()}
}

// TokenAccountOf 已初始化的 Token 账户
func TokenAccountOf(key, mint, owner types.Pubkey, amount uint64) *runtime.Account {
	state := &tokenstate.Account{
		Mint:   mint,
		Owner:  owner,
		Amount: amount,
		State:  tokenstate.AccountStateInitialized,
	}
	return &runtime.Account{Key: key, Owner: consts.TokenProgram, Data: state.Marshal()}
}

// TokenAmount 读取账本中 Token 账户余额，账户不存在或不是 Token 账户时返回 false
func TokenAmount(db *runtime.AccountsDB, key types.Pubkey) (uint64, bool) {
	acc, ok := db.Get(key)
	if !ok || acc.Owner != consts.TokenProgram {
		return 0, false
	}
	amount, err := tokenstate.ReadAmount(acc.Data)
	if err != nil {
		return 0, false
	}
	return amount, true
}
