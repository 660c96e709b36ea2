package tokenstate

import (
	"encoding/binary"

	"trusted-swap-sol/internal/types"
)

// Mint 布局:
//
//	[0:36]  mint_authority (COption<Pubkey>)
//	[36:44] supply (u64 LE)
//	[44]    decimals
//	[45]    is_initialized
//	[46:82] freeze_authority (COption<Pubkey>)
const MintSize = 82

const (
	mintAuthorityOffset   = 0
	supplyOffset          = 36
	decimalsOffset        = 44
	isInitializedOffset   = 45
	freezeAuthorityOffset = 46
)

type Mint struct {
	MintAuthority   *types.Pubkey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *types.Pubkey
}

func (m *Mint) Marshal() []byte {
	b := make([]byte, MintSize)
	putOptionalKey(b[mintAuthorityOffset:], m.MintAuthority)
	binary.LittleEndian.PutUint64(b[supplyOffset:], m.Supply)
	b[decimalsOffset] = m.Decimals
	if m.IsInitialized {
		b[isInitializedOffset] = 1
	}
	putOptionalKey(b[freezeAuthorityOffset:], m.FreezeAuthority)
	return b
}

func UnmarshalMint(b []byte) (*Mint, error) {
	if len(b) != MintSize || b[isInitializedOffset] > 1 {
		return nil, ErrInvalidAccountData
	}
	m := &Mint{
		Supply:        binary.LittleEndian.Uint64(b[supplyOffset:]),
		Decimals:      b[decimalsOffset],
		IsInitialized: b[isInitializedOffset] == 1,
	}
	var ok bool
	if m.MintAuthority, ok = getOptionalKey(b[mintAuthorityOffset:]); !ok {
		return nil, ErrInvalidAccountData
	}
	if m.FreezeAuthority, ok = getOptionalKey(b[freezeAuthorityOffset:]); !ok {
		return nil, ErrInvalidAccountData
	}
	return m, nil
}
