package types

import (
	"fmt"

	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"
)

const PubkeyLength = 32

// Pubkey 表示账本中的账户地址 / 程序地址（32 字节）。
type Pubkey [PubkeyLength]byte

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) Equals(other Pubkey) bool {
	return p == other
}

func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// TryPubkeyFromBase58 解析 base58 字符串为 Pubkey，失败时返回 error（用于不信任输入路径）
func TryPubkeyFromBase58(s string) (Pubkey, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("failed to decode base58 pubkey %q: %w", s, err)
	}
	return PubkeyFromBytes(data)
}

// PubkeyFromBase58 用于常量初始化，解析失败直接 panic
func PubkeyFromBase58(s string) Pubkey {
	p, err := TryPubkeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PubkeyFromBytes 从原始字节构造 Pubkey，长度必须为 32
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	if len(b) != PubkeyLength {
		return Pubkey{}, fmt.Errorf("invalid pubkey length: got %d, want %d", len(b), PubkeyLength)
	}
	var p Pubkey
	copy(p[:], b)
	return p, nil
}

// UnmarshalYAML 支持在 yaml 中直接书写 base58 地址
func (p *Pubkey) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := TryPubkeyFromBase58(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
