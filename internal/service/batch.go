package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/core"
	"trusted-swap-sol/internal/logic/fixedswap"
	"trusted-swap-sol/internal/logic/tokenprogram"
	"trusted-swap-sol/internal/types"

	"gopkg.in/yaml.v3"
)

// 批次文件中支持的指令类型
const (
	KindInitialize = "initialize"
	KindTransfer   = "transfer"
	KindSwap       = "swap"
	KindRaw        = "raw"
)

// Batch 待执行的一组交易，按顺序提交
type Batch struct {
	Name         string   `yaml:"name"`
	Transactions []TxSpec `yaml:"transactions"`
}

type TxSpec struct {
	Signature    string            `yaml:"signature"` // base58，为空时由批次名和序号派生
	Signers      []types.Pubkey    `yaml:"signers"`
	Instructions []InstructionSpec `yaml:"instructions"`
}

// InstructionSpec 一条指令的描述，按 Kind 读取对应字段
type InstructionSpec struct {
	Kind string `yaml:"kind"`

	// 资金池（initialize / swap，transfer 未填 destination 时转入该池的金库）
	InputMint   types.Pubkey `yaml:"input_mint"`
	OutputMint  types.Pubkey `yaml:"output_mint"`
	Payer       types.Pubkey `yaml:"payer"`
	Numerator   uint64       `yaml:"numerator"`
	Denominator uint64       `yaml:"denominator"`

	// transfer
	Source      types.Pubkey `yaml:"source"`
	Destination types.Pubkey `yaml:"destination"`
	Authority   types.Pubkey `yaml:"authority"`
	Amount      uint64       `yaml:"amount"`
	Vault       string       `yaml:"vault"` // input（默认）或 output

	// swap
	UserOutput types.Pubkey `yaml:"user_output"`

	// raw
	Program  types.Pubkey  `yaml:"program"`
	Accounts []AccountSpec `yaml:"accounts"`
	Data     string        `yaml:"data"` // hex
}

type AccountSpec struct {
	Key      types.Pubkey `yaml:"key"`
	Signer   bool         `yaml:"signer"`
	Writable bool         `yaml:"writable"`
}

// LoadBatch 从 yaml 文件读取交易批次
func LoadBatch(path string) (*Batch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file %s: %w", path, err)
	}
	var b Batch
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode batch file %s: %w", path, err)
	}
	if b.Name == "" {
		b.Name = path
	}
	return &b, nil
}

// Build 把第 index 笔交易描述转换为可执行交易
func (b *Batch) Build(index int) (*core.Transaction, error) {
	spec := &b.Transactions[index]

	sig, err := spec.signature(b.Name, index)
	if err != nil {
		return nil, fmt.Errorf("tx #%d: %w", index, err)
	}

	ixs := make([]core.Instruction, 0, len(spec.Instructions))
	for i := range spec.Instructions {
		ix, err := spec.Instructions[i].build()
		if err != nil {
			return nil, fmt.Errorf("tx #%d instruction #%d: %w", index, i, err)
		}
		ixs = append(ixs, ix)
	}

	return &core.Transaction{
		Signature:    sig,
		Signers:      spec.Signers,
		Instructions: ixs,
	}, nil
}

func (s *TxSpec) signature(batchName string, index int) (types.Hash, error) {
	if s.Signature != "" {
		return types.HashFromBase58(s.Signature)
	}
	return sha256.Sum256([]byte(fmt.Sprintf("%s#%d", batchName, index))), nil
}

func (s *InstructionSpec) build() (core.Instruction, error) {
	switch s.Kind {
	case KindInitialize:
		return fixedswap.NewInitializeInstruction(consts.FixedSwapProgram, s.Payer, s.InputMint, s.OutputMint, s.Numerator, s.Denominator)

	case KindTransfer:
		dest := s.Destination
		if dest.IsZero() {
			addrs, err := s.poolAddresses()
			if err != nil {
				return core.Instruction{}, err
			}
			switch s.Vault {
			case "", "input":
				dest = addrs.InputVault
			case "output":
				dest = addrs.OutputVault
			default:
				return core.Instruction{}, fmt.Errorf("unknown vault %q", s.Vault)
			}
		}
		return tokenprogram.NewTransferInstruction(s.Source, dest, s.Authority, s.Amount), nil

	case KindSwap:
		addrs, err := s.poolAddresses()
		if err != nil {
			return core.Instruction{}, err
		}
		return fixedswap.NewSwapInstruction(consts.FixedSwapProgram, addrs.Pool, s.UserOutput, addrs.InputVault, addrs.OutputVault), nil

	case KindRaw:
		data, err := hex.DecodeString(s.Data)
		if err != nil {
			return core.Instruction{}, fmt.Errorf("invalid raw data: %w", err)
		}
		metas := make([]core.AccountMeta, 0, len(s.Accounts))
		for _, a := range s.Accounts {
			metas = append(metas, core.AccountMeta{Pubkey: a.Key, IsSigner: a.Signer, IsWritable: a.Writable})
		}
		return core.Instruction{ProgramID: s.Program, Accounts: metas, Data: data}, nil

	default:
		return core.Instruction{}, fmt.Errorf("unknown instruction kind %q", s.Kind)
	}
}

func (s *InstructionSpec) poolAddresses() (*fixedswap.PoolAddresses, error) {
	if s.InputMint.IsZero() || s.OutputMint.IsZero() {
		return nil, fmt.Errorf("%s: input_mint and output_mint are required", s.Kind)
	}
	return fixedswap.DerivePoolAddresses(consts.FixedSwapProgram, s.InputMint, s.OutputMint)
}
