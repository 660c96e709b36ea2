package runtime

import (
	"bytes"
	"fmt"

	"trusted-swap-sol/internal/consts"
	"trusted-swap-sol/internal/logic/tokenstate"
	"trusted-swap-sol/internal/types"

	"github.com/holiman/uint256"
)

// tokenFlow 累计某个 mint 在一次调用中的借贷总额
type tokenFlow struct {
	debit  uint256.Int
	credit uint256.Int
}

// verify 校验本次调用对账户的修改：
//   - 只读账户不得修改
//   - 不得修改账户归属
//   - 只能扣减自己拥有账户的 lamports，且总量守恒
//   - 只能修改自己拥有账户的数据；例外是非 Token 程序直接改写 Token 账户余额字段：
//     被扣减账户的 token owner 必须是本程序拥有的账户，且同一 mint 借贷相等
func (c *InvokeContext) verify() error {
	var lamportsPre, lamportsPost uint256.Int
	var flows map[types.Pubkey]*tokenFlow
	var mints []types.Pubkey

	for _, key := range c.keys {
		pre := c.pre[key]
		post := c.txCtx.accounts[key]
		lamportsPre.Add(&lamportsPre, uint256.NewInt(pre.Lamports))
		lamportsPost.Add(&lamportsPost, uint256.NewInt(post.Lamports))
		if pre.equal(post) {
			continue
		}

		if !c.privileges[key].writable {
			return fmt.Errorf("%w: %s", ErrReadonlyDataModified, key)
		}
		if pre.Owner != post.Owner || pre.Executable != post.Executable {
			return fmt.Errorf("%w: %s", ErrModifiedProgramID, key)
		}
		if post.Lamports < pre.Lamports && pre.Owner != c.programID {
			return fmt.Errorf("%w: %s lamports debited", ErrExternalAccountDataModified, key)
		}
		if bytes.Equal(pre.Data, post.Data) || pre.Owner == c.programID {
			continue
		}
		if pre.Owner != consts.TokenProgram || !tokenstate.OnlyAmountChanged(pre.Data, post.Data) {
			return fmt.Errorf("%w: %s", ErrExternalAccountDataModified, key)
		}

		mint, flow, err := c.tokenFlow(key, pre.Data, post.Data)
		if err != nil {
			return err
		}
		if flows == nil {
			flows = make(map[types.Pubkey]*tokenFlow)
		}
		acc, ok := flows[mint]
		if !ok {
			acc = &tokenFlow{}
			flows[mint] = acc
			mints = append(mints, mint)
		}
		acc.debit.Add(&acc.debit, &flow.debit)
		acc.credit.Add(&acc.credit, &flow.credit)
	}

	if !lamportsPre.Eq(&lamportsPost) {
		return fmt.Errorf("%w: lamports", ErrUnbalancedInstruction)
	}
	for _, mint := range mints {
		if f := flows[mint]; !f.debit.Eq(&f.credit) {
			return fmt.Errorf("%w: mint=%s debit=%v credit=%v", ErrUnbalancedInstruction, mint, f.debit.ToBig(), f.credit.ToBig())
		}
	}
	return nil
}

// tokenFlow 计算单个 Token 账户的余额变化，并校验扣减权限
func (c *InvokeContext) tokenFlow(key types.Pubkey, preData, postData []byte) (types.Pubkey, *tokenFlow, error) {
	state, err := tokenstate.Unmarshal(preData)
	if err != nil || state.State != tokenstate.AccountStateInitialized {
		return types.Pubkey{}, nil, fmt.Errorf("%w: %s not an initialized token account", ErrExternalAccountDataModified, key)
	}
	postAmount, err := tokenstate.ReadAmount(postData)
	if err != nil {
		return types.Pubkey{}, nil, fmt.Errorf("%w: %s", ErrExternalAccountDataModified, key)
	}

	flow := &tokenFlow{}
	if postAmount < state.Amount {
		authority, ok := c.txCtx.accounts[state.Owner]
		if !ok || authority.Owner != c.programID {
			return types.Pubkey{}, nil, fmt.Errorf("%w: %s debited without authority %s", ErrExternalAccountDataModified, key, state.Owner)
		}
		flow.debit.SetUint64(state.Amount - postAmount)
	} else {
		flow.credit.SetUint64(postAmount - state.Amount)
	}
	return state.Mint, flow, nil
}
