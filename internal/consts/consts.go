package consts

const (
	// MaxInvokeDepth 指令调用最大深度（顶层指令为 1，每层 CPI +1）
	MaxInvokeDepth = 4

	// MaxSignerSeeds PDA 签名种子数量上限
	MaxSignerSeeds = 16
)
