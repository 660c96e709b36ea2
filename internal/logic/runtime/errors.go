package runtime

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTransaction            = errors.New("transaction has no instructions")
	ErrAlreadyProcessed            = errors.New("transaction already processed")
	ErrMissingRequiredSignature    = errors.New("missing required signature")
	ErrProgramNotFound             = errors.New("program not found")
	ErrCallDepth                   = errors.New("max invoke depth exceeded")
	ErrAccountNotFound             = errors.New("account not found in transaction")
	ErrPrivilegeEscalation         = errors.New("cross-program invocation with unauthorized signer or writable account")
	ErrReadonlyDataModified        = errors.New("instruction modified data of a read-only account")
	ErrExternalAccountDataModified = errors.New("instruction modified data of an account it does not own")
	ErrModifiedProgramID           = errors.New("instruction illegally modified the program id of an account")
	ErrUnbalancedInstruction       = errors.New("sum of token balances before and after instruction do not match")
	ErrInvalidSeeds                = errors.New("provided seeds do not result in a valid address")
	ErrAccountAlreadyInUse         = errors.New("account already in use")
	ErrInvalidSysvar               = errors.New("invalid instructions sysvar account")
	ErrInstructionIndexOutOfRange  = errors.New("instruction index out of range")
	ErrProgramPanicked             = errors.New("program panicked")
)

// InstructionError 标记失败发生在哪一条顶层指令
type InstructionError struct {
	Index int
	Err   error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d: %v", e.Index, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}
