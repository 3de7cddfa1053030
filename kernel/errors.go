package kernel

import "github.com/g8rtos/kernel/lib/errors"

// Code is one of the historical negative integer error codes from the
// original G8RTOS kernel. Kept around so callers that only care about the
// numeric contract (e.g. firmware written against the C original) still
// have something to switch on, while Go callers get a normal error value
// wrapping it.
type Code int32

const (
	CodeNone                   Code = 0
	CodeThreadLimitReached     Code = -1
	CodeNoThreadsScheduled     Code = -2
	CodeThreadsIncorrectlyLive Code = -3
	CodeThreadDoesNotExist     Code = -4
	CodeCannotKillLastThread   Code = -5
	CodeIRQInvalid             Code = -6
	CodeHWIPriorityInvalid     Code = -7
)

// FIFOCode mirrors the IPC error taxonomy from spec.md, kept distinct from
// Code since the two enums overlap numerically but mean different things.
type FIFOCode int32

const (
	FIFOCodeSuccess         FIFOCode = 0
	FIFOCodeIndexOutOfBound FIFOCode = -1
	FIFOCodeEmpty           FIFOCode = -2
	FIFOCodeFull            FIFOCode = -3
)

// KernelError wraps a Code with a human-readable message so that
// errors.Is(err, ErrThreadLimitReached) keeps working for callers ported
// from the numeric-code API while `err.Error()` is still useful in logs.
type KernelError struct {
	code Code
	msg  string
}

func (e *KernelError) Error() string { return e.msg }

func newKernelError(code Code, msg string) *KernelError {
	return &KernelError{code: code, msg: msg}
}

// Is makes errors.Is(err, ErrX) match by code rather than identity, so two
// *KernelError values constructed independently (e.g. in tests) still
// compare equal.
func (e *KernelError) Is(target error) bool {
	other, ok := target.(*KernelError)
	if !ok {
		return false
	}
	return other.code == e.code
}

var (
	ErrThreadLimitReached     = newKernelError(CodeThreadLimitReached, "thread limit reached")
	ErrNoThreadsScheduled     = newKernelError(CodeNoThreadsScheduled, "no threads scheduled")
	ErrThreadsIncorrectlyLive = newKernelError(CodeThreadsIncorrectlyLive, "threads incorrectly alive")
	ErrThreadDoesNotExist     = newKernelError(CodeThreadDoesNotExist, "thread does not exist")
	ErrCannotKillLastThread   = newKernelError(CodeCannotKillLastThread, "cannot kill last thread")
	ErrIRQInvalid             = newKernelError(CodeIRQInvalid, "irq number invalid")
	ErrHWIPriorityInvalid     = newKernelError(CodeHWIPriorityInvalid, "hardware interrupt priority invalid")
)

// CodeOf extracts the numeric error code carried by err, for callers that
// need to bridge back to the C ABI's int32 return convention.
func CodeOf(err error) Code {
	if err == nil {
		return CodeNone
	}
	var kerr *KernelError
	if errors.As(err, &kerr) {
		return kerr.code
	}
	return CodeNone
}

// FIFOError is the FIFO-specific counterpart of KernelError.
type FIFOError struct {
	code FIFOCode
	msg  string
}

func (e *FIFOError) Error() string { return e.msg }

func (e *FIFOError) Is(target error) bool {
	other, ok := target.(*FIFOError)
	if !ok {
		return false
	}
	return other.code == e.code
}

func newFIFOError(code FIFOCode, msg string) *FIFOError {
	return &FIFOError{code: code, msg: msg}
}

var (
	ErrIndexOutOfBounds = newFIFOError(FIFOCodeIndexOutOfBound, "fifo index out of bounds")
	ErrFIFOEmpty        = newFIFOError(FIFOCodeEmpty, "fifo empty")
	ErrFIFOFull         = newFIFOError(FIFOCodeFull, "fifo full")
)

// FIFOCodeOf is the FIFO counterpart of CodeOf.
func FIFOCodeOf(err error) FIFOCode {
	if err == nil {
		return FIFOCodeSuccess
	}
	var ferr *FIFOError
	if errors.As(err, &ferr) {
		return ferr.code
	}
	return FIFOCodeSuccess
}
