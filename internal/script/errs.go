package script

import "errors"

var (
	// ErrScriptParse is returned when a script byte stream is malformed: a
	// push's declared length overruns the remaining bytes, or the stream
	// ends mid-element.
	ErrScriptParse = errors.New("malformed script")

	// ErrScriptEval is returned when Evaluate cannot be carried through to
	// a verdict: an opcode handler failed, or the final stack is empty or
	// its top element is the zero byte string.
	ErrScriptEval = errors.New("script evaluation failed")
)
