package status

import "errors"

// Result is the closed set of outcomes returned by core operations.
// Every non-OK value is also an error.
type Result int8

const (
	OK        Result = 0
	BadLen    Result = -1
	BadState  Result = -2
	UnknownID Result = -3
	Range     Result = -4
	Internal  Result = -5
	NoSpace   Result = -6
	ParseFail Result = -10
)

func (r Result) Error() string {
	return "status: " + r.String()
}

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case BadLen:
		return "bad_len"
	case BadState:
		return "bad_state"
	case UnknownID:
		return "unknown_id"
	case Range:
		return "range"
	case Internal:
		return "internal"
	case NoSpace:
		return "no_space"
	case ParseFail:
		return "parse_fail"
	default:
		return "unknown"
	}
}

// Code is a response code as carried in the first byte of every reply.
type Code uint8

const (
	CodeOK        Code = 0x00
	CodeBadLen    Code = 0x01
	CodeBadState  Code = 0x02
	CodeUnknownID Code = 0x03
	CodeRange     Code = 0x04
	CodeInternal  Code = 0x05
	CodeParseFail Code = 0x0B
	CodeNoSpace   Code = 0x0C
	CodeStreamErr Code = 0x0D
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeBadLen:
		return "BAD_LEN"
	case CodeBadState:
		return "BAD_STATE"
	case CodeUnknownID:
		return "UNKNOWN_ID"
	case CodeRange:
		return "RANGE"
	case CodeInternal:
		return "INTERNAL"
	case CodeParseFail:
		return "PARSE_FAIL"
	case CodeNoSpace:
		return "NO_SPACE"
	case CodeStreamErr:
		return "STREAM_ERR"
	default:
		return "UNKNOWN"
	}
}

// Code maps a result to its wire response code.
func (r Result) Code() Code {
	switch r {
	case OK:
		return CodeOK
	case BadLen:
		return CodeBadLen
	case BadState:
		return CodeBadState
	case UnknownID:
		return CodeUnknownID
	case Range:
		return CodeRange
	case NoSpace:
		return CodeNoSpace
	case ParseFail:
		return CodeParseFail
	default:
		return CodeInternal
	}
}

// CodeOf maps an operation error to a response code. nil is OK; errors that
// are not a Result report INTERNAL.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var r Result
	if errors.As(err, &r) {
		return r.Code()
	}
	return CodeInternal
}

// Err converts a Result to an error, with OK becoming nil.
func (r Result) Err() error {
	if r == OK {
		return nil
	}
	return r
}
