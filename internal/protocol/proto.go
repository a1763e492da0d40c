// Package protocol defines the request/response command set spoken over the
// framed link and serves it against the UI state.
//
// Every request is one command byte followed by its payload. Every reply
// starts with a status.Code byte; GOTO_STANDBY is the only command without a
// reply. Multi-byte fields are little-endian.
package protocol

import (
	"encoding/binary"

	"oledui/internal/link"
	"oledui/internal/status"
	"oledui/internal/store"
)

// Cmd identifies a request.
type Cmd uint8

const (
	CmdPing            Cmd = 0x00
	CmdJSON            Cmd = 0x01
	CmdJSONAbort       Cmd = 0x03
	CmdSetActiveScreen Cmd = 0x10
	CmdSetCursor       Cmd = 0x13
	CmdNavigateMenu    Cmd = 0x14
	CmdSetAnimation    Cmd = 0x16
	CmdGetStatus       Cmd = 0x20
	CmdScrollToScreen  Cmd = 0x21
	CmdGetElementState Cmd = 0x22
	CmdShowOverlay     Cmd = 0x30
	CmdInputEvent      Cmd = 0x41
	CmdGotoStandby     Cmd = 0x50
)

func (c Cmd) String() string {
	switch c {
	case CmdPing:
		return "ping"
	case CmdJSON:
		return "json"
	case CmdJSONAbort:
		return "json_abort"
	case CmdSetActiveScreen:
		return "set_active_screen"
	case CmdSetCursor:
		return "set_cursor"
	case CmdNavigateMenu:
		return "navigate_menu"
	case CmdSetAnimation:
		return "set_animation"
	case CmdGetStatus:
		return "get_status"
	case CmdScrollToScreen:
		return "scroll_to_screen"
	case CmdGetElementState:
		return "get_element_state"
	case CmdShowOverlay:
		return "show_overlay"
	case CmdInputEvent:
		return "input_event"
	case CmdGotoStandby:
		return "goto_standby"
	default:
		return "unknown"
	}
}

// Status flags reported by GET_STATUS.
const (
	FlagInitialized uint8 = 0x01
	FlagDirty       uint8 = 0x02
	FlagOverlay     uint8 = 0x04
)

// Caps is the capability word reported by PING. No optional features are
// advertised.
const Caps uint16 = 0

// MaxObject is the largest element object that fits one JSON request next
// to the command and flags bytes.
const MaxObject = link.MaxDecoded - 2

// StateTextMax bounds the text returned by GET_ELEMENT_STATE.
const StateTextMax = 10

const statusLen = 10

// Status is the decoded GET_STATUS reply.
type Status struct {
	Flags    uint8
	Elements uint8
	Screens  uint8
	Active   uint8
	Version  uint8
	DirtyID  store.ID
}

func (s Status) Initialized() bool { return s.Flags&FlagInitialized != 0 }
func (s Status) Dirty() bool       { return s.Flags&FlagDirty != 0 }
func (s Status) Overlay() bool     { return s.Flags&FlagOverlay != 0 }

// AppendStatus appends an OK status reply to dst.
func AppendStatus(dst []byte, s Status) []byte {
	return append(dst, byte(status.CodeOK), s.Flags, s.Elements, s.Screens,
		s.Active, s.Version, byte(s.DirtyID), 0, 0, 0)
}

// DecodeStatus parses a GET_STATUS reply.
func DecodeStatus(reply []byte) (Status, error) {
	if err := replyErr(reply); err != nil {
		return Status{}, err
	}
	if len(reply) < statusLen {
		return Status{}, status.BadLen
	}
	return Status{
		Flags:    reply[1],
		Elements: reply[2],
		Screens:  reply[3],
		Active:   reply[4],
		Version:  reply[5],
		DirtyID:  store.ID(reply[6]),
	}, nil
}

// PingReply is the decoded PING reply.
type PingReply struct {
	Version uint8
	Caps    uint16
}

// DecodePing parses a PING reply.
func DecodePing(reply []byte) (PingReply, error) {
	if err := replyErr(reply); err != nil {
		return PingReply{}, err
	}
	if len(reply) < 4 {
		return PingReply{}, status.BadLen
	}
	return PingReply{Version: reply[1], Caps: binary.LittleEndian.Uint16(reply[2:4])}, nil
}

// ElementState is the decoded GET_ELEMENT_STATE reply. Which field is set
// depends on Type.
type ElementState struct {
	Type    store.Type
	Text    []byte
	Version uint8
	Value   int16
}

// DecodeElementState parses a GET_ELEMENT_STATE reply.
func DecodeElementState(reply []byte) (ElementState, error) {
	if err := replyErr(reply); err != nil {
		return ElementState{}, err
	}
	if len(reply) < 3 {
		return ElementState{}, status.BadLen
	}
	es := ElementState{Type: store.Type(reply[1])}
	switch es.Type {
	case store.TypeText:
		n := int(reply[2])
		if len(reply) < 3+n {
			return ElementState{}, status.BadLen
		}
		es.Text = reply[3 : 3+n]
	case store.TypeTrigger:
		es.Version = reply[2]
	case store.TypeBarrel:
		if len(reply) < 4 {
			return ElementState{}, status.BadLen
		}
		es.Value = int16(binary.LittleEndian.Uint16(reply[2:4]))
	}
	return es, nil
}

// ReplyErr returns the error carried by a single-code reply.
func ReplyErr(reply []byte) error { return replyErr(reply) }

func replyErr(reply []byte) error {
	if len(reply) == 0 {
		return status.BadLen
	}
	return ResultOf(status.Code(reply[0])).Err()
}

// ResultOf maps a wire code back to a Result.
func ResultOf(c status.Code) status.Result {
	switch c {
	case status.CodeOK:
		return status.OK
	case status.CodeBadLen:
		return status.BadLen
	case status.CodeBadState:
		return status.BadState
	case status.CodeUnknownID:
		return status.UnknownID
	case status.CodeRange:
		return status.Range
	case status.CodeNoSpace:
		return status.NoSpace
	case status.CodeParseFail:
		return status.ParseFail
	default:
		return status.Internal
	}
}

// Request payload builders, used by the host side.

// JSONPayload prefixes an element object with its apply flags.
func JSONPayload(flags uint8, obj []byte) []byte {
	return append([]byte{flags}, obj...)
}

// ScrollPayload selects a screen with an explicit scroll offset.
func ScrollPayload(offset int16, ordinal uint8) []byte {
	b := make([]byte, 3)
	binary.LittleEndian.PutUint16(b[0:2], uint16(offset))
	b[2] = ordinal
	return b
}

// OverlayPayload shows overlay screen id for ms milliseconds.
func OverlayPayload(id store.ID, ms uint16, maskInput bool) []byte {
	b := make([]byte, 4)
	b[0] = byte(id)
	binary.LittleEndian.PutUint16(b[1:3], ms)
	if maskInput {
		b[3] = 0x01
	}
	return b
}

// InputPayload carries one button event.
func InputPayload(button, event uint8) []byte { return []byte{button, event} }
