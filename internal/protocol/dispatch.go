package protocol

import (
	"encoding/binary"
	"fmt"

	"oledui/internal/link"
	"oledui/internal/status"
	"oledui/internal/store"
	"oledui/internal/ui"
)

const replyCap = link.MaxDecoded - link.HeaderLen

type handler func(d *Dispatcher, p []byte) []byte

type route struct {
	cmd Cmd
	fn  handler
}

// routes is the served command table. Commands not listed reply BAD_LEN.
var routes = [...]route{
	{CmdPing, (*Dispatcher).ping},
	{CmdJSON, (*Dispatcher).json},
	{CmdJSONAbort, (*Dispatcher).abort},
	{CmdSetActiveScreen, (*Dispatcher).setActiveScreen},
	{CmdGetStatus, (*Dispatcher).getStatus},
	{CmdScrollToScreen, (*Dispatcher).scroll},
	{CmdGetElementState, (*Dispatcher).elementState},
	{CmdShowOverlay, (*Dispatcher).showOverlay},
	{CmdInputEvent, (*Dispatcher).input},
	{CmdGotoStandby, (*Dispatcher).standby},
}

// Dispatcher serves link requests against a ui.State. Replies alias an
// internal buffer that is valid until the next Serve.
type Dispatcher struct {
	ui  *ui.State
	log link.Logger
	out [replyCap]byte
}

var _ link.Handler = (*Dispatcher)(nil)

func New(s *ui.State, log link.Logger) *Dispatcher {
	return &Dispatcher{ui: s, log: log}
}

// Reset discards the element tree and interaction state.
func (d *Dispatcher) Reset() { d.ui.Reset() }

func (d *Dispatcher) Serve(cmd byte, payload []byte) []byte {
	for i := range routes {
		if routes[i].cmd == Cmd(cmd) {
			return routes[i].fn(d, payload)
		}
	}
	d.logf("proto: unknown cmd 0x%02X", cmd)
	return d.code(status.CodeBadLen)
}

func (d *Dispatcher) code(c status.Code) []byte {
	d.out[0] = byte(c)
	return d.out[:1]
}

func (d *Dispatcher) result(err error) []byte { return d.code(status.CodeOf(err)) }

func (d *Dispatcher) ping(p []byte) []byte {
	if len(p) != 0 {
		return d.code(status.CodeBadLen)
	}
	b := append(d.out[:0], byte(status.CodeOK), ui.ProtocolVersion)
	return binary.LittleEndian.AppendUint16(b, Caps)
}

func (d *Dispatcher) json(p []byte) []byte {
	if len(p) == 0 {
		return d.code(status.CodeBadLen)
	}
	err := d.ui.ApplyObject(p[1:], p[0])
	if err != nil {
		d.logf("proto: json flags=0x%02X: %v", p[0], err)
	}
	return d.result(err)
}

// abort is accepted for compatibility; objects are applied as they arrive,
// so there is no partial stream to drop.
func (d *Dispatcher) abort([]byte) []byte { return d.code(status.CodeOK) }

func (d *Dispatcher) setActiveScreen(p []byte) []byte {
	if len(p) != 1 {
		return d.code(status.CodeBadLen)
	}
	return d.result(d.ui.SetActiveScreen(p[0]))
}

func (d *Dispatcher) getStatus([]byte) []byte {
	st := Status{
		Elements: uint8(d.ui.ElementCount()),
		Screens:  d.ui.ScreenCount(),
		Active:   d.ui.ActiveScreen(),
		Version:  ui.ProtocolVersion,
		DirtyID:  store.NoID,
	}
	if d.ui.Initialized() {
		st.Flags |= FlagInitialized
	}
	if id, ok := d.ui.Dirty(); ok {
		st.Flags |= FlagDirty
		st.DirtyID = id
	}
	if d.ui.Overlay().Active() {
		st.Flags |= FlagOverlay
	}
	d.ui.ClearDirty()
	return AppendStatus(d.out[:0], st)
}

func (d *Dispatcher) scroll(p []byte) []byte {
	switch len(p) {
	case 1:
		return d.result(d.ui.ScrollToScreen(p[0]))
	case 3:
		off := int16(binary.LittleEndian.Uint16(p[0:2]))
		return d.result(d.ui.ScrollToOffset(off, p[2]))
	default:
		return d.code(status.CodeBadLen)
	}
}

func (d *Dispatcher) elementState(p []byte) []byte {
	if len(p) != 1 {
		return d.code(status.CodeBadLen)
	}
	id := store.ID(p[0])
	if int(id) >= d.ui.ElementCount() {
		return d.code(status.CodeUnknownID)
	}
	t := d.ui.Arena().TypeOf(id)
	b := append(d.out[:0], byte(status.CodeOK), byte(t))
	switch t {
	case store.TypeText:
		txt, _ := d.ui.Arena().Text(id)
		txt = txt[:min(len(txt), StateTextMax)]
		b = append(b, byte(len(txt)))
		b = append(b, txt...)
	case store.TypeTrigger:
		v, ok := d.ui.TriggerVersion(id)
		if !ok {
			return d.code(status.CodeRange)
		}
		b = append(b, v)
	case store.TypeBarrel:
		b = binary.LittleEndian.AppendUint16(b, uint16(d.ui.Value(id)))
	default:
		b = append(b, 0xFF)
	}
	return b
}

func (d *Dispatcher) showOverlay(p []byte) []byte {
	if len(p) < 1 {
		return d.code(status.CodeBadLen)
	}
	dur := uint16(ui.DefaultOverlayMS)
	if len(p) >= 3 {
		dur = max(binary.LittleEndian.Uint16(p[1:3]), 1)
	}
	mask := len(p) >= 4 && p[3]&0x01 != 0
	return d.result(d.ui.ShowOverlay(store.ID(p[0]), dur, mask))
}

func (d *Dispatcher) input(p []byte) []byte {
	if len(p) < 2 {
		return d.code(status.CodeBadLen)
	}
	return d.result(d.ui.Input(ui.Button(p[0]), p[1]))
}

func (d *Dispatcher) standby(p []byte) []byte {
	if len(p) == 0 {
		d.ui.RequestStandby()
	}
	return nil
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.log == nil {
		return
	}
	d.log.WriteLineString(fmt.Sprintf(format, args...))
}
