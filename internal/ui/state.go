// Package ui holds the element tree built from streamed objects and the
// interaction state around it: focus, navigation, input handling, and the
// animation clock that drives re-renders.
//
// State is owned by the main loop. Nothing in this package blocks or
// allocates after construction.
package ui

import (
	"oledui/internal/ledcode"
	"oledui/internal/store"
)

// Button indexes the six input buttons.
type Button uint8

const (
	ButtonUp Button = iota
	ButtonDown
	ButtonOk
	ButtonBack
	ButtonLeft
	ButtonRight

	ButtonCount
)

func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonOk:
		return "ok"
	case ButtonBack:
		return "back"
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return "invalid"
	}
}

// Input events.
const (
	EventRelease uint8 = 0
	EventPress   uint8 = 1
)

const (
	ScreenWidth = 128
	PageHeight  = 8
	NavDepth    = 4

	// ProtocolVersion is reported by PING and GET_STATUS.
	ProtocolVersion = 1

	FrameMS          = 16
	SlideStep        = 8
	ListStep         = 1
	BlinkFrames      = 30
	DefaultOverlayMS = 1200
	DefaultHeight    = 64
)

// ApplyObject flags.
const (
	FlagReset  uint8 = 0x01
	FlagCommit uint8 = 0x02
)

// Overlay is a temporary full-screen overlay.
type Overlay struct {
	Screen      store.ID
	RemainingMS uint16
	MaskInput   bool
	PrevFocus   store.ID
}

// Active reports whether an overlay is shown.
func (o Overlay) Active() bool { return o.Screen != store.NoID }

// Slide is a horizontal transition between two base screens.
type Slide struct {
	Active bool
	From   uint8
	To     uint8
	Offset int16
	Dir    int8
}

type navKind uint8

const (
	navList navKind = iota
	navLocalScreen
)

type navEntry struct {
	kind        navKind
	target      store.ID
	returnList  store.ID
	savedCursor uint8
	savedTop    uint8
	savedFocus  store.ID
	savedActive uint8
}

type blink struct {
	active  bool
	phase   bool
	counter uint8
}

// State is the whole device-side UI model.
type State struct {
	arena store.Arena

	initialized bool
	headerSeen  bool

	activeScreen uint8
	screenCount  uint8
	scrollX      int16

	overlay Overlay
	slide   Slide
	blink   blink

	focus   store.ID
	dirty   bool
	dirtyID store.ID

	nav   [NavDepth]navEntry
	depth int

	renderRequested bool
	standby         bool

	// Not cleared by Reset.
	height       uint8
	lastAnimMS   uint32
	lastOverlay  uint32
	overlayClock bool

	// OnUp runs on every delivered Up release.
	OnUp func()
	// Events receives status LED codes. May be nil.
	Events ledcode.Sink
}

// New returns a reset State for a 64-pixel display.
func New() *State {
	s := &State{height: DefaultHeight}
	s.Reset()
	return s
}

// Reset discards the tree and all interaction state.
func (s *State) Reset() {
	s.arena.Reset()
	s.initialized = false
	s.headerSeen = false
	s.activeScreen = 0
	s.screenCount = 0
	s.scrollX = 0
	s.overlay = Overlay{Screen: store.NoID, PrevFocus: store.NoID}
	s.slide = Slide{}
	s.blink = blink{phase: true}
	s.focus = store.NoID
	s.dirty = false
	s.dirtyID = store.NoID
	for i := range s.nav {
		s.nav[i] = navEntry{target: store.NoID, returnList: store.NoID, savedFocus: store.NoID}
	}
	s.depth = 0
	s.renderRequested = false
	s.standby = false
}

// Arena exposes the element store.
func (s *State) Arena() *store.Arena { return &s.arena }

func (s *State) Initialized() bool { return s.initialized }
func (s *State) HeaderSeen() bool  { return s.headerSeen }

// ElementCount is the number of elements created so far.
func (s *State) ElementCount() int { return s.arena.Count() }

func (s *State) ScreenCount() uint8  { return s.screenCount }
func (s *State) ActiveScreen() uint8 { return s.activeScreen }
func (s *State) ScrollX() int16      { return s.scrollX }
func (s *State) Overlay() Overlay    { return s.overlay }
func (s *State) Slide() Slide        { return s.slide }
func (s *State) Focus() store.ID     { return s.focus }
func (s *State) Depth() int          { return s.depth }

// Height is the display height used for list windows.
func (s *State) Height() uint8 { return s.height }

// SetHeight records the panel height (32 or 64).
func (s *State) SetHeight(h uint8) {
	if h == 0 {
		h = DefaultHeight
	}
	s.height = h
}

// Dirty returns the pending change notification, if any.
func (s *State) Dirty() (store.ID, bool) {
	if !s.dirty {
		return store.NoID, false
	}
	return s.dirtyID, true
}

// ClearDirty consumes the change notification.
func (s *State) ClearDirty() {
	s.dirty = false
	s.dirtyID = store.NoID
}

func (s *State) markChanged(id store.ID) {
	if int(id) >= s.arena.Count() {
		return
	}
	s.dirty = true
	s.dirtyID = id
}

// RequestRender asks the main loop for a redraw.
func (s *State) RequestRender() { s.renderRequested = true }

// TakeRenderRequest consumes a pending render request.
func (s *State) TakeRenderRequest() bool {
	r := s.renderRequested
	s.renderRequested = false
	return r
}

// RequestStandby asks the main loop to power the panel down.
func (s *State) RequestStandby() { s.standby = true }

// TakeStandbyRequest consumes a pending standby request.
func (s *State) TakeStandbyRequest() bool {
	r := s.standby
	s.standby = false
	return r
}

// NormalizeActiveScreen falls back to the first screen when the active
// ordinal is out of range.
func (s *State) NormalizeActiveScreen() {
	if s.activeScreen >= s.screenCount {
		s.activeScreen = 0
	}
}

// BlinkVisible reports whether edit highlights are in their shown phase.
func (s *State) BlinkVisible() bool {
	if !s.blink.active {
		return true
	}
	return s.blink.phase
}

// BlinkActive reports whether the edit blink is running.
func (s *State) BlinkActive() bool { return s.blink.active }

func (s *State) post(k ledcode.Kind, v uint8) {
	if s.Events != nil {
		s.Events.Post(k, v)
	}
}

// Value returns a barrel's selection, 0 when it has no record.
func (s *State) Value(id store.ID) int16 {
	if b := s.arena.FindBarrel(id); b != nil {
		return b.Value
	}
	return 0
}

// Editing reports whether a barrel is in edit mode.
func (s *State) Editing(id store.ID) bool {
	if int(id) >= s.arena.Count() {
		return false
	}
	b := s.arena.FindBarrel(id)
	return b != nil && b.Editing()
}

// TriggerVersion returns a trigger's activation count.
func (s *State) TriggerVersion(id store.ID) (uint8, bool) {
	t := s.arena.FindTrigger(id)
	if t == nil {
		return 0, false
	}
	return t.Version, true
}

func (s *State) el(id store.ID) store.Element {
	e, _ := s.arena.Element(id)
	return e
}

func (s *State) typeOf(id store.ID) store.Type { return s.arena.TypeOf(id) }

func (s *State) parentOf(id store.ID) store.ID { return s.arena.ParentOf(id) }

func (s *State) count() int { return s.arena.Count() }
