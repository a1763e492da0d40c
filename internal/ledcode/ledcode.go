// Package ledcode reports device events on the status LED.
//
// Each event blinks as a burst of Kind pulses, a short gap, then value+1
// pulses when a value is attached. Events queue up and play back one at a
// time from the main loop.
package ledcode

// Kind identifies an event. It doubles as the first pulse count.
type Kind uint8

const (
	JSONCommit Kind = 1 + iota
	SetActiveScreen
	ScrollToScreen
	ShowOverlay
	OverlayClear
	RenderScreen
	RenderStart
	RenderStage
	RenderDone
)

// NoValue posts an event without the second pulse burst.
const NoValue uint8 = 0xFF

const (
	maxKind  = 15
	maxValue = 7

	queueSize = 8

	pulseSpacingMS = 20
	stageGapMS     = 40
	eventGapMS     = 80
)

// Sink accepts events.
type Sink interface {
	Post(k Kind, value uint8)
}

// LED is the output pin.
type LED interface {
	Set(on bool)
}

type entry struct {
	kind  uint8
	value uint8
}

// Blinker plays queued events on an LED. It is not safe for concurrent use.
type Blinker struct {
	led LED
	on  bool

	queue      [queueSize]entry
	head, tail int

	active      bool
	valueStage  bool
	pulses      int
	valuePulses int
	nextToggle  uint32
	idleUntil   uint32
}

func New(led LED) *Blinker {
	return &Blinker{led: led}
}

// Set drives the LED directly.
func (b *Blinker) Set(on bool) {
	b.on = on
	if b.led != nil {
		b.led.Set(on)
	}
}

// Toggle flips the LED.
func (b *Blinker) Toggle() { b.Set(!b.on) }

// On reports the last level written.
func (b *Blinker) On() bool { return b.on }

// Post queues an event. Kinds are clamped to 1..15 and values above 7 are
// dropped from the code. A full queue drops the event.
func (b *Blinker) Post(k Kind, value uint8) {
	kind := uint8(k)
	if kind == 0 {
		kind = 1
	}
	if kind > maxKind {
		kind = maxKind
	}
	if value > maxValue {
		value = NoValue
	}
	next := (b.head + 1) % queueSize
	if next == b.tail {
		return
	}
	b.queue[b.head] = entry{kind: kind, value: value}
	b.head = next
}

// Pending is the number of queued events not yet started.
func (b *Blinker) Pending() int {
	return (b.head - b.tail + queueSize) % queueSize
}

// Busy reports whether an event is playing.
func (b *Blinker) Busy() bool { return b.active }

// Process advances playback; call it once per loop iteration.
func (b *Blinker) Process(nowMS uint32) {
	if !b.active {
		if nowMS < b.idleUntil || b.head == b.tail {
			return
		}
		ev := b.queue[b.tail]
		b.tail = (b.tail + 1) % queueSize
		b.active = true
		b.valueStage = false
		b.pulses = int(ev.kind)
		b.valuePulses = 0
		if ev.value <= maxValue {
			b.valuePulses = int(ev.value) + 1
		}
		b.nextToggle = nowMS
		b.Set(true)
		return
	}
	if nowMS < b.nextToggle || b.pulses == 0 {
		return
	}
	b.Toggle()
	b.pulses--
	b.nextToggle = nowMS + pulseSpacingMS
	if b.pulses > 0 {
		return
	}
	b.Set(false)
	if !b.valueStage && b.valuePulses > 0 {
		b.valueStage = true
		b.pulses = b.valuePulses
		b.valuePulses = 0
		b.nextToggle = nowMS + stageGapMS
		return
	}
	b.active = false
	b.valueStage = false
	b.idleUntil = nowMS + eventGapMS
}
