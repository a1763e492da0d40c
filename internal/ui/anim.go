package ui

import (
	"oledui/internal/ledcode"
	"oledui/internal/store"
)

// Tick advances time-driven state to nowMS: the overlay countdown runs on
// elapsed wall-clock time, animations step at most once per FrameMS.
func (s *State) Tick(nowMS uint32) {
	s.tickOverlay(nowMS)

	if nowMS-s.lastAnimMS < FrameMS {
		return
	}
	s.lastAnimMS = nowMS

	if s.slide.Active {
		s.slide.Offset += SlideStep
		if s.slide.Offset >= ScreenWidth {
			s.slide = Slide{From: s.activeScreen, To: s.activeScreen}
			s.scrollX = int16(s.activeScreen) * ScreenWidth
			s.FocusFirstOnScreen(s.activeScreen)
			s.RequestRender()
		}
	}

	anyList := false
	s.arena.EachList(func(_ store.ID, l *store.ListState) {
		if !l.AnimActive {
			return
		}
		anyList = true
		if l.AnimPix >= PageHeight {
			return
		}
		l.AnimPix = min(l.AnimPix+ListStep, PageHeight)
		if l.AnimPix >= PageHeight {
			l.Top = l.PendingTop
			l.Cursor = l.PendingCursor
			stopListAnim(l)
		}
	})
	if anyList || s.slide.Active {
		s.RequestRender()
	}

	if !s.blink.active {
		s.blink.counter = 0
		s.blink.phase = true
		return
	}
	s.blink.counter++
	if s.blink.counter >= BlinkFrames {
		s.blink.counter = 0
		s.blink.phase = !s.blink.phase
		s.RequestRender()
	}
}

func (s *State) tickOverlay(nowMS uint32) {
	if !s.overlayClock {
		s.lastOverlay = nowMS
		s.overlayClock = true
	}
	elapsed := nowMS - s.lastOverlay
	s.lastOverlay = nowMS

	if !s.overlay.Active() || s.overlay.RemainingMS == 0 {
		return
	}
	if elapsed >= uint32(s.overlay.RemainingMS) {
		s.overlay.RemainingMS = 0
	} else {
		s.overlay.RemainingMS -= uint16(elapsed)
	}
	if s.overlay.RemainingMS != 0 {
		return
	}
	cleared := s.overlay.Screen
	s.overlay.Screen = store.NoID
	s.overlayCleared()
	s.RequestRender()
	s.post(ledcode.OverlayClear, uint8(cleared)&0x07)
}
