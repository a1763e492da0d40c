package ui

import (
	"oledui/internal/ledcode"
	"oledui/internal/status"
	"oledui/internal/store"
)

// SetActiveScreen jumps to base screen ord, cancelling any slide, and
// focuses its first focusable element.
func (s *State) SetActiveScreen(ord uint8) error {
	if ord >= s.screenCount {
		return status.Range
	}
	s.activeScreen = ord
	s.scrollX = int16(ord) * ScreenWidth
	s.slide = Slide{From: ord, To: ord}
	s.FocusFirstOnScreen(ord)
	s.post(ledcode.SetActiveScreen, ord&0x07)
	return nil
}

// ScrollToScreen makes ord active and snaps the scroll to its origin.
// Ignored while a slide is running.
func (s *State) ScrollToScreen(ord uint8) error {
	if s.slide.Active {
		return nil
	}
	if ord >= s.screenCount {
		return status.Range
	}
	s.activeScreen = ord
	s.scrollX = int16(ord) * ScreenWidth
	s.post(ledcode.ScrollToScreen, ord&0x07)
	return nil
}

// ScrollToOffset makes ord active with an explicit scroll offset, clamped
// to the span of the base screens. Ignored while a slide is running.
func (s *State) ScrollToOffset(off int16, ord uint8) error {
	if s.slide.Active {
		return nil
	}
	if ord >= s.screenCount {
		return status.Range
	}
	maxOff := (int16(s.screenCount) - 1) * ScreenWidth
	s.activeScreen = ord
	s.scrollX = max(min(off, maxOff), 0)
	s.post(ledcode.ScrollToScreen, ord&0x07)
	return nil
}

// ShowOverlay displays an overlay-role screen for durMS milliseconds (at
// least 1). Focus is parked and restored when it ends.
func (s *State) ShowOverlay(id store.ID, durMS uint16, mask bool) error {
	if int(id) >= s.count() {
		return status.UnknownID
	}
	if s.typeOf(id) != store.TypeScreen || s.screenRole(id) != store.RoleOverlayFull {
		return status.BadState
	}
	durMS = max(durMS, 1)
	s.overlay = Overlay{
		Screen:      id,
		RemainingMS: durMS,
		MaskInput:   mask,
		PrevFocus:   s.focus,
	}
	s.ClearFocus()
	s.RequestRender()
	s.post(ledcode.ShowOverlay, uint8(id)&0x07)
	return nil
}

func (s *State) overlayCleared() {
	prev := s.overlay.PrevFocus
	s.overlay.PrevFocus = store.NoID
	if prev != store.NoID {
		s.SetFocus(prev)
		if s.focus != store.NoID {
			return
		}
	}
	s.FocusFirstOnScreen(s.activeScreen)
}
