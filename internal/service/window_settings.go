package service

import (
	"fmt"
	"strconv"

	"scrapbook/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Window Size Persistence
// ─────────────────────────────────────────────────────────────
//
// Saves and restores the main Wails window size between sessions, as two
// rows of the library's settings store. The window width also drives the
// canvas viewport class on startup.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowSettingsService persists window size between sessions.
type WindowSettingsService struct {
	settings domain.SettingsStore
}

func NewWindowSettingsService(settings domain.SettingsStore) *WindowSettingsService {
	return &WindowSettingsService{settings: settings}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	defaultWindowWidth  = 1280
	defaultWindowHeight = 800
	minWindowWidth      = 360
	minWindowHeight     = 480
)

// LoadWindowSize returns the saved window dimensions, or defaults when none
// are stored or they are too small to be usable.
func (s *WindowSettingsService) LoadWindowSize() WindowSize {
	size := WindowSize{Width: defaultWindowWidth, Height: defaultWindowHeight}
	if s.settings == nil {
		return size
	}
	if w, ok := s.intSetting(settingWindowWidth); ok && w >= minWindowWidth {
		size.Width = w
	}
	if h, ok := s.intSetting(settingWindowHeight); ok && h >= minWindowHeight {
		size.Height = h
	}
	return size
}

// SaveWindowSize persists the current window dimensions.
func (s *WindowSettingsService) SaveWindowSize(width, height int) error {
	if s.settings == nil {
		return fmt.Errorf("window settings: no settings store")
	}
	if err := s.settings.SetSetting(settingWindowWidth, strconv.Itoa(width)); err != nil {
		return err
	}
	return s.settings.SetSetting(settingWindowHeight, strconv.Itoa(height))
}

func (s *WindowSettingsService) intSetting(key string) (int, bool) {
	v, ok, err := s.settings.GetSetting(key)
	if err != nil || !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
