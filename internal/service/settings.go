package service

import (
	"sync"
	"time"

	"github.com/lunaryss/tarot-ai/internal/config"
)

// Settings holds the runtime-adjustable knobs exposed through the
// settings endpoint. Everything else in config.Config requires a
// restart; these can change while the server runs and take effect on
// the next operation that reads them.
type Settings struct {
	mu sync.RWMutex

	defaultProvider       string
	defaultModel          string
	autoShuffle           bool
	shuffleDelay          time.Duration
	saveHistory           bool
	autoDeleteOldSessions bool
	sessionRetentionDays  int
}

// NewSettings seeds the runtime settings from loaded configuration.
func NewSettings(cfg *config.Config) *Settings {
	return &Settings{
		defaultProvider:       cfg.LLM.DefaultProvider,
		autoShuffle:           cfg.Game.AutoShuffle,
		shuffleDelay:          cfg.Game.ShuffleDelay,
		saveHistory:           cfg.History.SaveHistory,
		autoDeleteOldSessions: cfg.History.AutoDeleteOldSessions,
		sessionRetentionDays:  cfg.History.SessionRetentionDays,
	}
}

func (s *Settings) DefaultProvider() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultProvider
}

func (s *Settings) DefaultModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultModel
}

func (s *Settings) AutoShuffle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoShuffle
}

func (s *Settings) ShuffleDelay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuffleDelay
}

func (s *Settings) SaveHistory() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveHistory
}

func (s *Settings) AutoDeleteOldSessions() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoDeleteOldSessions
}

func (s *Settings) SessionRetentionDays() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionRetentionDays
}

// SettingsView is the wire representation of the runtime settings.
type SettingsView struct {
	DefaultProvider       string `json:"default_provider"`
	DefaultModel          string `json:"default_model,omitempty"`
	AutoShuffle           bool   `json:"auto_shuffle"`
	ShuffleDelayMs        int64  `json:"shuffle_delay_ms"`
	SaveHistory           bool   `json:"save_history"`
	AutoDeleteOldSessions bool   `json:"auto_delete_old_sessions"`
	SessionRetentionDays  int    `json:"session_retention_days"`
}

// View returns a copy of the current settings.
func (s *Settings) View() SettingsView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SettingsView{
		DefaultProvider:       s.defaultProvider,
		DefaultModel:          s.defaultModel,
		AutoShuffle:           s.autoShuffle,
		ShuffleDelayMs:        s.shuffleDelay.Milliseconds(),
		SaveHistory:           s.saveHistory,
		AutoDeleteOldSessions: s.autoDeleteOldSessions,
		SessionRetentionDays:  s.sessionRetentionDays,
	}
}

// SettingsUpdate carries a partial settings change; nil fields are left
// untouched.
type SettingsUpdate struct {
	DefaultProvider       *string `json:"default_provider,omitempty"`
	DefaultModel          *string `json:"default_model,omitempty"`
	AutoShuffle           *bool   `json:"auto_shuffle,omitempty"`
	ShuffleDelayMs        *int64  `json:"shuffle_delay_ms,omitempty"`
	SaveHistory           *bool   `json:"save_history,omitempty"`
	AutoDeleteOldSessions *bool   `json:"auto_delete_old_sessions,omitempty"`
	SessionRetentionDays  *int    `json:"session_retention_days,omitempty" validate:"omitempty,min=1,max=3650"`
}

// Apply merges an update into the settings and returns the result.
func (s *Settings) Apply(u SettingsUpdate) SettingsView {
	s.mu.Lock()
	if u.DefaultProvider != nil {
		s.defaultProvider = *u.DefaultProvider
	}
	if u.DefaultModel != nil {
		s.defaultModel = *u.DefaultModel
	}
	if u.AutoShuffle != nil {
		s.autoShuffle = *u.AutoShuffle
	}
	if u.ShuffleDelayMs != nil {
		s.shuffleDelay = time.Duration(*u.ShuffleDelayMs) * time.Millisecond
	}
	if u.SaveHistory != nil {
		s.saveHistory = *u.SaveHistory
	}
	if u.AutoDeleteOldSessions != nil {
		s.autoDeleteOldSessions = *u.AutoDeleteOldSessions
	}
	if u.SessionRetentionDays != nil {
		s.sessionRetentionDays = *u.SessionRetentionDays
	}
	s.mu.Unlock()
	return s.View()
}
