package config

import (
	"encoding/json"
	"strings"

	"github.com/1broseidon/winhide/internal/platform"
)

// Settings is a partial config update. Empty hotkeys and nil lists keep the
// current value; an empty non-nil list clears it.
type Settings struct {
	HideHotkey        string              `json:"hideHotkey,omitempty"`
	ShowHotkey        string              `json:"showHotkey,omitempty"`
	SelectedWindowIDs []platform.WindowID `json:"selectedWindowIds"`
	ExcludedPaths     []string            `json:"excludedPaths"`
}

// UnmarshalJSON decodes each field independently. A field with the wrong
// JSON type is treated as absent. "excludePatterns" is accepted as an alias
// for "excludedPaths".
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Settings{}
	decodeField(raw["hideHotkey"], &s.HideHotkey)
	decodeField(raw["showHotkey"], &s.ShowHotkey)
	decodeField(raw["selectedWindowIds"], &s.SelectedWindowIDs)
	if !decodeField(raw["excludedPaths"], &s.ExcludedPaths) {
		decodeField(raw["excludePatterns"], &s.ExcludedPaths)
	}
	return nil
}

func decodeField[T any](msg json.RawMessage, dst *T) bool {
	if len(msg) == 0 {
		return false
	}
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		return false
	}
	*dst = v
	return true
}

// Apply returns a copy of c with s merged in.
func (c *Config) Apply(s Settings) *Config {
	next := c.Clone()
	if h := strings.TrimSpace(s.HideHotkey); h != "" {
		next.HideHotkey = h
	}
	if h := strings.TrimSpace(s.ShowHotkey); h != "" {
		next.ShowHotkey = h
	}
	if s.SelectedWindowIDs != nil {
		next.SelectedWindowIDs = platform.UniqueIDs(s.SelectedWindowIDs)
	}
	if s.ExcludedPaths != nil {
		next.ExcludedPaths = append([]string{}, s.ExcludedPaths...)
	}
	return next
}
