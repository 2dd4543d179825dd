package palette

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/1broseidon/winhide/internal/config"
	"github.com/1broseidon/winhide/internal/dispatch"
	"github.com/1broseidon/winhide/internal/enumerator"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/1broseidon/winhide/internal/visibility"
)

const (
	actionHide    = "hide"
	actionRestore = "restore"
	windowPrefix  = "window:"
)

// Client is the part of the daemon API the picker uses.
type Client interface {
	GetConfig() (*config.Config, error)
	GetWindows() ([]enumerator.WindowHandle, error)
	SaveSettings(s config.Settings) (*dispatch.SaveResult, error)
	HideNow(ids []platform.WindowID) (*visibility.HideResult, error)
	ShowNow() (*visibility.RestoreResult, error)
}

// Picker lets the user toggle the hide selection and trigger hide or
// restore from a launcher menu.
type Picker struct {
	backend Backend
	client  Client
}

func NewPicker(backend Backend, client Client) *Picker {
	return &Picker{backend: backend, client: client}
}

// Run shows the menu until the user cancels or picks hide/restore. Picking
// a window toggles it in the saved selection and shows the menu again.
// The returned string summarises what was done.
func (p *Picker) Run() (string, error) {
	toggled := 0
	for {
		cfg, err := p.client.GetConfig()
		if err != nil {
			return "", err
		}
		windows, err := p.client.GetWindows()
		if err != nil {
			return "", err
		}

		item, err := p.backend.Show("winhide", buildItems(cfg, windows), menuMessage(cfg))
		if errors.Is(err, ErrCancelled) {
			if toggled > 0 {
				return fmt.Sprintf("Selection updated (%d change(s))", toggled), nil
			}
			return "", nil
		}
		if err != nil {
			return "", err
		}

		switch {
		case item.Action == actionHide:
			res, err := p.client.HideNow(nil)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Hidden: %d", len(res.Hidden)), nil

		case item.Action == actionRestore:
			res, err := p.client.ShowNow()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Restored: %d", len(res.Restored)), nil

		case strings.HasPrefix(item.Action, windowPrefix):
			id, err := parseWindowAction(item.Action)
			if err != nil {
				return "", err
			}
			ids := toggleID(cfg.SelectedWindowIDs, id)
			if _, err := p.client.SaveSettings(config.Settings{SelectedWindowIDs: ids}); err != nil {
				return "", err
			}
			toggled++

		default:
			return "", fmt.Errorf("palette: unexpected action %q", item.Action)
		}
	}
}

func buildItems(cfg *config.Config, windows []enumerator.WindowHandle) []Item {
	selected := make(map[platform.WindowID]bool, len(cfg.SelectedWindowIDs))
	for _, id := range cfg.SelectedWindowIDs {
		selected[id] = true
	}

	items := []Item{
		{Label: "Hide selected windows", Action: actionHide, Icon: "view-conceal", Meta: "hide"},
		{Label: "Restore hidden windows", Action: actionRestore, Icon: "view-reveal", Meta: "show restore"},
		{Label: "Windows", IsHeader: true},
	}
	if len(windows) == 0 {
		items = append(items, Item{Label: "(no windows)", IsDivider: true})
	}
	for _, w := range windows {
		mark := "[ ]"
		if selected[w.ID] {
			mark = "[x]"
		}
		title := w.Title
		if title == "" {
			title = filepath.Base(w.Path)
		}
		items = append(items, Item{
			Label:    mark + " " + title,
			Action:   windowPrefix + strconv.FormatUint(uint64(w.ID), 10),
			Icon:     iconName(w.Path),
			Meta:     w.Path,
			IsActive: selected[w.ID],
		})
	}
	return items
}

func menuMessage(cfg *config.Config) string {
	return fmt.Sprintf("%d selected | hide %s | show %s",
		len(cfg.SelectedWindowIDs), orNone(cfg.HideHotkey), orNone(cfg.ShowHotkey))
}

// iconName guesses an icon theme name from the executable.
func iconName(path string) string {
	if path == "" {
		return ""
	}
	name := strings.ToLower(filepath.Base(path))
	return strings.TrimSuffix(name, ".exe")
}

func parseWindowAction(action string) (platform.WindowID, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(action, windowPrefix), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("palette: bad window action %q", action)
	}
	return platform.WindowID(n), nil
}

// toggleID returns a new slice with id removed if present, appended if not.
// The result is never nil so an empty selection is saved as a clear.
func toggleID(ids []platform.WindowID, id platform.WindowID) []platform.WindowID {
	out := make([]platform.WindowID, 0, len(ids)+1)
	found := false
	for _, existing := range ids {
		if existing == id {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
