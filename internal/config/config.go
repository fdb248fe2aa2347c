package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/gobar/internal/script"
)

const (
	configDirName  = "gobar"
	configFileName = "config.json"

	// DefaultMaxLabelLength is the grapheme-cluster budget applied to
	// discovered application labels when the menu does not set one.
	DefaultMaxLabelLength = 25

	// OtherLabel is the reserved label of the catch-all overflow section.
	OtherLabel = "Other"
)

// EntryType discriminates the declarative top-level menu entries.
type EntryType string

const (
	EntryXdg      EntryType = "xdg_entry"
	EntryXdgOther EntryType = "xdg_other"
	EntryCustom   EntryType = "custom"
)

// MenuEntry is one declared top-level entry within a slot.
type MenuEntry struct {
	Type       EntryType `json:"type"`
	Label      string    `json:"label,omitempty"`
	Icon       string    `json:"icon,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	OnClick    string    `json:"on_click,omitempty"`
}

// Common holds the reactive options every module accepts: conditional
// visibility, input-event scripts and the tooltip template.
type Common struct {
	ShowIf string `json:"show_if,omitempty"`

	OnClickLeft   string `json:"on_click_left,omitempty"`
	OnClickMiddle string `json:"on_click_middle,omitempty"`
	OnClickRight  string `json:"on_click_right,omitempty"`
	OnScrollUp    string `json:"on_scroll_up,omitempty"`
	OnScrollDown  string `json:"on_scroll_down,omitempty"`
	OnMouseEnter  string `json:"on_mouse_enter,omitempty"`
	OnMouseExit   string `json:"on_mouse_exit,omitempty"`

	Tooltip string `json:"tooltip,omitempty"`
}

// Menu configures the application-launcher menu module.
type Menu struct {
	Start  []MenuEntry `json:"start,omitempty"`
	Center []MenuEntry `json:"center,omitempty"`
	End    []MenuEntry `json:"end,omitempty"`

	// Layout hints, passed through to the renderer uninterpreted.
	Height int `json:"height,omitempty"`
	Width  int `json:"width,omitempty"`

	MaxLabelLength int `json:"max_label_length,omitempty"`

	// Popup trigger button.
	Label     string `json:"label,omitempty"`
	LabelIcon string `json:"label_icon,omitempty"`

	Common
}

// MaxLength returns the configured label budget, falling back to the default.
func (m *Menu) MaxLength() int {
	if m.MaxLabelLength > 0 {
		return m.MaxLabelLength
	}
	return DefaultMaxLabelLength
}

// Config represents the persisted configuration file.
type Config struct {
	Menu Menu `json:"menu"`
}

// Path returns the resolved configuration file path.
func Path() (string, error) {
	if custom := os.Getenv("GOBAR_CONFIG_PATH"); custom != "" {
		if err := os.MkdirAll(filepath.Dir(custom), 0o700); err != nil {
			return "", fmt.Errorf("ensure custom config directory: %w", err)
		}
		return custom, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine user config dir: %w", err)
	}

	dir := filepath.Join(base, configDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("ensure config directory: %w", err)
	}

	return filepath.Join(dir, configFileName), nil
}

// Load retrieves the configuration, decrypting it when a key is provided.
// A missing file yields an empty configuration.
func Load(key string) (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	data := raw
	if key != "" {
		data, err = decrypt(raw, key)
		if err != nil {
			return nil, fmt.Errorf("decrypt config: %w", err)
		}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save persists the configuration, encrypting it when a key is provided.
func Save(cfg *Config, key string) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	data := raw
	if key != "" {
		data, err = encrypt(raw, key)
		if err != nil {
			return fmt.Errorf("encrypt config: %w", err)
		}
	}

	path, err := Path()
	if err != nil {
		return err
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return os.Rename(tempFile, path)
}

// Validate checks the declarative surface for hard configuration errors:
// unknown entry types, incomplete entries, duplicate section labels within a
// slot and unparseable scripts. Classification misses at runtime are not
// errors; malformed configuration is.
func (c *Config) Validate() error {
	slots := []struct {
		name    string
		entries []MenuEntry
	}{
		{"start", c.Menu.Start},
		{"center", c.Menu.Center},
		{"end", c.Menu.End},
	}

	for _, slot := range slots {
		seen := make(map[string]struct{}, len(slot.entries))
		for _, entry := range slot.entries {
			label := entry.Label
			switch entry.Type {
			case EntryXdg:
				if entry.Label == "" {
					return fmt.Errorf("slot %s: xdg_entry requires a label", slot.name)
				}
				if len(entry.Categories) == 0 {
					return fmt.Errorf("slot %s: xdg_entry %q requires categories", slot.name, entry.Label)
				}
			case EntryXdgOther:
				label = OtherLabel
			case EntryCustom:
				if entry.Label == "" {
					return fmt.Errorf("slot %s: custom entry requires a label", slot.name)
				}
				if entry.OnClick == "" {
					return fmt.Errorf("slot %s: custom entry %q requires on_click", slot.name, entry.Label)
				}
				if _, err := script.Parse(entry.OnClick); err != nil {
					return fmt.Errorf("slot %s: custom entry %q: %w", slot.name, entry.Label, err)
				}
			default:
				return fmt.Errorf("slot %s: unknown entry type %q", slot.name, entry.Type)
			}

			if _, dup := seen[label]; dup {
				return fmt.Errorf("slot %s: duplicate section label %q", slot.name, label)
			}
			seen[label] = struct{}{}
		}
	}

	return c.Menu.Common.validate()
}

func (cc *Common) validate() error {
	named := []struct {
		name  string
		value string
	}{
		{"show_if", cc.ShowIf},
		{"on_click_left", cc.OnClickLeft},
		{"on_click_middle", cc.OnClickMiddle},
		{"on_click_right", cc.OnClickRight},
		{"on_scroll_up", cc.OnScrollUp},
		{"on_scroll_down", cc.OnScrollDown},
		{"on_mouse_enter", cc.OnMouseEnter},
		{"on_mouse_exit", cc.OnMouseExit},
	}

	for _, opt := range named {
		if opt.value == "" {
			continue
		}
		if _, err := script.Parse(opt.value); err != nil {
			return fmt.Errorf("option %s: %w", opt.name, err)
		}
	}

	if cc.Tooltip != "" {
		if _, err := script.NewTemplate(cc.Tooltip); err != nil {
			return fmt.Errorf("option tooltip: %w", err)
		}
	}

	return nil
}
