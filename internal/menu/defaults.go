package menu

import "github.com/example/gobar/internal/config"

// DefaultCenter returns the baseline center-slot sections applied when no
// menu configuration exists.
func DefaultCenter() []config.MenuEntry {
	return []config.MenuEntry{
		{
			Type:       config.EntryXdg,
			Label:      "Settings",
			Icon:       "preferences-system",
			Categories: []string{"Settings", "Screensaver"},
		},
		{
			Type:       config.EntryXdg,
			Label:      "Accessories",
			Icon:       "accessories",
			Categories: []string{"Accessibility", "Core", "Legacy", "Utility"},
		},
		{
			Type:       config.EntryXdg,
			Label:      "Development",
			Icon:       "applications-development",
			Categories: []string{"Development"},
		},
		{
			Type:       config.EntryXdg,
			Label:      "Education",
			Icon:       "applications-education",
			Categories: []string{"Education"},
		},
		{
			Type:       config.EntryXdg,
			Label:      "Games",
			Icon:       "applications-games",
			Categories: []string{"Game"},
		},
		{
			Type:       config.EntryXdg,
			Label:      "Graphics",
			Icon:       "applications-graphics",
			Categories: []string{"Graphics"},
		},
		{
			Type:       config.EntryXdg,
			Label:      "Multimedia",
			Icon:       "applications-multimedia",
			Categories: []string{"Audio", "Video", "AudioVideo"},
		},
		{
			Type:       config.EntryXdg,
			Label:      "Network",
			Icon:       "applications-internet",
			Categories: []string{"Network"},
		},
		{
			Type:       config.EntryXdg,
			Label:      "Office",
			Icon:       "applications-office",
			Categories: []string{"Office"},
		},
		{
			Type:       config.EntryXdg,
			Label:      "Science",
			Icon:       "applications-science",
			Categories: []string{"Science"},
		},
		{
			Type:       config.EntryXdg,
			Label:      "System",
			Icon:       "applications-system",
			Categories: []string{"Emulator", "System"},
		},
		{Type: config.EntryXdgOther},
	}
}
