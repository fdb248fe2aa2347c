// Package xdg discovers launchable applications from freedesktop .desktop
// entries. It is the discovery collaborator for the menu module: one finite
// batch per request, individually bad files dropped, never retried here.
package xdg

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rivo/uniseg"
	"gopkg.in/ini.v1"

	"github.com/example/gobar/internal/logging"
	"github.com/example/gobar/internal/menu"
)

const (
	desktopSection   = "Desktop Entry"
	desktopSuffix    = ".desktop"
	fallbackCategory = "Misc"
	ellipsisMark     = "…"
	applicationsDir  = "applications"
)

// Discoverer scans the XDG data directories for application entries.
type Discoverer struct {
	maxLabelLength int
}

// NewDiscoverer constructs a Discoverer truncating labels to the given
// grapheme-cluster budget.
func NewDiscoverer(maxLabelLength int) *Discoverer {
	return &Discoverer{maxLabelLength: maxLabelLength}
}

// Discover walks the application directories and parses every desktop file
// found. Entries that are not applications, are marked NoDisplay or carry no
// name are filtered out. When the same identifier appears in several
// directories the earliest directory wins, matching XDG precedence.
func (d *Discoverer) Discover(ctx context.Context) ([]menu.Application, error) {
	var apps []menu.Application
	seen := make(map[string]struct{})

	for _, dir := range dataDirs() {
		if err := ctx.Err(); err != nil {
			return apps, err
		}

		err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subtree; skip it, keep the batch.
				return fs.SkipDir
			}
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), desktopSuffix) {
				return nil
			}

			identifier := strings.TrimSuffix(entry.Name(), desktopSuffix)
			if _, dup := seen[identifier]; dup {
				return nil
			}

			app, ok := d.parseFile(path, identifier)
			if !ok {
				return nil
			}

			seen[identifier] = struct{}{}
			apps = append(apps, app)
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			logging.Debugf("skipping application directory %s: %v", dir, err)
		}
	}

	logging.Debugf("discovered %d desktop applications", len(apps))
	return apps, nil
}

func (d *Discoverer) parseFile(path, identifier string) (menu.Application, bool) {
	// Desktop-entry lists are ";"-separated; ini.v1 must not treat ";" as
	// an inline comment or the value is truncated at the first separator.
	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		logging.Debugf("dropping unparseable desktop file %s: %v", path, err)
		return menu.Application{}, false
	}

	section, err := file.GetSection(desktopSection)
	if err != nil {
		return menu.Application{}, false
	}

	if section.Key("Type").String() != "Application" {
		return menu.Application{}, false
	}
	// Some desktop files exist only to associate mimetypes.
	if section.Key("NoDisplay").String() == "true" {
		return menu.Application{}, false
	}

	name := section.Key("Name").String()
	if name == "" {
		return menu.Application{}, false
	}

	rawCategories := section.Key("Categories").String()
	if rawCategories == "" {
		rawCategories = fallbackCategory
	}
	var categories []string
	for _, category := range strings.Split(strings.TrimSuffix(rawCategories, ";"), ";") {
		if category != "" {
			categories = append(categories, category)
		}
	}

	return menu.Application{
		Label:      Truncate(name, d.maxLabelLength),
		Identifier: identifier,
		Categories: categories,
	}, true
}

// Truncate shortens a label exceeding the grapheme-cluster budget to the
// first max-1 clusters plus an ellipsis marker. Labels within budget are
// returned unchanged.
func Truncate(label string, max int) string {
	if max <= 0 || uniseg.GraphemeClusterCount(label) <= max {
		return label
	}

	var b strings.Builder
	graphemes := uniseg.NewGraphemes(label)
	for i := 0; i < max-1 && graphemes.Next(); i++ {
		b.WriteString(graphemes.Str())
	}
	b.WriteString(ellipsisMark)
	return b.String()
}

func dataDirs() []string {
	var dirs []string

	home := os.Getenv("XDG_DATA_HOME")
	if home == "" {
		if userHome, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(userHome, ".local", "share")
		}
	}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, applicationsDir))
	}

	system := os.Getenv("XDG_DATA_DIRS")
	if system == "" {
		system = "/usr/local/share:/usr/share"
	}
	for _, dir := range strings.Split(system, ":") {
		if dir != "" {
			dirs = append(dirs, filepath.Join(dir, applicationsDir))
		}
	}

	return dirs
}
