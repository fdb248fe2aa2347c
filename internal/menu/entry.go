package menu

import "sort"

// Application is one discovered launchable program. Records are immutable
// value data; the discovery collaborator produces each exactly once.
type Application struct {
	Label      string
	Identifier string
	Categories []string
}

// Section is a named group of applications routed in by category
// classification. Applications are keyed by identifier and kept sorted by
// label so the rendered order is independent of arrival order.
type Section struct {
	Label string
	Icon  string

	apps []Application
}

// insert places the record at its sorted position, replacing any entry
// already present under the same identifier.
func (s *Section) insert(app Application) {
	for i := range s.apps {
		if s.apps[i].Identifier == app.Identifier {
			s.apps = append(s.apps[:i], s.apps[i+1:]...)
			break
		}
	}

	i := sort.Search(len(s.apps), func(i int) bool {
		if s.apps[i].Label != app.Label {
			return s.apps[i].Label > app.Label
		}
		return s.apps[i].Identifier >= app.Identifier
	})

	s.apps = append(s.apps, Application{})
	copy(s.apps[i+1:], s.apps[i:])
	s.apps[i] = app
}

// Applications returns the section's records in display order.
func (s *Section) Applications() []Application {
	out := make([]Application, len(s.apps))
	copy(out, s.apps)
	return out
}

// Len reports how many applications the section holds.
func (s *Section) Len() int {
	return len(s.apps)
}

// Custom is a configured leaf entry that runs a script instead of opening a
// section submenu.
type Custom struct {
	Label   string
	Icon    string
	OnClick string
}

// Entry is a single top-level menu entry: exactly one of Section or Custom
// is set.
type Entry struct {
	Section *Section
	Custom  *Custom
}

// Label returns the entry's display name.
func (e Entry) Label() string {
	if e.Section != nil {
		return e.Section.Label
	}
	return e.Custom.Label
}

// Icon returns the entry's icon name, empty when none is configured.
func (e Entry) Icon() string {
	if e.Section != nil {
		return e.Section.Icon
	}
	return e.Custom.Icon
}

// Slot holds the top-level entries of one placement region. Entry order is
// fixed at configuration-parse time and preserved thereafter.
type Slot struct {
	entries []Entry
	byLabel map[string]int
}

func newSlot() *Slot {
	return &Slot{byLabel: make(map[string]int)}
}

func (s *Slot) add(entry Entry) bool {
	label := entry.Label()
	if _, exists := s.byLabel[label]; exists {
		return false
	}
	s.byLabel[label] = len(s.entries)
	s.entries = append(s.entries, entry)
	return true
}

// section returns the section registered under label, or nil when the label
// is absent or names a custom entry.
func (s *Slot) section(label string) *Section {
	idx, ok := s.byLabel[label]
	if !ok {
		return nil
	}
	return s.entries[idx].Section
}

// Entries returns the slot's entries in configuration order.
func (s *Slot) Entries() []Entry {
	return s.entries
}
