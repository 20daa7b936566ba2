package inst

import "sync"

// Site records where an instantiation was demanded from.
type Site struct {
	Caller string
	Note   string
}

// Recorder captures concrete generic instantiations as a first-class
// artefact for cost-control tooling. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(decl string, argsKey string, site Site)
}

type useKey struct {
	Decl    string
	ArgsKey string
}

// UseEntry captures all use sites of one particular instantiation.
type UseEntry struct {
	Decl     string
	ArgsKey  string
	UseSites []Site
}

// UseMap is a Recorder that tracks every instantiation use site across a
// compilation unit, deduplicating identical sites.
type UseMap struct {
	mu      sync.Mutex
	entries map[useKey]*UseEntry
}

func NewUseMap() *UseMap {
	return &UseMap{entries: make(map[useKey]*UseEntry)}
}

// Record registers a use of an instantiation at a specific site.
func (m *UseMap) Record(decl string, argsKey string, site Site) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := useKey{Decl: decl, ArgsKey: argsKey}
	entry := m.entries[key]
	if entry == nil {
		entry = &UseEntry{Decl: decl, ArgsKey: argsKey}
		m.entries[key] = entry
	}

	if site == (Site{}) {
		return
	}
	for _, existing := range entry.UseSites {
		if existing == site {
			return
		}
	}
	entry.UseSites = append(entry.UseSites, site)
}

// Len returns the number of distinct instantiations seen.
func (m *UseMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// UseSites returns the recorded sites for one instantiation.
func (m *UseMap) UseSites(decl string, argsKey string) []Site {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.entries[useKey{Decl: decl, ArgsKey: argsKey}]
	if entry == nil {
		return nil
	}
	out := make([]Site, len(entry.UseSites))
	copy(out, entry.UseSites)
	return out
}
