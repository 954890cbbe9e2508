// Package prefs persists viewer settings and the last benchmark result
// across runs using the platform's per-user data directory.
package prefs

import (
	"fmt"
	"log"
	"slices"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/tinsel"
	"github.com/phanxgames/tinsel/bench"
)

// AppName is the gdata application name used by Open.
const AppName = "tinsel"

// Storage layout.
const (
	settingsObject = "settings"
	settingsProp   = "tree"
	perfProp       = "perf"
	benchObject    = "benchmark"
	benchProp      = "last"
)

// backend is the subset of *gdata.Manager the store needs.
type backend interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

// memory keeps data for the life of the process when no data directory is
// available.
type memory map[string][]byte

func (m memory) ObjectPropExists(o, p string) bool {
	_, ok := m[o+"/"+p]
	return ok
}

func (m memory) LoadObjectProp(o, p string) ([]byte, error) {
	data, ok := m[o+"/"+p]
	if !ok {
		return nil, fmt.Errorf("%s/%s: not found", o, p)
	}
	return data, nil
}

func (m memory) SaveObjectProp(o, p string, data []byte) error {
	m[o+"/"+p] = slices.Clone(data)
	return nil
}

// Store loads and saves preferences. The zero value is not usable; use
// Open or NewStore.
type Store struct {
	data       backend
	persistent bool
}

// Open opens the per-user store for appName.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("prefs: open %q: %w", appName, err)
	}
	return NewStore(m), nil
}

// NewStore wraps a gdata manager. A nil manager gives an in-memory store
// that forgets everything on exit.
func NewStore(m *gdata.Manager) *Store {
	if m == nil {
		return &Store{data: memory{}}
	}
	return &Store{data: m, persistent: true}
}

// Persistent reports whether saved data outlives the process.
func (s *Store) Persistent() bool {
	return s.persistent
}

// --- Settings ---

// knownKeys are the top-level keys of a serialized Settings.
var knownKeys = func() map[string]bool {
	data, err := yaml.Marshal(tinsel.DefaultSettings())
	if err != nil {
		panic(err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		panic(err)
	}
	keys := make(map[string]bool, len(raw))
	for k := range raw {
		keys[k] = true
	}
	return keys
}()

// LoadSettings returns base with the saved settings merged in. A missing
// blob returns base unchanged. Saved blobs that still carry retired keys
// are rewritten without them.
func (s *Store) LoadSettings(base tinsel.Settings) (tinsel.Settings, error) {
	if !s.data.ObjectPropExists(settingsObject, settingsProp) {
		return base, nil
	}
	data, err := s.data.LoadObjectProp(settingsObject, settingsProp)
	if err != nil {
		return base, fmt.Errorf("prefs: load settings: %w", err)
	}
	p, err := tinsel.ParsePatch(data)
	if err != nil {
		return base, fmt.Errorf("prefs: load settings: %w", err)
	}
	st := p.Apply(base)

	if stale := staleKeys(data); len(stale) > 0 {
		log.Printf("[prefs] dropping retired settings keys %v", stale)
		if err := s.SaveSettings(st); err != nil {
			log.Printf("[prefs] rewrite settings: %v", err)
		}
	}
	return st, nil
}

// staleKeys lists the top-level keys of a settings blob that Settings no
// longer has, in sorted order.
func staleKeys(data []byte) []string {
	var raw map[string]any
	if yaml.Unmarshal(data, &raw) != nil {
		return nil
	}
	var out []string
	for k := range raw {
		if !knownKeys[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// SaveSettings writes st.
func (s *Store) SaveSettings(st tinsel.Settings) error {
	data, err := yaml.Marshal(st.Sanitize())
	if err != nil {
		return fmt.Errorf("prefs: marshal settings: %w", err)
	}
	if err := s.data.SaveObjectProp(settingsObject, settingsProp, data); err != nil {
		return fmt.Errorf("prefs: save settings: %w", err)
	}
	return nil
}

// --- Per-mode perf ---

// ModePerf returns the perf flag last saved for mode. ok is false when none
// was saved.
func (s *Store) ModePerf(mode tinsel.Mode) (perf, ok bool) {
	flags := s.perfFlags()
	perf, ok = flags[mode]
	return perf, ok
}

// SaveModePerf remembers the perf flag for mode.
func (s *Store) SaveModePerf(mode tinsel.Mode, perf bool) error {
	flags := s.perfFlags()
	flags[mode] = perf
	data, err := yaml.Marshal(flags)
	if err != nil {
		return fmt.Errorf("prefs: marshal perf flags: %w", err)
	}
	if err := s.data.SaveObjectProp(settingsObject, perfProp, data); err != nil {
		return fmt.Errorf("prefs: save perf flags: %w", err)
	}
	return nil
}

func (s *Store) perfFlags() map[tinsel.Mode]bool {
	flags := map[tinsel.Mode]bool{}
	if !s.data.ObjectPropExists(settingsObject, perfProp) {
		return flags
	}
	data, err := s.data.LoadObjectProp(settingsObject, perfProp)
	if err != nil {
		log.Printf("[prefs] load perf flags: %v", err)
		return flags
	}
	if err := yaml.Unmarshal(data, &flags); err != nil {
		log.Printf("[prefs] decode perf flags: %v", err)
		return map[tinsel.Mode]bool{}
	}
	return flags
}

// --- Benchmark ---

// LastBench returns the last saved benchmark result. ok is false when none
// was saved.
func (s *Store) LastBench() (r bench.Result, ok bool, err error) {
	if !s.data.ObjectPropExists(benchObject, benchProp) {
		return bench.Result{}, false, nil
	}
	data, err := s.data.LoadObjectProp(benchObject, benchProp)
	if err != nil {
		return bench.Result{}, false, fmt.Errorf("prefs: load benchmark: %w", err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return bench.Result{}, false, fmt.Errorf("prefs: decode benchmark: %w", err)
	}
	return r, true, nil
}

// SaveBench stores r as the last benchmark result.
func (s *Store) SaveBench(r bench.Result) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("prefs: marshal benchmark: %w", err)
	}
	if err := s.data.SaveObjectProp(benchObject, benchProp, data); err != nil {
		return fmt.Errorf("prefs: save benchmark: %w", err)
	}
	return nil
}
