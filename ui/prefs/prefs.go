// Package prefs provides JSON-based viewer preferences.
//
// Preferences configure the viewer (window size, input poll interval, cache
// size). View state such as zoom or pan is never stored here.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const prefsFile = "preferences.json"

// Preference keys.
const (
	KeyWindowWidth       = "windowWidth"
	KeyWindowHeight      = "windowHeight"
	KeyPollIntervalMs    = "pollIntervalMs"
	KeyResampleCacheSize = "resampleCacheSize"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from <config dir>/pmb-viewer/preferences.json.
// Returns empty Prefs if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, "pmb-viewer", prefsFile))
}

// LoadFrom reads preferences from path. A missing or malformed file yields
// empty Prefs.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Path returns the file the preferences were read from.
func (p *Prefs) Path() string {
	return p.path
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// PositiveInt returns an integer preference, or fallback if it is not set
// or not a positive whole number.
func (p *Prefs) PositiveInt(key string, fallback int) int {
	v := p.FloatWithFallback(key, 0)
	if v < 1 || v != float64(int(v)) {
		return fallback
	}
	return int(v)
}

// Duration returns a preference given in milliseconds, or fallback.
func (p *Prefs) Duration(key string, fallback time.Duration) time.Duration {
	ms := p.PositiveInt(key, 0)
	if ms == 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
