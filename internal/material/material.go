// Package material holds friction and restitution per pair of material names.
package material

import "sync"

// Pair holds the contact properties used when two materials touch.
// Threshold is the impact speed below which restitution is not applied.
type Pair struct {
	Friction    float64 `json:"friction" yaml:"friction"`
	Restitution float64 `json:"restitution" yaml:"restitution"`
	Threshold   float64 `json:"threshold" yaml:"threshold"`
}

// DefaultPair is used for any material pair that has not been configured.
var DefaultPair = Pair{Friction: 0.8, Restitution: 0, Threshold: 0.001}

type key struct{ a, b string }

func pairKey(a, b string) key {
	if b < a {
		a, b = b, a
	}
	return key{a, b}
}

// Table maps unordered material name pairs to contact properties.
// The zero value is not usable; call NewTable.
type Table struct {
	mu    sync.RWMutex
	pairs map[key]Pair
	def   Pair
}

// NewTable returns an empty table that falls back to DefaultPair.
func NewTable() *Table {
	return &Table{pairs: make(map[key]Pair), def: DefaultPair}
}

// Set stores p for the pair (a, b). Order does not matter: Set("grass", "steel") and
// Set("steel", "grass") address the same entry.
func (t *Table) Set(a, b string, p Pair) {
	t.mu.Lock()
	t.pairs[pairKey(a, b)] = p
	t.mu.Unlock()
}

// SetDefault replaces the fallback returned for unconfigured pairs.
func (t *Table) SetDefault(p Pair) {
	t.mu.Lock()
	t.def = p
	t.mu.Unlock()
}

// Default returns the current fallback.
func (t *Table) Default() Pair {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.def
}

// Lookup returns the properties for (a, b), or the default when the pair is unknown.
func (t *Table) Lookup(a, b string) Pair {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if p, ok := t.pairs[pairKey(a, b)]; ok {
		return p
	}
	return t.def
}

// Len returns the number of configured pairs.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.pairs)
}
