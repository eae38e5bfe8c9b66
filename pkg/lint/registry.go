package lint

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Registry holds lint rules in registration order. Rules are looked up by
// ID, by kebab-case name, or by a registered alias such as the clippy lint
// name.
type Registry struct {
	mu      sync.RWMutex
	rules   []Rule
	pos     map[string]int    // rule ID -> index into rules
	names   map[string]string // rule name -> rule ID
	aliases map[string]string // alias -> rule ID
}

func NewRegistry() *Registry {
	return &Registry{
		pos:     make(map[string]int),
		names:   make(map[string]string),
		aliases: make(map[string]string),
	}
}

// Register adds rule. A rule whose ID is already present replaces the old
// one at the same position, and the old name stops resolving.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := rule.ID()
	if i, ok := r.pos[id]; ok {
		delete(r.names, r.rules[i].Name())
		r.rules[i] = rule
	} else {
		r.pos[id] = len(r.rules)
		r.rules = append(r.rules, rule)
	}
	r.names[rule.Name()] = id
}

// RegisterAlias makes alias resolve to ruleID, e.g. "filter_next" to "IL009".
func (r *Registry) RegisterAlias(alias, ruleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = ruleID
}

func (r *Registry) byID(id string) (Rule, bool) {
	i, ok := r.pos[id]
	if !ok {
		return nil, false
	}
	return r.rules[i], true
}

// Get finds a rule by ID or name.
func (r *Registry) Get(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byID(key); ok {
		return rule, true
	}
	return r.byID(r.names[key])
}

func (r *Registry) GetByID(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID(id)
}

// Resolve finds a rule by ID, name or alias, with or without a "clippy::"
// prefix, and returns its canonical ID.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range []string{key, strings.TrimPrefix(key, "clippy::")} {
		for _, id := range []string{k, r.names[k], r.aliases[k]} {
			if rule, ok := r.byID(id); ok {
				return id, rule, true
			}
		}
	}
	return "", nil, false
}

// Rules returns a copy of the rules in registration order.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.rules)
}

// IDs returns the registered rule IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.pos))
}

// Aliases lists the aliases that point at id, sorted.
func (r *Registry) Aliases(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for alias, target := range r.aliases {
		if target == id {
			out = append(out, alias)
		}
	}
	slices.Sort(out)
	return out
}

// InGroup returns the rules of group in registration order.
func (r *Registry) InGroup(group string) []Rule {
	return slices.DeleteFunc(r.Rules(), func(rule Rule) bool {
		return rule.Group() != group
	})
}

// DefaultRegistry holds the built-in rules, which register themselves from
// init functions.
//
//nolint:gochecknoglobals // rules register into it from init
var DefaultRegistry = NewRegistry()
