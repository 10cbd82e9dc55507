package roi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registry   = make(map[string]TemplateDefinition)
	registryMu sync.RWMutex
)

// Register adds a template definition to the registry.
// Panics on duplicate IDs or on a definition whose column order and
// column mapping disagree: templates are deploy-time configuration and
// an inconsistent one is a programming error.
func Register(def TemplateDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	id := def.Info.ID
	if _, exists := registry[id]; exists {
		panic(fmt.Sprintf("template already registered: %s", id))
	}
	if len(def.Columns) != len(def.Mapping) {
		panic(fmt.Sprintf("template %s: %d columns but %d mappings", id, len(def.Columns), len(def.Mapping)))
	}
	for _, code := range def.Columns {
		m, ok := def.Mapping[code]
		if !ok {
			panic(fmt.Sprintf("template %s: column %s has no mapping", id, code))
		}
		if m.Computed() && m.Compute == nil {
			panic(fmt.Sprintf("template %s: computed column %s has no compute func", id, code))
		}
		if !m.Computed() && m.Table != "" && m.Table != def.Info.Table && !hasJoin(def.Joins, m.Table) {
			panic(fmt.Sprintf("template %s: column %s maps to unjoined table %s", id, code, m.Table))
		}
	}

	registry[id] = def
}

func hasJoin(joins []Join, table string) bool {
	for _, j := range joins {
		if j.Table == table {
			return true
		}
	}
	return false
}

// Get returns a template definition by its external ID.
func Get(id string) (TemplateDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[id]
	return def, ok
}

// All returns all registered templates sorted by ID.
func All() []TemplateDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TemplateDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.ID < result[j].Info.ID
	})
	return result
}

// Count returns the number of registered templates.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// ColumnOrder returns the declared column order for a template.
func ColumnOrder(id string) ([]string, error) {
	def, ok := Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	out := make([]string, len(def.Columns))
	copy(out, def.Columns)
	return out, nil
}

// Clear removes all registered templates. Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]TemplateDefinition)
}

// NormalizeTemplateID converts the URL-safe underscore-segmented form
// of a template ID into the external dot form, e.g. "b_02_02" into
// "B_02.02". Only the LAST underscore becomes a dot: earlier segments
// of the external code legitimately contain underscores ("B_99.01" is
// "b_99_01" in URL form). IDs already carrying a dot pass through
// unchanged apart from case folding.
func NormalizeTemplateID(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, ".") {
		if i := strings.LastIndex(s, "_"); i >= 0 {
			s = s[:i] + "." + s[i+1:]
		}
	}
	return strings.ToUpper(s)
}
