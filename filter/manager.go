package filter

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Manager holds named filter presets and compiles ad hoc expressions with
// a shared compiler.
type Manager struct {
	compiler Compiler
	presets  map[string]CompiledFilter
	mu       sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler: NewExprCompiler(WithCache(100)),
		presets:  make(map[string]CompiledFilter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// presetKey normalizes a preset name. Config keys arrive lowercased from
// viper, so names are case-insensitive.
func presetKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RegisterPreset registers a new preset or replaces an existing one
func (m *Manager) RegisterPreset(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile preset '%s': %w", name, err)
	}

	m.mu.Lock()
	m.presets[presetKey(name)] = filter
	m.mu.Unlock()

	return nil
}

// RegisterPresets registers several presets. Nothing is registered unless
// every expression compiles.
func (m *Manager) RegisterPresets(presets map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(presets))

	for name, expr := range presets {
		filter, err := m.compiler.Compile(expr)
		if err != nil {
			return fmt.Errorf("failed to compile preset '%s': %w", name, err)
		}
		compiled[presetKey(name)] = filter
	}

	m.mu.Lock()
	maps.Copy(m.presets, compiled)
	m.mu.Unlock()

	return nil
}

// Preset returns a compiled preset by name
func (m *Manager) Preset(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, exists := m.presets[presetKey(name)]
	m.mu.RUnlock()
	return filter, exists
}

// Presets returns the registered preset names in sorted order
func (m *Manager) Presets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.presets))
}

// Resolve builds the filter for a command invocation. With both a preset and
// an expression the two are combined with "and". With neither it returns
// nil, which matches everything.
func (m *Manager) Resolve(preset, where string) (CompiledFilter, error) {
	if preset == "" {
		if where == "" {
			return nil, nil
		}
		return m.compiler.Compile(where)
	}

	p, ok := m.Preset(preset)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, preset)
	}
	if where == "" {
		return p, nil
	}
	return m.compiler.Compile(fmt.Sprintf("(%s) and (%s)", p.Expression(), where))
}
