package markup

import (
	"sort"
	"strings"
	"sync"

	"braces.dev/errtrace"
)

// Registry holds roles and directives by name.
// Roles and directives live in separate namespaces,
// so a role and a directive may share a name.
//
// Names are case insensitive.
// The zero value is an empty registry ready for use.
// A Registry is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	roles      map[string]Role
	directives map[string]Directive
}

// Default is the registry used by extensions
// that weren't given one explicitly.
// Packages providing roles and directives register into it on import.
var Default = new(Registry)

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return new(Registry)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RegisterRole registers a role under the given name,
// replacing any role previously registered with that name.
func (r *Registry) RegisterRole(name string, role Role) error {
	name = normalizeName(name)
	if name == "" {
		return errtrace.New("role name must not be empty")
	}
	if role == nil {
		return errtrace.Errorf("role %q: must not be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.roles == nil {
		r.roles = make(map[string]Role)
	}
	r.roles[name] = role
	return nil
}

// RegisterDirective registers a directive under the given name,
// replacing any directive previously registered with that name.
func (r *Registry) RegisterDirective(name string, d Directive) error {
	name = normalizeName(name)
	if name == "" {
		return errtrace.New("directive name must not be empty")
	}
	if d == nil {
		return errtrace.Errorf("directive %q: must not be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.directives == nil {
		r.directives = make(map[string]Directive)
	}
	r.directives[name] = d
	return nil
}

// Role looks up a role by name.
func (r *Registry) Role(name string) (Role, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[normalizeName(name)]
	return role, ok
}

// Directive looks up a directive by name.
func (r *Registry) Directive(name string) (Directive, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.directives[normalizeName(name)]
	return d, ok
}

// Roles returns the names of all registered roles in sorted order.
func (r *Registry) Roles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.roles)
}

// Directives returns the names of all registered directives in sorted order.
func (r *Registry) Directives() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.directives)
}

// Clone returns a copy of this registry.
// Changes to the copy do not affect the original.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &Registry{
		roles:      make(map[string]Role, len(r.roles)),
		directives: make(map[string]Directive, len(r.directives)),
	}
	for name, role := range r.roles {
		out.roles[name] = role
	}
	for name, d := range r.directives {
		out.directives[name] = d
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RegisterRole registers a role with the [Default] registry.
func RegisterRole(name string, role Role) error {
	return errtrace.Wrap(Default.RegisterRole(name, role))
}

// RegisterDirective registers a directive with the [Default] registry.
func RegisterDirective(name string, d Directive) error {
	return errtrace.Wrap(Default.RegisterDirective(name, d))
}
