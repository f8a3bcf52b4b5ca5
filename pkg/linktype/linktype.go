// Package linktype defines the pluggable link-type capability: each
// menu item carries a class naming the link type governing its target.
// Implementations are registered once at startup and read afterwards.
package linktype

// Field describes one input field a link type expects when an item of
// that type is created or edited.
type Field struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
}

// LinkType defines the interface each link-type implementation must
// satisfy.
type LinkType interface {
	// Name returns the human-readable display name.
	Name() string

	// TypeTag returns the short machine tag (e.g. "url", "page").
	TypeTag() string

	// Fields returns the field schema for items of this type.
	Fields() []Field
}

// OptionsProvider is an optional capability: link types that can
// enumerate locale-specific choices (e.g. a list of internal pages)
// implement it in addition to LinkType.
type OptionsProvider interface {
	Options(locale string) []Option
}

// Option is one selectable choice offered by an OptionsProvider.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Descriptor is the presentation payload produced for one registered
// link type.
type Descriptor struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Class   string   `json:"class"`
	Fields  []Field  `json:"fields"`
	Options []Option `json:"options,omitempty"`
}

// Registry holds all registered link types keyed by type tag.
type Registry struct {
	types map[string]LinkType
	order []string
}

// NewRegistry creates an empty link-type registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]LinkType),
	}
}

// Register adds a link type to the registry. Registering the same tag
// twice replaces the earlier implementation.
func (r *Registry) Register(t LinkType) {
	tag := t.TypeTag()
	if _, exists := r.types[tag]; !exists {
		r.order = append(r.order, tag)
	}
	r.types[tag] = t
}

// Resolve returns the link type registered under tag.
func (r *Registry) Resolve(tag string) (LinkType, bool) {
	t, ok := r.types[tag]
	return t, ok
}

// Describe enumerates all registered link types as presentation
// descriptors. Tags that no longer resolve are skipped silently.
func (r *Registry) Describe(locale string) []Descriptor {
	descriptors := make([]Descriptor, 0, len(r.order))
	for _, tag := range r.order {
		t, ok := r.types[tag]
		if !ok {
			continue
		}
		d := Descriptor{
			Name:   t.Name(),
			Type:   t.TypeTag(),
			Class:  t.TypeTag(),
			Fields: t.Fields(),
		}
		if p, ok := t.(OptionsProvider); ok {
			d.Options = p.Options(locale)
		}
		descriptors = append(descriptors, d)
	}
	return descriptors
}

// NewDefaultRegistry creates a registry with the built-in link types.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewURLType())
	r.Register(NewPageType(nil))
	return r
}
