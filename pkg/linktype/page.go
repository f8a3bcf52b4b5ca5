package linktype

// PageOption is one internal page a PageType item can point at.
type PageOption struct {
	Locale string
	Label  string
	Value  string
}

// PageType is the built-in link type for internal pages. Its options
// come from a lister supplied at construction time so the registry
// stays decoupled from the page storage.
type PageType struct {
	listPages func(locale string) []PageOption
}

// NewPageType creates a page link type. listPages may be nil, in which
// case no options are offered.
func NewPageType(listPages func(locale string) []PageOption) *PageType {
	return &PageType{listPages: listPages}
}

func (*PageType) Name() string    { return "Internal page" }
func (*PageType) TypeTag() string { return "page" }

func (*PageType) Fields() []Field {
	return []Field{
		{Name: "value", Label: "Page", Kind: "select", Required: true},
	}
}

// Options implements OptionsProvider.
func (p *PageType) Options(locale string) []Option {
	if p.listPages == nil {
		return nil
	}
	pages := p.listPages(locale)
	opts := make([]Option, 0, len(pages))
	for _, pg := range pages {
		opts = append(opts, Option{Label: pg.Label, Value: pg.Value})
	}
	return opts
}
