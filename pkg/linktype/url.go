package linktype

// URLType is the built-in link type for external URLs.
type URLType struct{}

func NewURLType() *URLType { return &URLType{} }

func (*URLType) Name() string    { return "URL" }
func (*URLType) TypeTag() string { return "url" }

func (*URLType) Fields() []Field {
	return []Field{
		{Name: "value", Label: "URL", Kind: "text", Required: true},
		{Name: "target", Label: "Open in new tab", Kind: "checkbox"},
	}
}
