package parser

// FieldSelector locates one field inside a result container. Type
// selects the query language; Attr names an attribute to read, with
// "" or "text" meaning the element's text content.
type FieldSelector struct {
	Type string `mapstructure:"type" yaml:"type"`
	Expr string `mapstructure:"expr" yaml:"expr"`
	Attr string `mapstructure:"attr" yaml:"attr"`
}

// TypeCSS and TypeXPath are the supported selector languages.
const (
	TypeCSS   = "css"
	TypeXPath = "xpath"
)

// Selectors describes where article fields live in a listing page.
// Container matches one result card; the field selectors are applied
// relative to each container.
type Selectors struct {
	Container   FieldSelector `mapstructure:"container" yaml:"container"`
	Title       FieldSelector `mapstructure:"title" yaml:"title"`
	URL         FieldSelector `mapstructure:"url" yaml:"url"`
	Source      FieldSelector `mapstructure:"source" yaml:"source"`
	Date        FieldSelector `mapstructure:"date" yaml:"date"`
	Description FieldSelector `mapstructure:"description" yaml:"description"`
}

// DefaultSelectors matches the news vertical's result markup as of
// early 2024. The class names are obfuscated and rotate occasionally;
// when extraction suddenly yields nothing, start here.
func DefaultSelectors() Selectors {
	return Selectors{
		Container:   FieldSelector{Type: TypeCSS, Expr: "div.SoaBEf"},
		Title:       FieldSelector{Type: TypeCSS, Expr: "div.n0jPhd"},
		URL:         FieldSelector{Type: TypeCSS, Expr: "a.WlydOe", Attr: "href"},
		Source:      FieldSelector{Type: TypeCSS, Expr: "div.NUnG9d"},
		Date:        FieldSelector{Type: TypeCSS, Expr: "div.rbYSKb"},
		Description: FieldSelector{Type: TypeCSS, Expr: "div.GI74Re"},
	}
}
