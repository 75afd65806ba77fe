package loam

// IndexMetadata is the frontmatter of one knowledge base document.
// A document named "locations.md" holds the "locations" index unless Index overrides it.
type IndexMetadata struct {
	Index   string         `json:"index,omitempty" mapstructure:"index"`
	Entries map[string]any `json:"entries" mapstructure:"entries"`
}
