package cache

// Keyer builds cache keys.
type Keyer interface {
	// ImportKey identifies a parsed feature file by content hash.
	ImportKey(contentHash string, opts ImportKeyOpts) string

	// LayoutKey identifies a layout of the track with the given hash.
	LayoutKey(trackHash string, opts LayoutKeyOpts) string
}

// ImportKeyOpts holds the import options that change a parsed track.
type ImportKeyOpts struct {
	Format       string   `json:"format"`
	SeqName      string   `json:"seq_name,omitempty"`
	Types        []string `json:"types,omitempty"`
	DefaultWidth float64  `json:"default_width"`
	BaseWidth    float64  `json:"base_width"`
	Spacing      float64  `json:"spacing"`
}

// LayoutKeyOpts holds the layout options that change a bump result.
type LayoutKeyOpts struct {
	Mode       string  `json:"mode"`
	SplitParts bool    `json:"split_parts,omitempty"`
	Window     *[2]int `json:"window,omitempty"`
	Ceiling    float64 `json:"ceiling"`
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ImportKey implements Keyer.
func (DefaultKeyer) ImportKey(contentHash string, opts ImportKeyOpts) string {
	return hashKey("import", contentHash, opts)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(trackHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", trackHash, opts)
}
