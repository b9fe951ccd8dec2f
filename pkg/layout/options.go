package layout

// Default sizing and spacing values, in canvas units.
const (
	DefaultPadding     = 12.0
	DefaultLineHeight  = 18.0
	DefaultCharWidth   = 7.5
	DefaultMinWidth    = 180.0
	DefaultMaxWidth    = 400.0
	DefaultDotRadius   = 4.0
	DefaultNodeBreadth = 220.0
	DefaultNodeDepth   = 280.0

	DefaultSiblingSeparation = 1.0
	DefaultCousinSeparation  = 1.2

	// titleSpacingRatio is the gap under the title, as a share of a line.
	titleSpacingRatio = 0.3
)

// Options controls box sizing and tree spacing. Zero fields take defaults.
type Options struct {
	Padding    float64 `json:"padding,omitempty" toml:"padding"`
	LineHeight float64 `json:"line_height,omitempty" toml:"line_height"`
	CharWidth  float64 `json:"char_width,omitempty" toml:"char_width"`
	MinWidth   float64 `json:"min_width,omitempty" toml:"min_width"`
	MaxWidth   float64 `json:"max_width,omitempty" toml:"max_width"`
	DotRadius  float64 `json:"dot_radius,omitempty" toml:"dot_radius"`

	// NodeBreadth is the spacing between neighbouring siblings along Y.
	NodeBreadth float64 `json:"node_breadth,omitempty" toml:"node_breadth"`
	// NodeDepth is the spacing between tree levels along X.
	NodeDepth float64 `json:"node_depth,omitempty" toml:"node_depth"`

	SiblingSeparation float64 `json:"sibling_separation,omitempty" toml:"sibling_separation"`
	CousinSeparation  float64 `json:"cousin_separation,omitempty" toml:"cousin_separation"`
}

// DefaultOptions returns the default layout options.
func DefaultOptions() Options {
	var o Options
	o.SetDefaults()
	return o
}

// SetDefaults fills zero fields with their default values.
func (o *Options) SetDefaults() {
	setDefault(&o.Padding, DefaultPadding)
	setDefault(&o.LineHeight, DefaultLineHeight)
	setDefault(&o.CharWidth, DefaultCharWidth)
	setDefault(&o.MinWidth, DefaultMinWidth)
	setDefault(&o.MaxWidth, DefaultMaxWidth)
	setDefault(&o.DotRadius, DefaultDotRadius)
	setDefault(&o.NodeBreadth, DefaultNodeBreadth)
	setDefault(&o.NodeDepth, DefaultNodeDepth)
	setDefault(&o.SiblingSeparation, DefaultSiblingSeparation)
	setDefault(&o.CousinSeparation, DefaultCousinSeparation)
	if o.MaxWidth < o.MinWidth {
		o.MaxWidth = o.MinWidth
	}
}

// TitleSpacing returns the extra gap between the title and the first row.
func (o Options) TitleSpacing() float64 {
	return o.LineHeight * titleSpacingRatio
}

func setDefault(f *float64, def float64) {
	if *f <= 0 {
		*f = def
	}
}
