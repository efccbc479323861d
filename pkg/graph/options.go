package graph

// Unknown is the label shown for a path endpoint that names no controller or
// component.
const Unknown = "Unknown"

// Default sizes, in diagram units.
const (
	DefaultNodeWidth            = 180
	DefaultNodeHeight           = 60
	DefaultSpacing              = 60
	DefaultGrandchildExtraWidth = 60
	DefaultMemberWidth          = 160
	DefaultMemberHeight         = 40
	DefaultMemberSpacing        = 10
	DefaultTeamHeaderHeight     = 50
	DefaultTeamPadding          = 20
	DefaultTeamBottomPadding    = 20
)

// Sizes holds the fixed dimensions the builder derives widths and heights
// from.
type Sizes struct {
	NodeWidth            float64 `toml:"node_width" json:"nodeWidth" validate:"gt=0"`
	NodeHeight           float64 `toml:"node_height" json:"nodeHeight" validate:"gt=0"`
	Spacing              float64 `toml:"spacing" json:"spacing" validate:"gte=0"`
	GrandchildExtraWidth float64 `toml:"grandchild_extra_width" json:"grandchildExtraWidth" validate:"gte=0"`
	MemberWidth          float64 `toml:"member_width" json:"memberWidth" validate:"gt=0"`
	MemberHeight         float64 `toml:"member_height" json:"memberHeight" validate:"gt=0"`
	MemberSpacing        float64 `toml:"member_spacing" json:"memberSpacing" validate:"gte=0"`
	TeamHeaderHeight     float64 `toml:"team_header_height" json:"teamHeaderHeight" validate:"gte=0"`
	TeamPadding          float64 `toml:"team_padding" json:"teamPadding" validate:"gte=0"` // each side
	TeamBottomPadding    float64 `toml:"team_bottom_padding" json:"teamBottomPadding" validate:"gte=0"`
}

// DefaultSizes returns the default dimensions.
func DefaultSizes() Sizes {
	return Sizes{
		NodeWidth:            DefaultNodeWidth,
		NodeHeight:           DefaultNodeHeight,
		Spacing:              DefaultSpacing,
		GrandchildExtraWidth: DefaultGrandchildExtraWidth,
		MemberWidth:          DefaultMemberWidth,
		MemberHeight:         DefaultMemberHeight,
		MemberSpacing:        DefaultMemberSpacing,
		TeamHeaderHeight:     DefaultTeamHeaderHeight,
		TeamPadding:          DefaultTeamPadding,
		TeamBottomPadding:    DefaultTeamBottomPadding,
	}
}

// TeamHeight returns the height of a container holding n members.
func (s Sizes) TeamHeight(n int) float64 {
	return s.TeamHeaderHeight + float64(n)*(s.MemberHeight+s.MemberSpacing) + s.TeamBottomPadding
}

// TeamBaseWidth returns the base width of an expanded team.
func (s Sizes) TeamBaseWidth() float64 {
	return s.MemberWidth + 2*s.TeamPadding
}

// MemberOffset returns the position of the i-th member relative to a
// container of the given width.
func (s Sizes) MemberOffset(i int, containerWidth float64) Position {
	return Position{
		X: (containerWidth - s.MemberWidth) / 2,
		Y: s.TeamHeaderHeight + float64(i)*(s.MemberHeight+s.MemberSpacing),
	}
}

// BuildOptions controls a single Build call. Zero fields of Sizes take
// their value from DefaultSizes.
type BuildOptions struct {
	Sizes            Sizes
	ShowFailurePaths bool
}

func (o BuildOptions) sizes() Sizes {
	s, def := o.Sizes, DefaultSizes()
	for _, f := range []struct{ v, d *float64 }{
		{&s.NodeWidth, &def.NodeWidth},
		{&s.NodeHeight, &def.NodeHeight},
		{&s.Spacing, &def.Spacing},
		{&s.GrandchildExtraWidth, &def.GrandchildExtraWidth},
		{&s.MemberWidth, &def.MemberWidth},
		{&s.MemberHeight, &def.MemberHeight},
		{&s.MemberSpacing, &def.MemberSpacing},
		{&s.TeamHeaderHeight, &def.TeamHeaderHeight},
		{&s.TeamPadding, &def.TeamPadding},
		{&s.TeamBottomPadding, &def.TeamBottomPadding},
	} {
		if *f.v <= 0 {
			*f.v = *f.d
		}
	}
	return s
}
