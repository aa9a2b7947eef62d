package types

// SupportLevel classifies a platform version
type SupportLevel string

const (
	SupportLevelProduction  SupportLevel = "production"
	SupportLevelBeta        SupportLevel = "beta"
	SupportLevelDevPreview  SupportLevel = "dev-preview"
	SupportLevelMaintenance SupportLevel = "maintenance"
)

// IsProduction reports whether the level is production ready
func (l SupportLevel) IsProduction() bool {
	return l == SupportLevelProduction
}

// OpenshiftVersion is a version descriptor as served by the API
type OpenshiftVersion struct {
	Version      string       `json:"version" yaml:"version"`
	DisplayName  string       `json:"display_name" yaml:"displayName"`
	SupportLevel SupportLevel `json:"support_level" yaml:"supportLevel"`
	Default      bool         `json:"default,omitempty" yaml:"default"`
}

// VersionOption is a selectable entry of the version field
type VersionOption struct {
	Label        string
	Value        string
	SupportLevel SupportLevel
	Disabled     bool
}

// VersionPlaceholderValue is the value of the disabled option shown while
// versions are unavailable. It never passes validation.
const VersionPlaceholderValue = "__placeholder__"
