package versions

import "github.com/tsanders-rh/ocpconsole/pkg/types"

const (
	loadingLabel = "Loading OpenShift versions..."
	failedLabel  = "Failed to load OpenShift versions"
)

// Warning is the inline caption shown next to the version field
type Warning struct {
	Title   string
	Caption string
}

// Options maps the catalog to selectable options. While loading, when
// loading failed, or when the catalog is empty, a single disabled placeholder
// is returned whose value never validates.
func Options(c *Catalog, loading bool, loadErr error) []types.VersionOption {
	if loading || loadErr != nil || c == nil || c.Len() == 0 {
		label := loadingLabel
		if loadErr != nil || (!loading && c != nil) {
			label = failedLabel
		}
		return []types.VersionOption{{
			Label:    label,
			Value:    types.VersionPlaceholderValue,
			Disabled: true,
		}}
	}

	options := make([]types.VersionOption, 0, c.Len())
	for _, v := range c.All() {
		label := v.DisplayName
		if label == "" {
			label = "OpenShift " + v.Version
		}
		options = append(options, types.VersionOption{
			Label:        label,
			Value:        v.Version,
			SupportLevel: v.SupportLevel,
		})
	}
	return options
}

// SelectedWarning returns the warning for the selected version when its
// support level is not production
func SelectedWarning(c *Catalog, selected string) (Warning, bool) {
	if c == nil {
		return Warning{}, false
	}

	v, ok := c.Lookup(selected)
	if !ok || v.SupportLevel.IsProduction() {
		return Warning{}, false
	}

	return Warning{
		Title:   supportLevelTitle(v.SupportLevel),
		Caption: "Please note that this version is not production ready.",
	}, true
}

func supportLevelTitle(level types.SupportLevel) string {
	switch level {
	case types.SupportLevelBeta:
		return "Technology Preview"
	case types.SupportLevelDevPreview:
		return "Developer Preview"
	case types.SupportLevelMaintenance:
		return "Maintenance Support"
	}
	return "Not production ready"
}
