// Package versions turns the OpenShift versions served by the API into the
// options of the version field.
package versions

import (
	"errors"
	"sort"

	"github.com/blang/semver"
	"github.com/tsanders-rh/ocpconsole/pkg/types"
)

// ErrNoVersions is returned when the API serves an empty version list
var ErrNoVersions = errors.New("no OpenShift versions are available")

// Catalog holds the available OpenShift versions, newest first
type Catalog struct {
	versions []types.OpenshiftVersion
}

// NewCatalog sorts versions by semantic version, newest first.
// Versions that do not parse are kept after the parsable ones.
func NewCatalog(versions []types.OpenshiftVersion) *Catalog {
	sorted := make([]types.OpenshiftVersion, len(versions))
	copy(sorted, versions)

	sort.SliceStable(sorted, func(i, j int) bool {
		vi, errI := semver.ParseTolerant(sorted[i].Version)
		vj, errJ := semver.ParseTolerant(sorted[j].Version)
		switch {
		case errI == nil && errJ == nil:
			return vi.GT(vj)
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return sorted[i].Version < sorted[j].Version
		}
	})

	return &Catalog{versions: sorted}
}

// All returns the versions, newest first
func (c *Catalog) All() []types.OpenshiftVersion {
	return c.versions
}

// Len returns the number of versions
func (c *Catalog) Len() int {
	return len(c.versions)
}

// Default returns the version to preselect: the one flagged default, else the
// newest production version, else the newest one.
func (c *Catalog) Default() (types.OpenshiftVersion, bool) {
	if len(c.versions) == 0 {
		return types.OpenshiftVersion{}, false
	}

	for _, v := range c.versions {
		if v.Default {
			return v, true
		}
	}

	for _, v := range c.versions {
		if v.SupportLevel.IsProduction() {
			return v, true
		}
	}

	return c.versions[0], true
}

// Lookup finds a version by its value
func (c *Catalog) Lookup(value string) (types.OpenshiftVersion, bool) {
	for _, v := range c.versions {
		if v.Version == value {
			return v, true
		}
	}
	return types.OpenshiftVersion{}, false
}
