package newcluster

import (
	"github.com/tsanders-rh/ocpconsole/internal/alerts"
	"github.com/tsanders-rh/ocpconsole/internal/form"
	"github.com/tsanders-rh/ocpconsole/internal/versions"
	"github.com/tsanders-rh/ocpconsole/pkg/types"
)

// Breadcrumb is one entry of the page trail
type Breadcrumb struct {
	Label string
	Path  string
}

// Model is everything the page template renders
type Model struct {
	Breadcrumbs     []Breadcrumb
	Values          types.ClusterCreateParams
	Initial         types.ClusterCreateParams
	Errors          map[string]string
	VersionOptions  []types.VersionOption
	VersionDisabled bool
	Warning         *versions.Warning
	Alerts          []alerts.Alert
	CanSubmit       bool
	Submitting      bool
	ActionPath      string
	ValidatePath    string
	CancelPath      string
}

// Model builds the render model of the page
func (p *Page) Model(l *Loaded, st *form.State, al *alerts.List) *Model {
	errs := make(map[string]string)
	for _, f := range []string{form.FieldName, form.FieldOpenshiftVersion, form.FieldPullSecret} {
		if msg := st.FieldError(f); msg != "" {
			errs[f] = msg
		}
	}

	m := &Model{
		Breadcrumbs: []Breadcrumb{
			{Label: "Clusters", Path: p.ClustersPath()},
			{Label: "New cluster"},
		},
		Values:          st.Values,
		Initial:         st.Initial,
		Errors:          errs,
		VersionOptions:  versions.Options(l.Catalog, false, l.VersionsErr),
		VersionDisabled: l.Catalog == nil,
		Alerts:          al.All(),
		CanSubmit:       st.CanSubmit(),
		Submitting:      st.Submitting,
		ActionPath:      p.NewClusterPath(),
		ValidatePath:    p.NewClusterPath() + "/validate",
		CancelPath:      p.NewClusterPath() + "/cancel",
	}

	if w, ok := versions.SelectedWarning(l.Catalog, st.Values.OpenshiftVersion); ok {
		m.Warning = &w
	}

	return m
}
