// Package newcluster implements the "New cluster" page: it loads the
// form's initial state, validates it, and runs the creation pipeline.
package newcluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tsanders-rh/ocpconsole/internal/alerts"
	"github.com/tsanders-rh/ocpconsole/internal/form"
	"github.com/tsanders-rh/ocpconsole/internal/pullsecret"
	"github.com/tsanders-rh/ocpconsole/internal/telemetry"
	"github.com/tsanders-rh/ocpconsole/internal/versions"
	"github.com/tsanders-rh/ocpconsole/pkg/types"
	"golang.org/x/sync/errgroup"
)

// ClusterAPI lists and creates clusters
type ClusterAPI interface {
	ListClusters(ctx context.Context) ([]types.Cluster, error)
	CreateCluster(ctx context.Context, params types.ClusterCreateParams) (*types.Cluster, error)
}

// VersionAPI lists the platform versions
type VersionAPI interface {
	ListOpenshiftVersions(ctx context.Context) ([]types.OpenshiftVersion, error)
}

// Navigator moves the user to another console page
type Navigator interface {
	Navigate(path string)
}

// Options holds the collaborators of a Page
type Options struct {
	BasePath    string
	Clusters    ClusterAPI
	Versions    VersionAPI
	PullSecrets pullsecret.Source
	// Saver is optional; when set the submitted pull secret is remembered
	Saver     pullsecret.Saver
	Telemetry telemetry.Reporter
	Validator *form.Validator
	Log       *logrus.Entry
}

// Page is the new-cluster page. It holds no per-user state and may be
// shared by concurrent requests.
type Page struct {
	basePath    string
	clusters    ClusterAPI
	versions    VersionAPI
	pullSecrets pullsecret.Source
	saver       pullsecret.Saver
	telemetry   telemetry.Reporter
	validator   *form.Validator
	log         *logrus.Entry
}

// New creates the page
func New(opts Options) *Page {
	p := &Page{
		basePath:    strings.TrimSuffix(opts.BasePath, "/"),
		clusters:    opts.Clusters,
		versions:    opts.Versions,
		pullSecrets: opts.PullSecrets,
		saver:       opts.Saver,
		telemetry:   opts.Telemetry,
		validator:   opts.Validator,
		log:         opts.Log,
	}

	if p.pullSecrets == nil {
		p.pullSecrets = pullsecret.Static{}
	}
	if p.telemetry == nil {
		p.telemetry = telemetry.Nop{}
	}
	if p.validator == nil {
		p.validator = form.NewValidator()
	}
	if p.log == nil {
		p.log = logrus.NewEntry(logrus.StandardLogger())
	}

	return p
}

// ClustersPath is the cluster list page
func (p *Page) ClustersPath() string {
	return p.basePath + "/clusters"
}

// ClusterPath is the detail page of a cluster
func (p *Page) ClusterPath(id string) string {
	return fmt.Sprintf("%s/clusters/%s", p.basePath, id)
}

// NewClusterPath is the path this page is served on
func (p *Page) NewClusterPath() string {
	return p.basePath + "/clusters/~new"
}

// Loaded is the outcome of the page's loaders
type Loaded struct {
	Catalog     *versions.Catalog
	VersionsErr error
	Initial     types.ClusterCreateParams
	Alerts      alerts.List
}

// Load fetches the stored pull secret and the version list concurrently and
// returns once both have settled. Failures never prevent the page from
// rendering: a missing pull secret leaves the field empty, and a failed or
// empty version fetch raises a page alert.
func (p *Page) Load(ctx context.Context, userID string) *Loaded {
	var (
		secret    string
		versionsV []types.OpenshiftVersion
		loaded    = &Loaded{}
		g         errgroup.Group
	)

	g.Go(func() error {
		s, found, err := p.pullSecrets.Get(ctx, userID)
		if err != nil {
			p.telemetry.CaptureException(ctx, fmt.Errorf("fetch pull secret: %w", err), map[string]string{
				"operation": "fetch-pull-secret",
			})
			return nil
		}
		if found {
			secret = s
		}
		return nil
	})

	g.Go(func() error {
		v, err := p.versions.ListOpenshiftVersions(ctx)
		if err != nil {
			loaded.VersionsErr = err
			return nil
		}
		if len(v) == 0 {
			loaded.VersionsErr = versions.ErrNoVersions
			return nil
		}
		versionsV = v
		return nil
	})

	// Neither loader returns an error; they record their outcome instead
	_ = g.Wait()

	if loaded.VersionsErr != nil {
		p.log.WithError(loaded.VersionsErr).Warn("failed to retrieve OpenShift versions")
		loaded.Alerts.Danger("Failed to retrieve OpenShift versions", loaded.VersionsErr.Error())
	} else {
		loaded.Catalog = versions.NewCatalog(versionsV)
	}

	loaded.Initial = types.ClusterCreateParams{PullSecret: secret}
	if loaded.Catalog != nil {
		if def, ok := loaded.Catalog.Default(); ok {
			loaded.Initial.OpenshiftVersion = def.Version
		}
	} else {
		loaded.Initial.OpenshiftVersion = types.VersionPlaceholderValue
	}

	return loaded
}

// NewForm creates form state seeded with the loaded initial values
func (p *Page) NewForm(l *Loaded) *form.State {
	return form.New(p.validator, l.Initial)
}
