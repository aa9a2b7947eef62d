package newcluster_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsanders-rh/ocpconsole/internal/alerts"
	"github.com/tsanders-rh/ocpconsole/internal/apiclient"
	"github.com/tsanders-rh/ocpconsole/internal/form"
	"github.com/tsanders-rh/ocpconsole/internal/newcluster"
	"github.com/tsanders-rh/ocpconsole/internal/pullsecret"
	"github.com/tsanders-rh/ocpconsole/internal/versions"
	"github.com/tsanders-rh/ocpconsole/pkg/types"
)

const validPullSecret = `{"auths":{"quay.io":{"auth":"dXNlcjpwYXNz"}}}`

type fakeAPI struct {
	mu        sync.Mutex
	clusters  []types.Cluster
	listErr   error
	createID  string
	createErr error
	created   []types.ClusterCreateParams

	versions    []types.OpenshiftVersion
	versionsErr error
}

func (f *fakeAPI) ListClusters(context.Context) ([]types.Cluster, error) {
	return f.clusters, f.listErr
}

func (f *fakeAPI) CreateCluster(_ context.Context, params types.ClusterCreateParams) (*types.Cluster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, params)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &types.Cluster{ID: f.createID, Name: params.Name, Status: "PENDING"}, nil
}

func (f *fakeAPI) ListOpenshiftVersions(context.Context) ([]types.OpenshiftVersion, error) {
	return f.versions, f.versionsErr
}

type fakeReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *fakeReporter) CaptureException(_ context.Context, err error, _ map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

type fakeSaver struct {
	saved map[string]string
}

func (s *fakeSaver) Save(_ context.Context, userID, secret string) error {
	s.saved[userID] = secret
	return nil
}

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.paths = append(n.paths, path)
}

func defaultVersions() []types.OpenshiftVersion {
	return []types.OpenshiftVersion{
		{Version: "4.14.3", DisplayName: "OpenShift 4.14.3", SupportLevel: types.SupportLevelProduction, Default: true},
		{Version: "4.15.0-ec.2", DisplayName: "OpenShift 4.15.0-ec.2", SupportLevel: types.SupportLevelDevPreview},
	}
}

type fixture struct {
	api      *fakeAPI
	reporter *fakeReporter
	saver    *fakeSaver
	nav      *recordingNavigator
	page     *newcluster.Page
}

func newFixture(secrets pullsecret.Source) *fixture {
	logger, _ := test.NewNullLogger()
	f := &fixture{
		api:      &fakeAPI{createID: "abc123", versions: defaultVersions()},
		reporter: &fakeReporter{},
		saver:    &fakeSaver{saved: map[string]string{}},
		nav:      &recordingNavigator{},
	}
	f.page = newcluster.New(newcluster.Options{
		BasePath:    "/console",
		Clusters:    f.api,
		Versions:    f.api,
		PullSecrets: secrets,
		Saver:       f.saver,
		Telemetry:   f.reporter,
		Log:         logrus.NewEntry(logger),
	})
	return f
}

// filledForm loads the page and fills in a valid, modified form
func (f *fixture) filledForm(t *testing.T, name string) *form.State {
	loaded := f.page.Load(context.Background(), "user-1")
	st := f.page.NewForm(loaded)
	st.SetValues(types.ClusterCreateParams{
		Name:             name,
		OpenshiftVersion: "4.14.3",
		PullSecret:       validPullSecret,
	})
	require.True(t, st.CanSubmit())
	return st
}

func TestPage_Load(t *testing.T) {
	t.Run("prefills default version and stored pull secret", func(t *testing.T) {
		f := newFixture(pullsecret.Static{Secret: validPullSecret})
		loaded := f.page.Load(context.Background(), "user-1")

		assert.NoError(t, loaded.VersionsErr)
		assert.Equal(t, types.ClusterCreateParams{OpenshiftVersion: "4.14.3", PullSecret: validPullSecret}, loaded.Initial)
		assert.Zero(t, loaded.Alerts.Len())
	})

	t.Run("version failure raises an alert and keeps the placeholder", func(t *testing.T) {
		f := newFixture(nil)
		f.api.versionsErr = errors.New("service unavailable")

		loaded := f.page.Load(context.Background(), "user-1")
		require.Error(t, loaded.VersionsErr)
		require.Equal(t, 1, loaded.Alerts.Len())
		assert.Equal(t, "Failed to retrieve OpenShift versions", loaded.Alerts.All()[0].Title)
		assert.Equal(t, types.VersionPlaceholderValue, loaded.Initial.OpenshiftVersion)

		st := f.page.NewForm(loaded)
		st.SetValues(types.ClusterCreateParams{Name: "dev", OpenshiftVersion: loaded.Initial.OpenshiftVersion, PullSecret: validPullSecret})
		assert.False(t, st.CanSubmit(), "placeholder version never validates")

		m := f.page.Model(loaded, st, &loaded.Alerts)
		assert.True(t, m.VersionDisabled)
		require.Len(t, m.VersionOptions, 1)
		assert.True(t, m.VersionOptions[0].Disabled)
	})

	t.Run("empty version list is handled like a failed fetch", func(t *testing.T) {
		f := newFixture(nil)
		f.api.versions = nil

		loaded := f.page.Load(context.Background(), "user-1")
		assert.ErrorIs(t, loaded.VersionsErr, versions.ErrNoVersions)
		require.Equal(t, 1, loaded.Alerts.Len())
		assert.Equal(t, "Failed to retrieve OpenShift versions", loaded.Alerts.All()[0].Title)
		assert.Equal(t, types.VersionPlaceholderValue, loaded.Initial.OpenshiftVersion)

		m := f.page.Model(loaded, f.page.NewForm(loaded), &loaded.Alerts)
		assert.True(t, m.VersionDisabled)
		require.Len(t, m.VersionOptions, 1)
		assert.Equal(t, types.VersionPlaceholderValue, m.VersionOptions[0].Value)
	})

	t.Run("pull secret failure is reported and leaves the field empty", func(t *testing.T) {
		f := newFixture(failingSource{})
		loaded := f.page.Load(context.Background(), "user-1")

		assert.Empty(t, loaded.Initial.PullSecret)
		assert.Len(t, f.reporter.errs, 1)
		assert.Zero(t, loaded.Alerts.Len())
	})
}

type failingSource struct{}

func (failingSource) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("database unavailable")
}

func TestPage_Submit(t *testing.T) {
	t.Run("duplicate name sets a field error and skips creation", func(t *testing.T) {
		f := newFixture(nil)
		f.api.clusters = []types.Cluster{{ID: "c1", Name: "taken"}}
		st := f.filledForm(t, "taken")
		var al alerts.List

		cluster := f.page.Submit(context.Background(), "user-1", st, &al, f.nav)

		assert.Nil(t, cluster)
		assert.Empty(t, f.api.created)
		assert.Empty(t, f.nav.paths)
		assert.Equal(t, `Name "taken" is already taken.`, st.FieldError(form.FieldName))
		assert.Zero(t, al.Len(), "collisions raise no alert")
		assert.False(t, st.Submitting)
	})

	t.Run("success navigates to the new cluster", func(t *testing.T) {
		f := newFixture(nil)
		st := f.filledForm(t, "fresh")
		var al alerts.List
		al.Danger("stale", "from a previous attempt")

		cluster := f.page.Submit(context.Background(), "user-1", st, &al, f.nav)

		require.NotNil(t, cluster)
		assert.Equal(t, []string{"/console/clusters/abc123"}, f.nav.paths)
		assert.Zero(t, al.Len(), "alerts are cleared on submit")
		require.Len(t, f.api.created, 1)
		assert.Equal(t, "fresh", f.api.created[0].Name)
		assert.Equal(t, validPullSecret, f.saver.saved["user-1"])
	})

	t.Run("uniqueness check failure is reported and creation proceeds", func(t *testing.T) {
		f := newFixture(nil)
		f.api.listErr = errors.New("connection refused")
		st := f.filledForm(t, "fresh")
		var al alerts.List

		cluster := f.page.Submit(context.Background(), "user-1", st, &al, f.nav)

		require.NotNil(t, cluster)
		require.Len(t, f.reporter.errs, 1)
		assert.ErrorContains(t, f.reporter.errs[0], "connection refused")
		assert.Equal(t, []string{"/console/clusters/abc123"}, f.nav.paths)
	})

	t.Run("create failure raises an alert and keeps the form", func(t *testing.T) {
		f := newFixture(nil)
		f.api.createErr = &apiclient.APIError{StatusCode: http.StatusForbidden, Code: "forbidden", Message: "quota exceeded"}
		st := f.filledForm(t, "fresh")
		var al alerts.List

		cluster := f.page.Submit(context.Background(), "user-1", st, &al, f.nav)

		assert.Nil(t, cluster)
		assert.Empty(t, f.nav.paths)
		require.Equal(t, 1, al.Len())
		assert.Equal(t, "Failed to create new cluster", al.All()[0].Title)
		assert.Equal(t, "quota exceeded", al.All()[0].Message)
		assert.Equal(t, alerts.VariantDanger, al.All()[0].Variant)
		assert.Empty(t, f.saver.saved)
	})

	t.Run("create failure details are applied to fields", func(t *testing.T) {
		f := newFixture(nil)
		f.api.createErr = &apiclient.APIError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       "validation_failed",
			Message:    "Request validation failed",
			Details: []apiclient.FieldError{
				{Field: "version", Message: "version 4.14.3 not in profile allowlist"},
				{Field: "region", Message: "ignored"},
			},
		}
		st := f.filledForm(t, "fresh")
		var al alerts.List

		f.page.Submit(context.Background(), "user-1", st, &al, f.nav)

		assert.Equal(t, "version 4.14.3 not in profile allowlist", st.FieldError(form.FieldOpenshiftVersion))
		assert.Len(t, st.Errors, 1)
		require.Equal(t, 1, al.Len())
		assert.Equal(t, "Request validation failed", al.All()[0].Message)
	})

	t.Run("backend conflict marks the name", func(t *testing.T) {
		f := newFixture(nil)
		f.api.createErr = &apiclient.APIError{StatusCode: http.StatusConflict, Code: "conflict", Message: "cluster name already in use"}
		st := f.filledForm(t, "fresh")
		var al alerts.List

		f.page.Submit(context.Background(), "user-1", st, &al, f.nav)

		assert.Equal(t, `Name "fresh" is already taken.`, st.FieldError(form.FieldName))
		assert.Equal(t, 1, al.Len())
	})
}

func TestPage_Cancel(t *testing.T) {
	f := newFixture(nil)
	f.page.Cancel(f.nav)
	assert.Equal(t, []string{"/console/clusters"}, f.nav.paths)
	assert.Empty(t, f.api.created)
}

func TestPage_ModelWarning(t *testing.T) {
	f := newFixture(nil)
	loaded := f.page.Load(context.Background(), "user-1")
	st := f.page.NewForm(loaded)
	var al alerts.List

	m := f.page.Model(loaded, st, &al)
	assert.Nil(t, m.Warning, "production version has no warning")
	assert.Equal(t, "New cluster", m.Breadcrumbs[len(m.Breadcrumbs)-1].Label)

	st.SetValues(types.ClusterCreateParams{OpenshiftVersion: "4.15.0-ec.2"})
	m = f.page.Model(loaded, st, &al)
	require.NotNil(t, m.Warning)
	assert.Equal(t, "Developer Preview", m.Warning.Title)
}
