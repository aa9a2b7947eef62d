package newcluster

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tsanders-rh/ocpconsole/internal/alerts"
	"github.com/tsanders-rh/ocpconsole/internal/apiclient"
	"github.com/tsanders-rh/ocpconsole/internal/form"
	"github.com/tsanders-rh/ocpconsole/pkg/types"
)

// CreateFailedTitle is the title of the alert raised when creation fails
const CreateFailedTitle = "Failed to create new cluster"

// apiFields maps field names used by the API to form fields
var apiFields = map[string]string{
	"name":              form.FieldName,
	"version":           form.FieldOpenshiftVersion,
	"openshift_version": form.FieldOpenshiftVersion,
	"openshiftVersion":  form.FieldOpenshiftVersion,
	"pull_secret":       form.FieldPullSecret,
	"pullSecret":        form.FieldPullSecret,
}

// Submit runs the creation pipeline for the form values: clear alerts,
// check the name is unused, create the cluster, then navigate to it. It
// returns the created cluster, or nil when the form stays on screen.
//
// The name check is best effort: when the cluster list cannot be fetched the
// failure is reported to telemetry and creation is attempted anyway.
func (p *Page) Submit(ctx context.Context, userID string, st *form.State, al *alerts.List, nav Navigator) *types.Cluster {
	al.Clear()

	st.Submitting = true
	defer func() { st.Submitting = false }()

	values := st.Values
	log := p.log.WithFields(logrus.Fields{
		"user_id":           userID,
		"cluster_name":      values.Name,
		"openshift_version": values.OpenshiftVersion,
	})

	taken, err := p.nameTaken(ctx, values.Name)
	if err != nil {
		p.telemetry.CaptureException(ctx, err, map[string]string{
			"operation": "check-cluster-name",
		})
	} else if taken {
		log.Info("cluster name already taken")
		st.SetFieldError(form.FieldName, fmt.Sprintf("Name %q is already taken.", values.Name))
		return nil
	}

	cluster, err := p.clusters.CreateCluster(ctx, values)
	if err != nil {
		log.WithError(err).Warn("failed to create cluster")
		p.handleAPIErrorForm(err, st, al)
		return nil
	}

	log.WithField("cluster_id", cluster.ID).Info("cluster created")
	p.rememberPullSecret(ctx, userID, st)

	nav.Navigate(p.ClusterPath(cluster.ID))
	return cluster
}

// Cancel leaves the page without creating anything
func (p *Page) Cancel(nav Navigator) {
	nav.Navigate(p.ClustersPath())
}

func (p *Page) nameTaken(ctx context.Context, name string) (bool, error) {
	clusters, err := p.clusters.ListClusters(ctx)
	if err != nil {
		return false, fmt.Errorf("check cluster name: %w", err)
	}

	for _, c := range clusters {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// handleAPIErrorForm raises the creation alert and applies any field-level
// details of the API error to the form
func (p *Page) handleAPIErrorForm(err error, st *form.State, al *alerts.List) {
	message := err.Error()

	if apiErr, ok := apiclient.AsAPIError(err); ok {
		message = apiErr.Error()

		for _, d := range apiErr.Details {
			field, known := apiFields[d.Field]
			if !known {
				continue
			}
			st.SetFieldError(field, d.Message)
		}

		if apiclient.IsConflict(err) && st.Errors[form.FieldName] == "" {
			st.SetFieldError(form.FieldName, fmt.Sprintf("Name %q is already taken.", st.Values.Name))
		}
	}

	al.Danger(CreateFailedTitle, message)
}

func (p *Page) rememberPullSecret(ctx context.Context, userID string, st *form.State) {
	if p.saver == nil || st.Values.PullSecret == st.Initial.PullSecret {
		return
	}

	if err := p.saver.Save(ctx, userID, st.Values.PullSecret); err != nil {
		p.telemetry.CaptureException(ctx, fmt.Errorf("save pull secret: %w", err), map[string]string{
			"operation": "save-pull-secret",
		})
	}
}
