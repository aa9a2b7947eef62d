package types

import "time"

// ClusterStatus is the lifecycle state the API reports for a cluster,
// e.g. PENDING right after creation
type ClusterStatus string

// Cluster represents a cluster record as returned by the cluster-management API
type Cluster struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	OpenshiftVersion string        `json:"openshift_version"`
	Status           ClusterStatus `json:"status"`
	Owner            string        `json:"owner,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// ClusterCreateParams is the payload of a cluster creation request.
// It only lives as form state until it is submitted.
type ClusterCreateParams struct {
	Name             string `json:"name" form:"name" validate:"required,clustername"`
	OpenshiftVersion string `json:"openshift_version" form:"openshiftVersion" validate:"required,versionselected"`
	PullSecret       string `json:"pull_secret" form:"pullSecret" validate:"required,json,pullsecret"`
}
