// Package pullsecret provides the sources the new-cluster page prefills the
// pull secret from.
package pullsecret

import "context"

// Source returns the previously stored pull secret of a user
type Source interface {
	Get(ctx context.Context, userID string) (secret string, found bool, err error)
}

// Saver remembers the pull secret a user submitted
type Saver interface {
	Save(ctx context.Context, userID, secret string) error
}

// Static serves the same secret to every user. An empty secret means none.
type Static struct {
	Secret string
}

// Get implements Source
func (s Static) Get(context.Context, string) (string, bool, error) {
	return s.Secret, s.Secret != "", nil
}
