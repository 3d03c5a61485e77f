// Package identity provides port.Identity implementations. Session
// management itself lives with the external auth collaborator; this
// package only carries the resolved user id.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Static always reports the same user id. The CLI uses it with the
// configured cashier id; tests use it directly.
type Static struct {
	ID uuid.UUID
}

func (s Static) CurrentUserID(_ context.Context) (uuid.UUID, bool) {
	return s.ID, s.ID != uuid.Nil
}

// Anonymous never reports an identity.
type Anonymous struct{}

func (Anonymous) CurrentUserID(_ context.Context) (uuid.UUID, bool) {
	return uuid.Nil, false
}
