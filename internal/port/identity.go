package port

import (
	"context"

	"github.com/google/uuid"
)

// Identity supplies the acting user's id from an external auth
// collaborator. The sale recorder refuses to run without one.
type Identity interface {
	CurrentUserID(ctx context.Context) (uuid.UUID, bool)
}
