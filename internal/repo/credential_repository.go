package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/financial-planner-server/internal/models"
)

var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository maps a user id to the aggregator access credential stored for it.
// Implementations must be safe for concurrent use and must make a Set visible to the
// next Get issued by the same process.
type CredentialRepository interface {
	Get(ctx context.Context, userID string) (models.Credential, error)
	Set(ctx context.Context, cred models.Credential) error
	Delete(ctx context.Context, userID string) error
}
