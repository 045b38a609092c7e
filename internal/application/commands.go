package application

import (
	"context"

	"github.com/Halone228/funpay-api/internal/domain"
)

type SetAuthCommand struct {
	ID        domain.AccountID
	Name      string
	GoldenKey string
}

type RemoveAuthCommand struct {
	ID domain.AccountID
}

// InitiateFunc opens a site session with goldenKey and returns the identity
// the site reports for it.
type InitiateFunc func(ctx context.Context, goldenKey string) (domain.Identity, error)
