package application

import (
	"time"

	"github.com/Halone228/funpay-api/internal/domain"
)

type Status struct {
	Account       domain.Account
	HasCredential bool
	Verified      bool
	Stale         bool
}

func statusFromAccount(account domain.Account, now time.Time, staleAfter time.Duration) Status {
	verified := account.Profile.Verified()
	return Status{
		Account:       account,
		HasCredential: account.Auth.Method != "" && account.Auth.SecretRef != "",
		Verified:      verified,
		Stale:         verified && domain.IsStale(account.Profile.VerifiedAt, now, staleAfter),
	}
}
