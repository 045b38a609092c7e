package domain

import "time"

// AccountID is the local alias an account is stored under, not the FunPay user id.
type AccountID string

type Account struct {
	ID      AccountID
	Name    string
	Auth    Auth
	Profile Profile
}

// Profile is the identity last confirmed by the site for this account.
type Profile struct {
	UserID     int64
	Username   string
	Locale     string
	VerifiedAt time.Time
}

func (p Profile) Verified() bool {
	return p.UserID != 0 && !p.VerifiedAt.IsZero()
}
