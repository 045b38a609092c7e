package domain

// Identity is what the site reports about the session owner on the main page.
type Identity struct {
	UserID          int64
	Username        string
	CSRFToken       string
	Locale          string
	ActiveSales     int
	ActivePurchases int
	LogoutPath      string
}

func (i Identity) Valid() bool {
	return i.UserID != 0 && i.Username != ""
}
