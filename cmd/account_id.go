package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Halone228/funpay-api/internal/domain"
)

const defaultAccountID domain.AccountID = "main"

var errAmbiguousAccount = errors.New("several accounts are configured, pick one with --account")

// resolveAccountID returns the requested account, or the only configured one
// when none was requested. With no accounts at all it falls back to "main".
func resolveAccountID(ctx context.Context, app *app, raw string) (domain.AccountID, error) {
	requested := strings.TrimSpace(raw)
	if requested != "" {
		return domain.AccountID(requested), nil
	}

	accounts, err := app.service.ListAccounts(ctx)
	if err != nil {
		return "", fmt.Errorf("list accounts to pick a default: %w", err)
	}

	switch len(accounts) {
	case 0:
		return defaultAccountID, nil
	case 1:
		return accounts[0].ID, nil
	default:
		return "", errAmbiguousAccount
	}
}
