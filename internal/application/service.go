// Package application holds the account use cases behind the CLI: storing
// golden keys, resolving them for a session and remembering who they belong to.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
)

var ErrNoCredential = errors.New("account has no stored golden key")

type Service struct {
	repo  ports.AccountRepository
	store ports.SecretStore
	clock ports.Clock
}

func NewService(repo ports.AccountRepository, store ports.SecretStore, clock ports.Clock) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Service{
		repo:  repo,
		store: store,
		clock: clock,
	}
}

// SetAuth stores the golden key for id, creating the account on first use.
// A key rotation clears the verified profile, which belongs to the old key.
func (s *Service) SetAuth(ctx context.Context, cmd SetAuthCommand) error {
	goldenKey, err := domain.NormalizeGoldenKey(cmd.GoldenKey)
	if err != nil {
		return err
	}

	account, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("get account by id: %w", err)
		}
		account = domain.Account{ID: cmd.ID, Name: fmt.Sprintf("Account %s", cmd.ID)}
	}
	originalAccount := account
	previousSecretRef := account.Auth.SecretRef
	secretRef := domain.GoldenKeyRef(cmd.ID)

	if err := s.store.Put(ctx, secretRef, goldenKey); err != nil {
		return fmt.Errorf("store golden key: %w", err)
	}

	account.Auth = domain.Auth{Method: domain.AuthMethodGoldenKey, SecretRef: secretRef}
	account.Profile = domain.Profile{}
	if name := strings.TrimSpace(cmd.Name); name != "" {
		account.Name = name
	}

	if err := s.repo.Save(ctx, account); err != nil {
		if rollbackErr := s.store.Delete(ctx, secretRef); rollbackErr != nil {
			return fmt.Errorf("save account auth and rollback stored secret: %w", errors.Join(err, rollbackErr))
		}

		return fmt.Errorf("save account auth: %w", err)
	}

	if previousSecretRef == "" || previousSecretRef == secretRef {
		return nil
	}
	if err := s.store.Delete(ctx, previousSecretRef); err != nil {
		var rollbackErr error
		if restoreErr := s.repo.Save(ctx, originalAccount); restoreErr != nil {
			rollbackErr = errors.Join(rollbackErr, restoreErr)
		}
		if newSecretDeleteErr := s.store.Delete(ctx, secretRef); newSecretDeleteErr != nil {
			rollbackErr = errors.Join(rollbackErr, newSecretDeleteErr)
		}
		if rollbackErr != nil {
			return fmt.Errorf("delete previous golden key and rollback auth update: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("delete previous golden key: %w", err)
	}

	return nil
}

// RemoveAuth forgets the golden key of id but keeps the account entry.
func (s *Service) RemoveAuth(ctx context.Context, cmd RemoveAuthCommand) error {
	account, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}
	originalAccount := account
	secretRef := account.Auth.SecretRef

	account.Auth = domain.Auth{}
	account.Profile = domain.Profile{}

	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account auth: %w", err)
	}

	if secretRef == "" {
		return nil
	}

	if err := s.store.Delete(ctx, secretRef); err != nil {
		if restoreErr := s.repo.Save(ctx, originalAccount); restoreErr != nil {
			return fmt.Errorf("delete golden key and restore account: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete golden key: %w", err)
	}

	return nil
}

// RemoveAccount deletes the account entry together with its golden key.
func (s *Service) RemoveAccount(ctx context.Context, id domain.AccountID) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}

	if account.Auth.SecretRef != "" {
		if err := s.store.Delete(ctx, account.Auth.SecretRef); err != nil {
			return fmt.Errorf("delete golden key: %w", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	return nil
}

func (s *Service) SetAccountName(ctx context.Context, id domain.AccountID, name string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}

	account.Name = name

	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account name: %w", err)
	}

	return nil
}

// Credential resolves the golden key stored for id.
func (s *Service) Credential(ctx context.Context, id domain.AccountID) (string, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get account by id: %w", err)
	}
	if account.Auth.Method != domain.AuthMethodGoldenKey || account.Auth.SecretRef == "" {
		return "", fmt.Errorf("account %s: %w", id, ErrNoCredential)
	}

	value, err := s.store.Get(ctx, account.Auth.SecretRef)
	if err != nil {
		return "", fmt.Errorf("load golden key for account %s: %w", id, err)
	}

	return domain.NormalizeGoldenKey(value)
}

// RecordIdentity remembers who the golden key of id belongs to.
func (s *Service) RecordIdentity(ctx context.Context, id domain.AccountID, identity domain.Identity) (domain.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}

	account.Profile = domain.Profile{
		UserID:     identity.UserID,
		Username:   identity.Username,
		Locale:     identity.Locale,
		VerifiedAt: s.clock.Now(),
	}

	if err := s.repo.Save(ctx, account); err != nil {
		return domain.Account{}, fmt.Errorf("save account profile: %w", err)
	}

	return account, nil
}

// Verify opens a session for id through initiate. A rejected golden key
// clears the stored profile so the account no longer shows as verified.
func (s *Service) Verify(ctx context.Context, id domain.AccountID, initiate InitiateFunc) (domain.Account, domain.Identity, error) {
	goldenKey, err := s.Credential(ctx, id)
	if err != nil {
		return domain.Account{}, domain.Identity{}, err
	}

	identity, err := initiate(ctx, goldenKey)
	if err != nil {
		if domain.IsAuthentication(err) {
			if clearErr := s.clearProfile(ctx, id); clearErr != nil {
				return domain.Account{}, domain.Identity{}, errors.Join(err, clearErr)
			}
		}
		return domain.Account{}, domain.Identity{}, err
	}

	account, err := s.RecordIdentity(ctx, id, identity)
	if err != nil {
		return domain.Account{}, identity, err
	}

	return account, identity, nil
}

func (s *Service) clearProfile(ctx context.Context, id domain.AccountID) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}
	if account.Profile == (domain.Profile{}) {
		return nil
	}

	account.Profile = domain.Profile{}
	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("clear account profile: %w", err)
	}

	return nil
}

func (s *Service) GetAccount(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}

	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, nil
}

// GetStatusAll reports every account with its verification state; a
// verification older than staleAfter is flagged stale.
func (s *Service) GetStatusAll(ctx context.Context, staleAfter time.Duration) ([]Status, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	statuses := make([]Status, 0, len(accounts))
	for _, account := range accounts {
		statuses = append(statuses, statusFromAccount(account, now, staleAfter))
	}

	return statuses, nil
}
