package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Halone228/funpay-api/internal/domain"
)

func newTestRepository(t *testing.T, accountsPath string) *Repository {
	t.Helper()
	config := viper.New()
	config.Set(AccountsPathKey, accountsPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "accounts.toml"))

	first := domain.Account{
		ID:   "main",
		Name: "Main shop",
		Auth: domain.Auth{Method: domain.AuthMethodGoldenKey, SecretRef: "funpay://main/golden_key"},
		Profile: domain.Profile{
			UserID:     42,
			Username:   "seller42",
			Locale:     "en",
			VerifiedAt: time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC),
		},
	}
	second := domain.Account{
		ID:   "alt",
		Name: "Second shop",
		Auth: domain.Auth{Method: domain.AuthMethodGoldenKey, SecretRef: "funpay://alt/golden_key"},
	}

	require.NoError(t, repo.Save(context.Background(), first))
	require.NoError(t, repo.Save(context.Background(), second))

	got, err := repo.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Account{first, second}, accounts)
}

func TestRepositorySaveReplacesExistingAccount(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "accounts.toml"))

	require.NoError(t, repo.Save(context.Background(), domain.Account{ID: "main", Name: "Old"}))
	require.NoError(t, repo.Save(context.Background(), domain.Account{ID: "main", Name: "New"}))

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "New", accounts[0].Name)
}

func TestRepositoryDelete(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "accounts.toml"))
	require.NoError(t, repo.Save(context.Background(), domain.Account{ID: "main"}))
	require.NoError(t, repo.Save(context.Background(), domain.Account{ID: "alt"}))

	require.NoError(t, repo.Delete(context.Background(), "main"))
	require.ErrorIs(t, repo.Delete(context.Background(), "main"), domain.ErrAccountNotFound)

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, domain.AccountID("alt"), accounts[0].ID)
}

func TestRepositoryReadsAccountWithoutProfile(t *testing.T) {
	t.Parallel()

	accountsPath := filepath.Join(t.TempDir(), "accounts.toml")
	require.NoError(t, os.WriteFile(accountsPath, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[[accounts]]",
		"id = \"main\"",
		"name = \"Main shop\"",
		"",
		"[accounts.auth]",
		"method = \"golden_key\"",
		"secret_ref = \"funpay://main/golden_key\"",
		"",
	}, "\n")), 0o600))

	repo := newTestRepository(t, accountsPath)

	account, err := repo.GetByID(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, domain.AuthMethodGoldenKey, account.Auth.Method)
	assert.False(t, account.Profile.Verified())
}

func TestRepositorySaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), domain.Account{ID: "main", Name: "Main shop"}))

	accountsPath := filepath.Join(homeDir, ".funpay", "accounts.toml")
	assert.Equal(t, accountsPath, repo.Path())
	info, err := os.Stat(accountsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "accounts.toml"))

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)

	_, err = repo.GetByID(context.Background(), "main")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestRepositoryListMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	accountsPath := filepath.Join(t.TempDir(), "accounts.toml")
	require.NoError(t, os.WriteFile(accountsPath, []byte("accounts = ["), 0o600))

	_, err := newTestRepository(t, accountsPath).List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode accounts file")
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "accounts.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, domain.Account{ID: "main"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryConcurrentSavesAcrossInstancesPreserveBothAccounts(t *testing.T) {
	t.Parallel()

	accountsPath := filepath.Join(t.TempDir(), "accounts.toml")
	repoA := newTestRepository(t, accountsPath)
	repoB := newTestRepository(t, accountsPath)

	const perRepoWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	for prefix, repo := range map[string]*Repository{"a": repoA, "b": repoB} {
		go func() {
			defer wg.Done()
			<-start
			for i := range perRepoWrites {
				errCh <- repo.Save(context.Background(), domain.Account{ID: domain.AccountID(prefix + "-" + strconv.Itoa(i))})
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	accounts, err := repoA.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, perRepoWrites*2)
}

func TestRepositorySaveSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	accountsPath := filepath.Join(t.TempDir(), "accounts.toml")
	repo := newTestRepository(t, accountsPath)

	require.NoError(t, repo.Save(context.Background(), domain.Account{ID: "main", Name: "Main shop"}))

	data, err := os.ReadFile(accountsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.NotContains(t, string(data), "[accounts.profile]")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	accountsPath := filepath.Join(t.TempDir(), "accounts.toml")
	require.NoError(t, os.WriteFile(accountsPath, []byte("version = 999\n\naccounts = []\n"), 0o600))

	_, err := newTestRepository(t, accountsPath).List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported accounts schema version")
}
