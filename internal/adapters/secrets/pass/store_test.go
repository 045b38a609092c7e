package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Halone228/funpay-api/internal/domain"
)

func TestStorePutUsesPassInsertUnderPrefix(t *testing.T) {
	t.Parallel()

	called := false
	store := &Store{
		prefix: DefaultPrefix,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, context.Background(), ctx)
			assert.Equal(t, []string{"insert", "-m", "-f", "funpay/main/golden_key"}, args)
			assert.Equal(t, "top-secret\n", input)
			return "", "", nil
		},
	}

	err := store.Put(context.Background(), domain.GoldenKeyRef("main"), "top-secret")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{
		prefix: DefaultPrefix,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "funpay/main/golden_key"}, args)
			assert.Empty(t, input)
			return "top-secret\r\nuser: seller42\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), domain.GoldenKeyRef("main"))
	require.NoError(t, err)
	assert.Equal(t, "top-secret", value)
}

func TestStoreGetMapsMissingEntry(t *testing.T) {
	t.Parallel()

	store := &Store{
		prefix: DefaultPrefix,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "Error: funpay/main/golden_key is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), domain.GoldenKeyRef("main"))
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "funpay/main/golden_key")
}

func TestStoreDeleteIgnoresMissingEntry(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"rm", "-f", "main/golden_key"}, args)
			return "", "Error: main/golden_key is not in the password store.", errors.New("exit status 1")
		},
	}

	require.NoError(t, store.Delete(context.Background(), domain.GoldenKeyRef("main")))
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := &Store{
		prefix: DefaultPrefix,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "gpg: decryption failed: No secret key", errors.New("exit status 2")
		},
	}

	_, err := store.Get(context.Background(), domain.GoldenKeyRef("main"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "decryption failed")
}

func TestStoreRejectsInvalidRef(t *testing.T) {
	t.Parallel()

	store := &Store{run: func(context.Context, string, ...string) (string, string, error) {
		t.Fatal("pass must not run for an invalid ref")
		return "", "", nil
	}}

	_, err := store.Get(context.Background(), "funpay://../x")
	require.Error(t, err)
}
