package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Halone228/funpay-api/internal/domain"
)

func TestStoreRoundTripByRef(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	ref := domain.GoldenKeyRef("main")

	require.NoError(t, store.Put(context.Background(), ref, "abc123\n"))

	info, err := os.Stat(filepath.Join(root, "main", "golden_key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	value, err := store.Get(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "abc123", value)

	require.NoError(t, store.Delete(context.Background(), ref))
	_, err = os.Stat(filepath.Join(root, "main"))
	assert.True(t, os.IsNotExist(err))
}

func TestStoreGetMissingSecret(t *testing.T) {
	t.Parallel()

	_, err := NewStore(t.TempDir()).Get(context.Background(), domain.GoldenKeyRef("missing"))
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteMissingSecretIsNoop(t *testing.T) {
	t.Parallel()

	require.NoError(t, NewStore(t.TempDir()).Delete(context.Background(), domain.GoldenKeyRef("missing")))
}

func TestStoreRejectsEscapingKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	for _, key := range []string{"", "funpay://", "../outside", "funpay://main/../../etc/passwd", "a//b"} {
		err := store.Put(context.Background(), key, "value")
		assert.Error(t, err, key)
	}
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore(t.TempDir()).Get(ctx, domain.GoldenKeyRef("main"))
	require.ErrorIs(t, err, context.Canceled)
}
