package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Halone228/funpay-api/internal/domain"
)

func storeWith(vars map[string]string) *Store {
	return &Store{lookup: func(name string) (string, bool) {
		value, ok := vars[name]
		return value, ok
	}}
}

func TestStoreGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		vars    map[string]string
		key     string
		want    string
		missing bool
	}{
		{
			name: "account specific wins",
			vars: map[string]string{"FP_GOLDEN_KEY_MAIN": "specific", "FP_GOLDEN_KEY": "shared"},
			key:  domain.GoldenKeyRef("main"),
			want: "specific",
		},
		{
			name: "shared fallback",
			vars: map[string]string{"FP_GOLDEN_KEY": " shared \n"},
			key:  domain.GoldenKeyRef("alt-shop"),
			want: "shared",
		},
		{
			name: "account name is sanitized",
			vars: map[string]string{"FP_GOLDEN_KEY_ALT_SHOP": "alt"},
			key:  domain.GoldenKeyRef("alt-shop"),
			want: "alt",
		},
		{
			name:    "blank values are ignored",
			vars:    map[string]string{"FP_GOLDEN_KEY": "  "},
			key:     domain.GoldenKeyRef("main"),
			missing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			value, err := storeWith(tt.vars).Get(context.Background(), tt.key)
			if tt.missing {
				require.ErrorIs(t, err, domain.ErrSecretNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestStoreIsReadOnly(t *testing.T) {
	t.Parallel()

	store := storeWith(nil)
	require.ErrorIs(t, store.Put(context.Background(), domain.GoldenKeyRef("main"), "x"), ErrReadOnly)
	require.ErrorIs(t, store.Delete(context.Background(), domain.GoldenKeyRef("main")), ErrReadOnly)
}
