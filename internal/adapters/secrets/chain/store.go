// Package chain layers secret stores: reads fall through in order, writes land
// in the first store that accepts them.
package chain

import (
	"context"
	"errors"
	"fmt"

	envstore "github.com/Halone228/funpay-api/internal/adapters/secrets/env"
	filestore "github.com/Halone228/funpay-api/internal/adapters/secrets/file"
	passstore "github.com/Halone228/funpay-api/internal/adapters/secrets/pass"
	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
)

type Store struct {
	backends []ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNoBackends = errors.New("secret store chain has no backends")
	errNilBackend = errors.New("secret store chain backend is nil")
	errNoWritable = errors.New("no writable secret backend")
)

func NewStore(backends ...ports.SecretStore) *Store {
	store, err := NewStoreChecked(backends...)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(backends ...ports.SecretStore) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend == nil {
			return nil, fmt.Errorf("backend %d: %w", i, errNilBackend)
		}
	}

	return &Store{backends: backends}, nil
}

// NewDefault reads from the environment first, then pass, then files under
// fileRoot. Writes go to pass when it is installed and to files otherwise.
func NewDefault(fileRoot string) (*Store, error) {
	return NewStoreChecked(envstore.NewStore(), passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for i, backend := range s.backends {
		value, err := backend.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldSkipFallback(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("backend %d get failed: %w", i, err))
	}

	return "", errors.Join(errs...)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	var errs []error
	for i, backend := range s.backends {
		err := backend.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if shouldSkipFallback(err) {
			return err
		}
		if errors.Is(err, envstore.ErrReadOnly) {
			continue
		}
		errs = append(errs, fmt.Errorf("backend %d put failed: %w", i, err))
	}

	if len(errs) == 0 {
		return errNoWritable
	}
	return errors.Join(errs...)
}

// Delete removes key from every backend, since earlier writes may have landed
// in any of them.
func (s *Store) Delete(ctx context.Context, key string) error {
	var errs []error
	deleted := false
	for i, backend := range s.backends {
		err := backend.Delete(ctx, key)
		switch {
		case err == nil:
			deleted = true
		case shouldSkipFallback(err):
			return err
		case errors.Is(err, envstore.ErrReadOnly), errors.Is(err, domain.ErrSecretNotFound), errors.Is(err, passstore.ErrUnavailable):
		default:
			errs = append(errs, fmt.Errorf("backend %d delete failed: %w", i, err))
		}
	}

	if deleted {
		return nil
	}
	return errors.Join(errs...)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
