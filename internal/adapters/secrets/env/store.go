// Package env resolves golden keys from environment variables. It is
// read-only and meant to sit in front of the persistent stores.
package env

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
)

const Prefix = "FP_"

var ErrReadOnly = errors.New("environment secret store is read-only")

type Store struct {
	lookup func(string) (string, bool)
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{lookup: os.LookupEnv}
}

// Get checks FP_<SECRET>_<ACCOUNT> first and then FP_<SECRET>, so
// "funpay://main/golden_key" resolves from FP_GOLDEN_KEY_MAIN or FP_GOLDEN_KEY.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	names, err := variableNames(key)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if value, ok := s.lookup(name); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), nil
		}
	}

	return "", fmt.Errorf("env secret %s: %w", strings.Join(names, ", "), domain.ErrSecretNotFound)
}

func (s *Store) Put(context.Context, string, string) error {
	return ErrReadOnly
}

func (s *Store) Delete(context.Context, string) error {
	return ErrReadOnly
}

func variableNames(key string) ([]string, error) {
	path, err := domain.SecretPath(key)
	if err != nil {
		return nil, err
	}

	segments := strings.Split(path, "/")
	secret := Prefix + envName(segments[len(segments)-1])
	if len(segments) == 1 {
		return []string{secret}, nil
	}
	return []string{secret + "_" + envName(strings.Join(segments[:len(segments)-1], "_")), secret}, nil
}

func envName(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, value)
}
