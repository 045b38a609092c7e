package domain

import (
	"fmt"
	"strings"
)

type AuthMethod string

const (
	AuthMethodGoldenKey AuthMethod = "golden_key"
)

const SecretScheme = "funpay://"

type Auth struct {
	Method AuthMethod
	// SecretRef points to a secret-store entry, typically in "funpay://<account>/golden_key" form.
	SecretRef string
}

func GoldenKeyRef(id AccountID) string {
	return SecretScheme + string(id) + "/" + string(AuthMethodGoldenKey)
}

// SecretPath converts a secret ref into the slash separated path the stores
// key their entries by. Refs without the scheme are taken as paths already.
func SecretPath(ref string) (string, error) {
	path := strings.Trim(strings.TrimPrefix(strings.TrimSpace(ref), SecretScheme), "/")
	if path == "" {
		return "", fmt.Errorf("secret ref %q is empty", ref)
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("invalid secret ref %q", ref)
		}
	}
	return path, nil
}

// NormalizeGoldenKey trims a pasted golden key and rejects values that cannot
// be a cookie value.
func NormalizeGoldenKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if key == "" {
		return "", fmt.Errorf("golden key is empty")
	}
	if strings.ContainsAny(key, " \t\r\n;,\"") {
		return "", fmt.Errorf("golden key contains invalid characters")
	}
	return key, nil
}
