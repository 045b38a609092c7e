package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type accountSchema struct {
	ID      string         `toml:"id"`
	Name    string         `toml:"name"`
	Auth    authSchema     `toml:"auth"`
	Profile *profileSchema `toml:"profile,omitempty"`
}

type authSchema struct {
	Method    string `toml:"method"`
	SecretRef string `toml:"secret_ref"`
}

type profileSchema struct {
	UserID     int64  `toml:"user_id"`
	Username   string `toml:"username"`
	Locale     string `toml:"locale,omitempty"`
	VerifiedAt string `toml:"verified_at,omitempty"`
}
