package entity

import (
	"context"
	"regexp"
	"time"
)

var secretNamePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,63}$`)

func ValidSecretName(name string) bool {
	return secretNamePattern.MatchString(name)
}

type SealedSecret struct {
	Name      string
	Sealed    []byte
	UpdatedBy string
	UpdatedAt time.Time
}

type SecretView struct {
	Name      string    `json:"name"`
	Masked    string    `json:"masked"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MaskSecret keeps only the last four characters visible.
func MaskSecret(plain string) string {
	r := []rune(plain)
	if len(r) <= 4 {
		return "••••"
	}
	return "••••" + string(r[len(r)-4:])
}

type SecretRepositoryInterface interface {
	Put(ctx context.Context, s *SealedSecret) error
	List(ctx context.Context) ([]*SealedSecret, error)
	Delete(ctx context.Context, name string) error
}
