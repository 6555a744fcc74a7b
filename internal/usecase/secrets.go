package usecase

import (
	"context"
	"errors"

	"github.com/zhengrowth/growth-api/internal/entity"
)

const maxSecretBytes = 8 << 10

type SecretsUseCase struct {
	Repo   entity.SecretRepositoryInterface
	Sealer Sealer
	Clock  Clock
}

func NewSecretsUseCase(repo entity.SecretRepositoryInterface, sealer Sealer) *SecretsUseCase {
	return &SecretsUseCase{Repo: repo, Sealer: sealer}
}

func (uc *SecretsUseCase) Put(ctx context.Context, name, value, actor string) (*entity.SecretView, error) {
	var errs []ValidationError
	if !entity.ValidSecretName(name) {
		errs = append(errs, ValidationError{"name", "must match ^[A-Z][A-Z0-9_]{1,63}$"})
	}
	if value == "" {
		errs = append(errs, ValidationError{"value", "is required"})
	} else if len(value) > maxSecretBytes {
		errs = append(errs, ValidationError{"value", "is too large"})
	}
	if err := validationResult(errs); err != nil {
		return nil, err
	}

	sealed, err := uc.Sealer.Seal([]byte(value))
	if err != nil {
		return nil, &TechnicalError{Code: CodeSealing, Message: "failed to seal secret", Err: err}
	}
	s := &entity.SealedSecret{Name: name, Sealed: sealed, UpdatedBy: actor, UpdatedAt: uc.Clock.now()}
	if err := uc.Repo.Put(ctx, s); err != nil {
		return nil, dbError("failed to store secret", err)
	}
	return &entity.SecretView{Name: name, Masked: entity.MaskSecret(value), UpdatedBy: actor, UpdatedAt: s.UpdatedAt}, nil
}

func (uc *SecretsUseCase) List(ctx context.Context) ([]*entity.SecretView, error) {
	stored, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, dbError("failed to list secrets", err)
	}
	out := make([]*entity.SecretView, 0, len(stored))
	for _, s := range stored {
		plain, err := uc.Sealer.Open(s.Sealed)
		if err != nil {
			return nil, &TechnicalError{Code: CodeSealing, Message: "failed to open secret " + s.Name, Err: err}
		}
		out = append(out, &entity.SecretView{
			Name:      s.Name,
			Masked:    entity.MaskSecret(string(plain)),
			UpdatedBy: s.UpdatedBy,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return out, nil
}

func (uc *SecretsUseCase) Delete(ctx context.Context, name string) error {
	if err := uc.Repo.Delete(ctx, name); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFound("secret not found")
		}
		return dbError("failed to delete secret", err)
	}
	return nil
}
