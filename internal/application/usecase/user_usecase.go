package usecase

import (
	"context"

	"github.com/jhoicas/estoque-pdv/internal/application/auth"
	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

// UserUseCase lecturas de usuarios (perfil del usuario autenticado).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByUsername obtiene un usuario por username. ErrNotFound si no existe.
func (uc *UserUseCase) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewFieldError(domain.ErrNotFound, "username", username, "")
	}
	return auth.ToUserResponse(user), nil
}
