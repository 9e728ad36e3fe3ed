package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estoque-pdv/internal/application/dto"
	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
	"github.com/jhoicas/estoque-pdv/pkg/clock"
	"github.com/jhoicas/estoque-pdv/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: validación de credenciales y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	clock    clock.Clock
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, clk clock.Clock) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, clock: clk}
}

// ValidateUser indica si username/password corresponden a un usuario. Usuario inexistente es false, no error.
func (uc *AuthUseCase) ValidateUser(ctx context.Context, username, password string) (bool, error) {
	user, err := uc.authenticate(ctx, username, password)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// authenticate devuelve el usuario si las credenciales son válidas; nil si no lo son.
func (uc *AuthUseCase) authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil || user == nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

// EnsureDefaultUser crea el usuario administrador si la tabla está vacía. Devuelve true si lo creó.
func (uc *AuthUseCase) EnsureDefaultUser(ctx context.Context, username, password string) (bool, error) {
	n, err := uc.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return false, domain.NewFieldError(domain.ErrValidation, "username", username, "credenciales por defecto vacías")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    uc.clock.Now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// Login verifica username/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// ToUserResponse mapea la entidad sin exponer el hash.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
