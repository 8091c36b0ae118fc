package service

import (
	"context"
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages operator accounts.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) List(ctx context.Context, page, limit int, filters map[string]string) ([]entity.User, int64, error) {
	return s.userRepo.FindAll(ctx, page, limit, filters)
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// CreateUserRequest is the admin user-creation payload.
type CreateUserRequest struct {
	Nombre string `json:"nombre" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Clave  string `json:"clave" binding:"required,min=8"`
	Rol    string `json:"rol" binding:"required"`
}

func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*entity.User, error) {
	if !entity.IsValidRole(req.Rol) {
		return nil, NewValidationError("rol inválido: %s", req.Rol)
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, NewConflictError("ya existe un usuario con el email %s", req.Email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Clave), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:     uuid.New().String()[:32],
		Nombre: req.Nombre,
		Email:  req.Email,
		Clave:  string(hash),
		Rol:    req.Rol,
		Activo: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserRequest is the partial-update payload. Nil fields are untouched.
type UpdateUserRequest struct {
	Nombre *string `json:"nombre"`
	Email  *string `json:"email"`
	Rol    *string `json:"rol"`
	Activo *bool   `json:"activo"`
}

func (s *UserService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Rol != nil {
		if !entity.IsValidRole(*req.Rol) {
			return nil, NewValidationError("rol inválido: %s", *req.Rol)
		}
		user.Rol = *req.Rol
	}
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(ctx, *req.Email); err == nil {
			return nil, NewConflictError("ya existe un usuario con el email %s", *req.Email)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Nombre != nil {
		user.Nombre = *req.Nombre
	}
	if req.Activo != nil {
		user.Activo = *req.Activo
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive flips the account flag. Deactivated users fail the per-request
// lookup in the auth middleware immediately, even with a live token.
func (s *UserService) SetActive(ctx context.Context, id string, activo bool) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Activo = activo
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePasswordRequest carries the current and replacement password.
type ChangePasswordRequest struct {
	ClaveActual string `json:"clave_actual" binding:"required"`
	ClaveNueva  string `json:"clave_nueva" binding:"required,min=8"`
}

func (s *UserService) ChangePassword(ctx context.Context, id string, req *ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Clave), []byte(req.ClaveActual)) != nil {
		return NewValidationError("la clave actual no es correcta")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.ClaveNueva), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Clave = string(hash)
	return s.userRepo.Update(ctx, user)
}

// ResetPassword replaces a user's password without checking the current one.
// Reserved for admin recovery of other accounts.
func (s *UserService) ResetPassword(ctx context.Context, id, claveNueva string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(claveNueva), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Clave = string(hash)
	return s.userRepo.Update(ctx, user)
}
