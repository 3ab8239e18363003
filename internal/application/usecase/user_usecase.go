package usecase

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// UserUseCase gestión de personal (ADMIN) y de la cuenta propia.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// ListStaff devuelve los usuarios con rol STAFF.
func (uc *UserUseCase) ListStaff() ([]dto.UserResponse, error) {
	users, err := uc.repo.ListByRole(entity.RoleStaff)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}

// UpdateStaff actualiza nombre, email o rol de un usuario.
func (uc *UserUseCase) UpdateStaff(id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.load(id)
	if err != nil {
		return nil, err
	}
	if in.Role != nil {
		if !entity.IsValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, *in.Role)
		}
		user.Role = *in.Role
	}
	return uc.save(user, in.Name, in.Email)
}

// DeleteStaff elimina un usuario.
func (uc *UserUseCase) DeleteStaff(id string) error {
	return uc.repo.Delete(id)
}

// GetProfile devuelve el perfil del usuario autenticado.
func (uc *UserUseCase) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := uc.load(userID)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// UpdateProfile cambia nombre o email propios; el email debe ser único.
func (uc *UserUseCase) UpdateProfile(userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.load(userID)
	if err != nil {
		return nil, err
	}
	return uc.save(user, in.Name, in.Email)
}

// ChangePassword valida la confirmación y la contraseña actual antes de cambiarla.
func (uc *UserUseCase) ChangePassword(userID string, in dto.ChangePasswordRequest) error {
	if in.NewPassword == "" {
		return fmt.Errorf("%w: newPassword requerido", domain.ErrInvalidInput)
	}
	if in.NewPassword != in.ConfirmPassword {
		return fmt.Errorf("%w: la confirmación no coincide", domain.ErrInvalidInput)
	}
	if in.NewPassword == in.CurrentPassword {
		return fmt.Errorf("%w: la nueva contraseña debe ser distinta a la actual", domain.ErrInvalidInput)
	}
	user, err := uc.load(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return fmt.Errorf("%w: la contraseña actual no es correcta", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), auth.BcryptCost)
	if err != nil {
		return err
	}
	return uc.repo.UpdatePassword(user.ID, string(hash))
}

func (uc *UserUseCase) load(id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *UserUseCase) save(user *entity.User, name, email *string) (*dto.UserResponse, error) {
	if name != nil {
		if n := strings.TrimSpace(*name); n != "" {
			user.Name = n
		}
	}
	if email != nil {
		e := strings.ToLower(strings.TrimSpace(*email))
		if e == "" {
			return nil, fmt.Errorf("%w: email vacío", domain.ErrInvalidInput)
		}
		if e != user.Email {
			other, err := uc.repo.GetByEmail(e)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, domain.ErrEmailAlreadyExists
			}
		}
		user.Email = e
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}
