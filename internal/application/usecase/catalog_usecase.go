package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/activity"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// BrandUseCase CRUD de marcas con baja lógica.
type BrandUseCase struct {
	repo     repository.BrandRepository
	recorder *activity.Recorder
}

// NewBrandUseCase construye el caso de uso.
func NewBrandUseCase(repo repository.BrandRepository, recorder *activity.Recorder) *BrandUseCase {
	return &BrandUseCase{repo: repo, recorder: recorder}
}

// Create crea una marca; nombre repetido -> ErrDuplicate.
func (uc *BrandUseCase) Create(userID string, in dto.NameRequest) (*dto.BrandResponse, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: la marca %q ya existe", domain.ErrDuplicate, name)
	}
	now := time.Now()
	b := &entity.Brand{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(b); err != nil {
		return nil, err
	}
	uc.recorder.Record(activity.NewEntry(userID, entity.ActionCreateBrand,
		"created brand "+b.Name, b.ID, entity.RefTypeBrand, nil))
	return toBrandResponse(b), nil
}

// List devuelve las marcas vigentes, más recientes primero.
func (uc *BrandUseCase) List() ([]dto.BrandResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.BrandResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBrandResponse(b))
	}
	return out, nil
}

// Update renombra una marca.
func (uc *BrandUseCase) Update(id string, in dto.NameRequest) (*dto.BrandResponse, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	b, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	b.Name = name
	b.UpdatedAt = time.Now()
	if err := uc.repo.Update(b); err != nil {
		return nil, err
	}
	return toBrandResponse(b), nil
}

// Delete baja lógica.
func (uc *BrandUseCase) Delete(id string) error {
	return uc.repo.SoftDelete(id)
}

func toBrandResponse(b *entity.Brand) *dto.BrandResponse {
	return &dto.BrandResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}
}

// CategoryUseCase CRUD de categorías con baja lógica.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	recorder *activity.Recorder
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, recorder *activity.Recorder) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, recorder: recorder}
}

// Create crea una categoría; nombre repetido -> ErrDuplicate.
func (uc *CategoryUseCase) Create(userID string, in dto.NameRequest) (*dto.CategoryResponse, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: la categoría %q ya existe", domain.ErrDuplicate, name)
	}
	now := time.Now()
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(c); err != nil {
		return nil, err
	}
	uc.recorder.Record(activity.NewEntry(userID, entity.ActionCreateCategory,
		"created category "+c.Name, c.ID, entity.RefTypeCategory, nil))
	return toCategoryResponse(c), nil
}

// GetByID devuelve una categoría vigente; nil si no existe.
func (uc *CategoryUseCase) GetByID(id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil || c == nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// List devuelve las categorías vigentes, más recientes primero.
func (uc *CategoryUseCase) List() ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Update renombra una categoría.
func (uc *CategoryUseCase) Update(id string, in dto.NameRequest) (*dto.CategoryResponse, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Delete baja lógica.
func (uc *CategoryUseCase) Delete(id string) error {
	return uc.repo.SoftDelete(id)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
	}
	return name, nil
}
