package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/catalog"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// VariableUseCase CRUD de variantes sueltas. Si la variante pertenece a un producto,
// los agregados del producto se recalculan en la misma transacción.
type VariableUseCase struct {
	repo repository.VariableRepository
	tx   inventory.TxRunner
}

// NewVariableUseCase construye el caso de uso.
func NewVariableUseCase(repo repository.VariableRepository, tx inventory.TxRunner) *VariableUseCase {
	return &VariableUseCase{repo: repo, tx: tx}
}

// Create crea una variante sin producto asociado.
func (uc *VariableUseCase) Create(in dto.VariableRequest) (*dto.VariableResponse, error) {
	now := time.Now()
	v := &entity.Variable{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	if in.SellPrice == nil {
		zero := v.SellPrice
		in.SellPrice = &zero
	}
	if err := applyVariable(v, in, true); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(v); err != nil {
		return nil, err
	}
	res := toVariableResponse(v)
	return &res, nil
}

// GetByID devuelve la variante (incluso eliminada); nil si no existe.
func (uc *VariableUseCase) GetByID(id string) (*dto.VariableResponse, error) {
	v, err := uc.repo.GetByID(id)
	if err != nil || v == nil {
		return nil, err
	}
	res := toVariableResponse(v)
	return &res, nil
}

// Update actualización parcial.
func (uc *VariableUseCase) Update(ctx context.Context, id string, in dto.VariableRequest) (*dto.VariableResponse, error) {
	var out *entity.Variable
	err := uc.tx.Run(ctx, func(s inventory.Stores) error {
		v, err := s.Variables.GetForUpdate(id)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: variante %s", domain.ErrNotFound, id)
		}
		if err := applyVariable(v, in, false); err != nil {
			return err
		}
		v.UpdatedAt = time.Now()
		if err := s.Variables.Update(v); err != nil {
			return err
		}
		out = v
		return refreshAggregates(s, v.ProductID)
	})
	if err != nil {
		return nil, err
	}
	res := toVariableResponse(out)
	return &res, nil
}

// ToggleDelete alterna la baja lógica.
func (uc *VariableUseCase) ToggleDelete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(s inventory.Stores) error {
		v, err := s.Variables.GetForUpdate(id)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: variante %s", domain.ErrNotFound, id)
		}
		if err := s.Variables.SetDeleted(id, !v.IsDelete); err != nil {
			return err
		}
		return refreshAggregates(s, v.ProductID)
	})
}

// refreshAggregates recalcula precio, stock e imagen del producto a partir de sus variantes vigentes.
func refreshAggregates(s inventory.Stores, productID string) error {
	if productID == "" {
		return nil
	}
	p, err := s.Products.GetForUpdate(productID)
	if err != nil || p == nil || !p.IsVariable {
		return err
	}
	variants, err := s.Variables.ListByProduct(productID)
	if err != nil {
		return err
	}
	catalog.ApplyVariantAggregates(p, activeOnly(variants))
	p.UpdatedAt = time.Now()
	return s.Products.Update(p)
}
