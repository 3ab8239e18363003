package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// CustomerUseCase casos de uso de clientes. El teléfono identifica al cliente.
type CustomerUseCase struct {
	repo repository.CustomerRepository
	loc  *time.Location
}

// NewCustomerUseCase construye el caso de uso; loc es la zona horaria de los filtros de fecha.
func NewCustomerUseCase(repo repository.CustomerRepository, loc *time.Location) *CustomerUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &CustomerUseCase{repo: repo, loc: loc}
}

// Create registra un cliente activo.
func (uc *CustomerUseCase) Create(in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateCustomer(&in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByPhone(in.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un cliente con el teléfono %s", domain.ErrDuplicate, in.Phone)
	}
	now := time.Now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		Email:     in.Email,
		IsActive:  in.IsActive == nil || *in.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// GetByID devuelve un cliente vigente; nil si no existe.
func (uc *CustomerUseCase) GetByID(id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil || c == nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Update reemplaza los datos del cliente.
func (uc *CustomerUseCase) Update(id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateCustomer(&in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	c.Name, c.Phone, c.Address, c.Email = in.Name, in.Phone, in.Address, in.Email
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete baja lógica.
func (uc *CustomerUseCase) Delete(id string) error {
	return uc.repo.SoftDelete(id)
}

// List listado paginado con búsqueda y rango de fechas.
func (uc *CustomerUseCase) List(q dto.ListQuery) (*dto.ListResponse[dto.CustomerResponse], error) {
	list, total, err := uc.repo.List(q.Filter(time.Now().In(uc.loc)))
	if err != nil {
		return nil, err
	}
	data := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		data = append(data, *toCustomerResponse(c))
	}
	return &dto.ListResponse[dto.CustomerResponse]{Data: data, Attrs: dto.NewPageAttrs(total, q.PageRequest)}, nil
}

func validateCustomer(in *dto.CustomerRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Phone == "" {
		return fmt.Errorf("%w: name y phone son requeridos", domain.ErrInvalidInput)
	}
	return nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		Email:     c.Email,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
