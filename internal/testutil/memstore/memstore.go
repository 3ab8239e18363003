// Package memstore implementa los puertos de persistencia en memoria para tests de casos de uso.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// DB estado compartido por todos los repositorios en memoria.
type DB struct {
	mu         sync.Mutex
	users      map[string]*entity.User
	brands     map[string]*entity.Brand
	categories map[string]*entity.Category
	customers  map[string]*entity.Customer
	products   map[string]*entity.Product
	variables  map[string]*entity.Variable
	orders     map[string]*entity.Order
	histories  []*entity.HistorySerial
	movements  []*entity.StockMovement
	logs       []*entity.ActivityLog
	seq        int64

	// FailOn fuerza un error en la operación indicada (ej. "orders.create").
	FailOn map[string]error
}

// New crea una base vacía.
func New() *DB {
	return &DB{
		users:      map[string]*entity.User{},
		brands:     map[string]*entity.Brand{},
		categories: map[string]*entity.Category{},
		customers:  map[string]*entity.Customer{},
		products:   map[string]*entity.Product{},
		variables:  map[string]*entity.Variable{},
		orders:     map[string]*entity.Order{},
		FailOn:     map[string]error{},
	}
}

func (db *DB) fail(op string) error {
	return db.FailOn[op]
}

// Stores repositorios de la base (mismo estado, sin aislamiento).
func (db *DB) Stores() inventory.Stores {
	return inventory.Stores{
		Products:       db.Products(),
		Variables:      db.Variables(),
		Orders:         db.Orders(),
		HistorySerials: db.HistorySerials(),
		StockMovements: db.StockMovements(),
		ActivityLogs:   db.ActivityLogs(),
	}
}

// Run implementa inventory.TxRunner: si fn falla se restaura el estado previo.
func (db *DB) Run(_ context.Context, fn func(s inventory.Stores) error) error {
	snap := db.snapshot()
	if err := fn(db.Stores()); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	products  map[string]*entity.Product
	variables map[string]*entity.Variable
	orders    map[string]*entity.Order
	histories []*entity.HistorySerial
	movements []*entity.StockMovement
	logs      []*entity.ActivityLog
}

func (db *DB) snapshot() snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := snapshot{
		products:  make(map[string]*entity.Product, len(db.products)),
		variables: make(map[string]*entity.Variable, len(db.variables)),
		orders:    make(map[string]*entity.Order, len(db.orders)),
		histories: append([]*entity.HistorySerial(nil), db.histories...),
		movements: append([]*entity.StockMovement(nil), db.movements...),
		logs:      append([]*entity.ActivityLog(nil), db.logs...),
	}
	for k, v := range db.products {
		s.products[k] = cloneProduct(v)
	}
	for k, v := range db.variables {
		s.variables[k] = cloneVariable(v)
	}
	for k, v := range db.orders {
		s.orders[k] = cloneOrder(v)
	}
	return s
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.products, db.variables, db.orders = s.products, s.variables, s.orders
	db.histories, db.movements, db.logs = s.histories, s.movements, s.logs
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	c.ListImage = cloneStrings(p.ListImage)
	c.Serials = cloneStrings(p.Serials)
	c.Variables = nil
	return &c
}

func cloneVariable(v *entity.Variable) *entity.Variable {
	c := *v
	c.Attributes = append([]entity.Attribute(nil), v.Attributes...)
	c.ListImage = cloneStrings(v.ListImage)
	c.Serials = cloneStrings(v.Serials)
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = make([]*entity.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		cp := *it
		c.Items = append(c.Items, &cp)
	}
	return &c
}

func inRange(t time.Time, f repository.ListFilter) bool {
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	return true
}

func matches(keyword string, fields ...string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), kw) {
			return true
		}
	}
	return false
}

// page ordena por fecha (desc por defecto) y aplica limit/offset.
func page[T any](items []T, created func(T) time.Time, f repository.ListFilter) []T {
	sort.SliceStable(items, func(i, j int) bool {
		if f.SortAsc {
			return created(items[i]).Before(created(items[j]))
		}
		return created(items[i]).After(created(items[j]))
	})
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	if f.Offset >= len(items) {
		return []T{}
	}
	end := f.Offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[f.Offset:end]
}

// ── Users ────────────────────────────────────────────────────────────────────

type users struct{ db *DB }

// Users repositorio de usuarios.
func (db *DB) Users() repository.UserRepository { return users{db} }

func (r users) Create(u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, x := range r.db.users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	r.db.users[u.ID] = &c
	return nil
}

func (r users) GetByID(id string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r users) GetByEmail(email string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r users) Update(u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for _, x := range r.db.users {
		if x.ID != u.ID && strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cur.Name, cur.Email, cur.Role, cur.UpdatedAt = u.Name, u.Email, u.Role, u.UpdatedAt
	return nil
}

func (r users) UpdatePassword(id, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r users) UpdateRefreshToken(id, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshTokenHash = hash
	return nil
}

func (r users) ListByRole(role string) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.User
	for _, u := range r.db.users {
		if u.Role == role {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r users) Delete(id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.db.users, id)
	return nil
}

// ── Brands / Categories ─────────────────────────────────────────────────────

type brands struct{ db *DB }

// Brands repositorio de marcas.
func (db *DB) Brands() repository.BrandRepository { return brands{db} }

func (r brands) Create(b *entity.Brand) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, x := range r.db.brands {
		if x.Name == b.Name {
			return domain.ErrDuplicate
		}
	}
	c := *b
	r.db.brands[b.ID] = &c
	return nil
}

func (r brands) GetByID(id string) (*entity.Brand, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if b, ok := r.db.brands[id]; ok && !b.IsDelete {
		c := *b
		return &c, nil
	}
	return nil, nil
}

func (r brands) GetByName(name string) (*entity.Brand, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.brands {
		if b.Name == name {
			c := *b
			return &c, nil
		}
	}
	return nil, nil
}

func (r brands) Update(b *entity.Brand) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.brands[b.ID]
	if !ok || cur.IsDelete {
		return domain.ErrNotFound
	}
	for _, x := range r.db.brands {
		if x.ID != b.ID && x.Name == b.Name {
			return domain.ErrDuplicate
		}
	}
	cur.Name, cur.UpdatedAt = b.Name, b.UpdatedAt
	return nil
}

func (r brands) List() ([]*entity.Brand, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Brand
	for _, b := range r.db.brands {
		if !b.IsDelete {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r brands) SoftDelete(id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.brands[id]
	if !ok || b.IsDelete {
		return domain.ErrNotFound
	}
	b.IsDelete = true
	return nil
}

type categories struct{ db *DB }

// Categories repositorio de categorías.
func (db *DB) Categories() repository.CategoryRepository { return categories{db} }

func (r categories) Create(c *entity.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, x := range r.db.categories {
		if x.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.db.categories[c.ID] = &cp
	return nil
}

func (r categories) GetByID(id string) (*entity.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.categories[id]; ok && !c.IsDelete {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r categories) GetByName(name string) (*entity.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r categories) Update(c *entity.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.categories[c.ID]
	if !ok || cur.IsDelete {
		return domain.ErrNotFound
	}
	for _, x := range r.db.categories {
		if x.ID != c.ID && x.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cur.Name, cur.UpdatedAt = c.Name, c.UpdatedAt
	return nil
}

func (r categories) List() ([]*entity.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.db.categories {
		if !c.IsDelete {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r categories) SoftDelete(id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.categories[id]
	if !ok || c.IsDelete {
		return domain.ErrNotFound
	}
	c.IsDelete = true
	return nil
}

// ── Customers ───────────────────────────────────────────────────────────────

type customers struct{ db *DB }

// Customers repositorio de clientes.
func (db *DB) Customers() repository.CustomerRepository { return customers{db} }

func (r customers) Create(c *entity.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, x := range r.db.customers {
		if !x.IsDelete && x.Phone == c.Phone {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.db.customers[c.ID] = &cp
	return nil
}

func (r customers) GetByID(id string) (*entity.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.customers[id]; ok && !c.IsDelete {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r customers) GetByPhone(phone string) (*entity.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.customers {
		if !c.IsDelete && c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r customers) Update(c *entity.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.customers[c.ID]
	if !ok || cur.IsDelete {
		return domain.ErrNotFound
	}
	for _, x := range r.db.customers {
		if x.ID != c.ID && !x.IsDelete && x.Phone == c.Phone {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.db.customers[c.ID] = &cp
	return nil
}

func (r customers) SoftDelete(id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.customers[id]
	if !ok || c.IsDelete {
		return domain.ErrNotFound
	}
	c.IsDelete = true
	return nil
}

func (r customers) List(f repository.ListFilter) ([]*entity.Customer, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Customer
	for _, c := range r.db.customers {
		if !c.IsDelete && inRange(c.CreatedAt, f) && matches(f.Keyword, c.Name, c.Phone, c.Email, c.Address) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return page(out, func(c *entity.Customer) time.Time { return c.CreatedAt }, f), len(out), nil
}

// ── Products / Variables ────────────────────────────────────────────────────

type products struct{ db *DB }

// Products repositorio de productos.
func (db *DB) Products() repository.ProductRepository { return products{db} }

func (r products) barcodeTaken(barcode, excludeID string) bool {
	for _, p := range r.db.products {
		if !p.IsDelete && p.Barcode == barcode && p.ID != excludeID {
			return true
		}
	}
	return false
}

func (r products) Create(p *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("products.create"); err != nil {
		return err
	}
	if r.barcodeTaken(p.Barcode, "") {
		return domain.ErrBarcodeTaken
	}
	r.db.products[p.ID] = cloneProduct(p)
	return nil
}

func (r products) get(id string) (*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.products[id]; ok {
		return cloneProduct(p), nil
	}
	return nil, nil
}

func (r products) GetByID(id string) (*entity.Product, error)      { return r.get(id) }
func (r products) GetForUpdate(id string) (*entity.Product, error) { return r.get(id) }

func (r products) GetActiveByBarcode(barcode, excludeID string) (*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.products {
		if !p.IsDelete && p.Barcode == barcode && p.ID != excludeID {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r products) ListBarcodes() ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []string
	for _, p := range r.db.products {
		if !p.IsDelete {
			out = append(out, p.Barcode)
		}
	}
	return out, nil
}

func (r products) ExistingIDs(ids []string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []string
	for _, id := range ids {
		if _, ok := r.db.products[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r products) Update(p *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.barcodeTaken(p.Barcode, p.ID) {
		return domain.ErrBarcodeTaken
	}
	c := cloneProduct(p)
	c.IsDelete = cur.IsDelete
	r.db.products[p.ID] = c
	return nil
}

func (r products) UpdateStock(id string, stock int, serials []string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.products[id]; ok {
		p.Stock = stock
		p.Serials = cloneStrings(serials)
	}
	return nil
}

func (r products) UpdateCost(id string, cost decimal.Decimal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.products[id]; ok {
		p.CostPrice = cost
	}
	return nil
}

func (r products) SetDeleted(ids []string, deleted bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, id := range ids {
		p, ok := r.db.products[id]
		if !ok {
			continue
		}
		if !deleted && r.barcodeTaken(p.Barcode, p.ID) {
			return domain.ErrBarcodeTaken
		}
		p.IsDelete = deleted
	}
	return nil
}

func (r products) List(f repository.ListFilter) ([]*entity.Product, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.db.products {
		if !p.IsDelete && inRange(p.CreatedAt, f) && matches(f.Keyword, p.Name, p.Barcode, strings.Join(p.Serials, " ")) {
			out = append(out, cloneProduct(p))
		}
	}
	return page(out, func(p *entity.Product) time.Time { return p.CreatedAt }, f), len(out), nil
}

// Product acceso directo para asserts.
func (db *DB) Product(id string) *entity.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	if p, ok := db.products[id]; ok {
		return cloneProduct(p)
	}
	return nil
}

type variables struct{ db *DB }

// Variables repositorio de variantes.
func (db *DB) Variables() repository.VariableRepository { return variables{db} }

func (r variables) Create(v *entity.Variable) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.variables[v.ID] = cloneVariable(v)
	return nil
}

func (r variables) get(id string) (*entity.Variable, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if v, ok := r.db.variables[id]; ok {
		return cloneVariable(v), nil
	}
	return nil, nil
}

func (r variables) GetByID(id string) (*entity.Variable, error)      { return r.get(id) }
func (r variables) GetForUpdate(id string) (*entity.Variable, error) { return r.get(id) }

func (r variables) Update(v *entity.Variable) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.variables[v.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.variables[v.ID] = cloneVariable(v)
	return nil
}

func (r variables) UpdateStock(id string, stock int, serials []string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if v, ok := r.db.variables[id]; ok {
		v.Stock = stock
		v.Serials = cloneStrings(serials)
	}
	return nil
}

func (r variables) UpdateCost(id string, cost decimal.Decimal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if v, ok := r.db.variables[id]; ok {
		v.CostPrice = cost
	}
	return nil
}

func (r variables) SetDeleted(id string, deleted bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.variables[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.IsDelete = deleted
	return nil
}

func (r variables) ListByProduct(productID string) ([]*entity.Variable, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Variable
	for _, v := range r.db.variables {
		if v.ProductID == productID {
			out = append(out, cloneVariable(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Variable acceso directo para asserts.
func (db *DB) Variable(id string) *entity.Variable {
	db.mu.Lock()
	defer db.mu.Unlock()
	if v, ok := db.variables[id]; ok {
		return cloneVariable(v)
	}
	return nil
}

// ── Orders ──────────────────────────────────────────────────────────────────

type orders struct{ db *DB }

// Orders repositorio de órdenes.
func (db *DB) Orders() repository.OrderRepository { return orders{db} }

func (r orders) NextNumber() (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.seq++
	return r.db.seq, nil
}

func (r orders) Create(o *entity.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("orders.create"); err != nil {
		return err
	}
	for i, it := range o.Items {
		it.OrderID = o.ID
		it.Position = i
	}
	r.db.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r orders) get(id string) (*entity.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if o, ok := r.db.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, nil
}

func (r orders) GetByID(id string) (*entity.Order, error)      { return r.get(id) }
func (r orders) GetForUpdate(id string) (*entity.Order, error) { return r.get(id) }

func (r orders) UpdateSettlement(o *entity.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	items := cur.Items
	c := cloneOrder(o)
	c.Items = items
	r.db.orders[o.ID] = c
	return nil
}

func (r orders) List(f repository.ListFilter) ([]*entity.Order, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.db.orders {
		if o.IsDelete || !inRange(o.CreatedAt, f) {
			continue
		}
		if len(f.Statuses) > 0 && !containsString(f.Statuses, o.PaymentStatus) {
			continue
		}
		fields := []string{o.CustomerName, o.CustomerPhone, o.Code}
		for _, it := range o.Items {
			fields = append(fields, it.Name, it.Barcode, it.Serial)
		}
		if matches(f.Keyword, fields...) {
			out = append(out, cloneOrder(o))
		}
	}
	return page(out, func(o *entity.Order) time.Time { return o.CreatedAt }, f), len(out), nil
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// Order acceso directo para asserts.
func (db *DB) Order(id string) *entity.Order {
	db.mu.Lock()
	defer db.mu.Unlock()
	if o, ok := db.orders[id]; ok {
		return cloneOrder(o)
	}
	return nil
}

// PutOrder inserta una orden tal cual (para sembrar reportes).
func (db *DB) PutOrder(o *entity.Order) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.orders[o.ID] = cloneOrder(o)
}

// ── History / Movements / Logs ──────────────────────────────────────────────

type histories struct{ db *DB }

// HistorySerials repositorio del historial de seriales.
func (db *DB) HistorySerials() repository.HistorySerialRepository { return histories{db} }

func (r histories) Create(h *entity.HistorySerial) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := *h
	r.db.histories = append(r.db.histories, &c)
	return nil
}

func (r histories) ListBySerial(serial string) ([]*entity.HistorySerial, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.HistorySerial
	for i := len(r.db.histories) - 1; i >= 0; i-- {
		if h := r.db.histories[i]; h.Serial == serial {
			c := *h
			out = append(out, &c)
		}
	}
	return out, nil
}

type movements struct{ db *DB }

// StockMovements repositorio de movimientos.
func (db *DB) StockMovements() repository.StockMovementRepository { return movements{db} }

func (r movements) Create(m *entity.StockMovement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := *m
	r.db.movements = append(r.db.movements, &c)
	return nil
}

func (r movements) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(r.db.movements) - 1; i >= 0; i-- {
		if m := r.db.movements[i]; m.ProductID == productID {
			c := *m
			out = append(out, &c)
		}
	}
	return page(out, func(m *entity.StockMovement) time.Time { return m.CreatedAt },
		repository.ListFilter{Limit: limit, Offset: offset}), nil
}

// Movements todos los movimientos en orden de inserción.
func (db *DB) Movements() []*entity.StockMovement {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]*entity.StockMovement(nil), db.movements...)
}

// Histories todo el historial en orden de inserción.
func (db *DB) Histories() []*entity.HistorySerial {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]*entity.HistorySerial(nil), db.histories...)
}

type logs struct{ db *DB }

// ActivityLogs repositorio de la bitácora.
func (db *DB) ActivityLogs() repository.ActivityLogRepository { return logs{db} }

func (r logs) Create(l *entity.ActivityLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("logs.create"); err != nil {
		return err
	}
	c := *l
	if u, ok := r.db.users[l.UserID]; ok {
		c.UserName = u.Name
	}
	r.db.logs = append(r.db.logs, &c)
	return nil
}

func (r logs) GetByID(id string) (*entity.ActivityLog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, l := range r.db.logs {
		if l.ID == id {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r logs) List(limit, offset int) ([]*entity.ActivityLog, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*entity.ActivityLog, 0, len(r.db.logs))
	for i := len(r.db.logs) - 1; i >= 0; i-- {
		c := *r.db.logs[i]
		out = append(out, &c)
	}
	total := len(out)
	return page(out, func(l *entity.ActivityLog) time.Time { return l.CreatedAt },
		repository.ListFilter{Limit: limit, Offset: offset}), total, nil
}

// Logs toda la bitácora en orden de inserción.
func (db *DB) Logs() []*entity.ActivityLog {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]*entity.ActivityLog(nil), db.logs...)
}

// ── Report ──────────────────────────────────────────────────────────────────

type report struct{ db *DB }

// Report repositorio de consultas del tablero.
func (db *DB) Report() repository.ReportRepository { return report{db} }

func between(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func (r report) OrderFigures(_ context.Context, from, to time.Time, includeDeleted bool) ([]entity.OrderFigure, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []entity.OrderFigure
	for _, o := range r.db.orders {
		if !between(o.CreatedAt, from, to) || (o.IsDelete && !includeDeleted) {
			continue
		}
		out = append(out, entity.OrderFigure{
			ID:             o.ID,
			CreatedAt:      o.CreatedAt,
			Billed:         o.Billed(),
			TotalCostPrice: o.TotalCostPrice,
			IsReturnOrder:  o.IsReturnOrder,
			IsDelete:       o.IsDelete,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r report) ProductSales(_ context.Context, from, to time.Time) ([]repository.ProductSalesResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	acc := map[string]*repository.ProductSalesResult{}
	var order []string
	for _, o := range r.sortedOrders(from, to) {
		for _, it := range o.Items {
			p, ok := r.db.products[it.ProductID]
			if !ok {
				continue
			}
			row, ok := acc[p.ID]
			if !ok {
				row = &repository.ProductSalesResult{ProductID: p.ID, Name: p.Name}
				acc[p.ID] = row
				order = append(order, p.ID)
			}
			row.Quantity += it.Quantity
			row.Revenue = row.Revenue.Add(it.Amount())
		}
	}
	out := make([]repository.ProductSalesResult, 0, len(order))
	for _, id := range order {
		out = append(out, *acc[id])
	}
	return out, nil
}

func (r report) CategorySales(_ context.Context, from, to time.Time) ([]repository.CategorySalesResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	acc := map[string]*repository.CategorySalesResult{}
	for _, o := range r.sortedOrders(from, to) {
		for _, it := range o.Items {
			p, ok := r.db.products[it.ProductID]
			if !ok {
				continue
			}
			c, ok := r.db.categories[p.CategoryID]
			if !ok {
				continue
			}
			row, ok := acc[c.ID]
			if !ok {
				row = &repository.CategorySalesResult{CategoryID: c.ID, Name: c.Name}
				acc[c.ID] = row
			}
			row.Revenue = row.Revenue.Add(it.Amount())
		}
	}
	out := make([]repository.CategorySalesResult, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	return out, nil
}

func (r report) CountNewCustomers(_ context.Context, from, to time.Time) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, c := range r.db.customers {
		if !c.IsDelete && between(c.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (r report) OrdersWithItems(_ context.Context, from, to time.Time) ([]*entity.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	list := r.sortedOrders(from, to)
	out := make([]*entity.Order, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, cloneOrder(list[i]))
	}
	return out, nil
}

// sortedOrders órdenes vigentes del rango en orden ascendente por fecha. Requiere el lock.
func (r report) sortedOrders(from, to time.Time) []*entity.Order {
	var list []*entity.Order
	for _, o := range r.db.orders {
		if !o.IsDelete && between(o.CreatedAt, from, to) {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}
