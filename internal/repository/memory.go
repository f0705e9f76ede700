package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/models"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

// MemoryStore is the in-process fallback backend, used for development and
// tests. A single mutex guards both maps, which trivially serializes
// check-then-decrement. Id sequences are monotonic and survive deletions, so
// ids are never reused.
type MemoryStore struct {
	mu         sync.Mutex
	products   map[int]models.Product
	orders     map[int]models.Order
	productSeq int
	orderSeq   int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int]models.Product),
		orders:   make(map[int]models.Order),
	}
}

// ListProducts returns all products, id ascending.
func (s *MemoryStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// GetProduct returns a product by id.
func (s *MemoryStore) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, utils.ErrProductNotFound
	}
	return &p, nil
}

// UpsertProducts applies a bulk catalog update, skipping records with
// non-positive price.
func (s *MemoryStore) UpsertProducts(ctx context.Context, products []models.Product) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for i := range products {
		p := products[i]
		if p.Price <= 0 {
			continue
		}

		if p.ID > 0 {
			if _, ok := s.products[p.ID]; !ok {
				p.ID = 0
			}
		}
		if p.ID == 0 {
			s.productSeq++
			p.ID = s.productSeq
		} else if p.ID > s.productSeq {
			s.productSeq = p.ID
		}

		s.products[p.ID] = p
		products[i].ID = p.ID
		applied++
	}
	return applied, nil
}

// DecrementStock reduces stock by qty under the store lock.
func (s *MemoryStore) DecrementStock(ctx context.Context, id, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return utils.ErrProductNotFound
	}
	if p.Stock < qty {
		return &utils.InsufficientStockError{ProductID: id, Available: p.Stock}
	}
	p.Stock -= qty
	s.products[id] = p
	return nil
}

// RestockProduct adds qty back to the product's stock.
func (s *MemoryStore) RestockProduct(ctx context.Context, id, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return utils.ErrProductNotFound
	}
	p.Stock += qty
	s.products[id] = p
	return nil
}

// DeleteProduct removes a product unless orders still reference it.
func (s *MemoryStore) DeleteProduct(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return utils.ErrProductNotFound
	}
	for _, o := range s.orders {
		if o.ProductID == id {
			return utils.ErrProductHasOrders
		}
	}
	delete(s.products, id)
	return nil
}

// CountProducts returns the catalog size.
func (s *MemoryStore) CountProducts(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products), nil
}

// AppendOrder assigns the next sequence id and inserts the order.
func (s *MemoryStore) AppendOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orderSeq++
	order.ID = s.orderSeq
	s.orders[order.ID] = *order
	return nil
}

// GetOrder returns an order by id.
func (s *MemoryStore) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, utils.ErrOrderNotFound
	}
	return &o, nil
}

// ListOrders returns all orders newest first.
func (s *MemoryStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, o)
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

// FindOrdersByPhone returns orders for an exact phone match, newest first.
func (s *MemoryStore) FindOrdersByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := []models.Order{}
	for _, o := range s.orders {
		if o.CustomerPhone == phone {
			orders = append(orders, o)
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

// UpdateOrder applies the admin patch and refreshes updated_at.
func (s *MemoryStore) UpdateOrder(ctx context.Context, id int, patch *models.OrderPatch, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return utils.ErrOrderNotFound
	}
	applyOrderPatch(&o, patch, updatedAt)
	s.orders[id] = o
	return nil
}

// DeleteOrder removes an order by id.
func (s *MemoryStore) DeleteOrder(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return utils.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

// CountOrdersByProduct returns how many orders reference the product.
func (s *MemoryStore) CountOrdersByProduct(ctx context.Context, productID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, o := range s.orders {
		if o.ProductID == productID {
			count++
		}
	}
	return count, nil
}
