package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/cache"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/models"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

func orderKey(id int) string            { return fmt.Sprintf("ledger:order:%d", id) }
func phoneIndexKey(phone string) string { return fmt.Sprintf("ledger:phone:%s", phone) }
func productIndexKey(id int) string     { return fmt.Sprintf("ledger:product:%d", id) }

const (
	orderIDsKey = "ledger:ids"
	orderSeqKey = "ledger:seq"
)

func (s *RedisStore) loadOrder(ctx context.Context, id int) (*models.Order, error) {
	raw, err := s.redis.Get(ctx, orderKey(id))
	if cache.IsNil(err) {
		return nil, utils.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	var o models.Order
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return nil, fmt.Errorf("corrupt order record %d: %w", id, err)
	}
	return &o, nil
}

func (s *RedisStore) saveOrder(ctx context.Context, o *models.Order) error {
	raw, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, orderKey(o.ID), string(raw), 0)
}

// AppendOrder assigns the next sequence id and inserts the order along with
// its phone and product index entries.
func (s *RedisStore) AppendOrder(ctx context.Context, order *models.Order) error {
	next, err := s.redis.Incr(ctx, orderSeqKey)
	if err != nil {
		return err
	}
	order.ID = int(next)

	if err := s.saveOrder(ctx, order); err != nil {
		return err
	}
	if err := s.redis.SAdd(ctx, orderIDsKey, order.ID); err != nil {
		return err
	}
	if err := s.redis.SAdd(ctx, phoneIndexKey(order.CustomerPhone), order.ID); err != nil {
		return err
	}
	return s.redis.SAdd(ctx, productIndexKey(order.ProductID), order.ID)
}

// GetOrder returns an order by id.
func (s *RedisStore) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	return s.loadOrder(ctx, id)
}

func (s *RedisStore) collectOrders(ctx context.Context, setKey string) ([]models.Order, error) {
	ids, err := s.redis.SMembers(ctx, setKey)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(ids))
	for _, rawID := range ids {
		id, err := strconv.Atoi(rawID)
		if err != nil {
			continue
		}
		o, err := s.loadOrder(ctx, id)
		if err == utils.ErrOrderNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	sortOrdersNewestFirst(orders)
	return orders, nil
}

// ListOrders returns all orders newest first.
func (s *RedisStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.collectOrders(ctx, orderIDsKey)
}

// FindOrdersByPhone returns orders for an exact phone match, newest first.
func (s *RedisStore) FindOrdersByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	return s.collectOrders(ctx, phoneIndexKey(phone))
}

// UpdateOrder applies the admin patch and refreshes updated_at.
func (s *RedisStore) UpdateOrder(ctx context.Context, id int, patch *models.OrderPatch, updatedAt time.Time) error {
	o, err := s.loadOrder(ctx, id)
	if err != nil {
		return err
	}

	applyOrderPatch(o, patch, updatedAt)
	return s.saveOrder(ctx, o)
}

// DeleteOrder removes an order and its index entries.
func (s *RedisStore) DeleteOrder(ctx context.Context, id int) error {
	o, err := s.loadOrder(ctx, id)
	if err != nil {
		return err
	}

	if err := s.redis.Delete(ctx, orderKey(id)); err != nil {
		return err
	}
	if err := s.redis.SRem(ctx, orderIDsKey, id); err != nil {
		return err
	}
	if err := s.redis.SRem(ctx, phoneIndexKey(o.CustomerPhone), id); err != nil {
		return err
	}
	return s.redis.SRem(ctx, productIndexKey(o.ProductID), id)
}

// CountOrdersByProduct returns how many orders reference the product.
func (s *RedisStore) CountOrdersByProduct(ctx context.Context, productID int) (int, error) {
	ids, err := s.redis.SMembers(ctx, productIndexKey(productID))
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// sortOrdersNewestFirst orders by created_at descending, id descending on ties.
func sortOrdersNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

// applyOrderPatch copies the honored patch fields onto the order.
func applyOrderPatch(o *models.Order, patch *models.OrderPatch, updatedAt time.Time) {
	if patch.PaymentStatus != nil {
		o.PaymentStatus = models.PaymentStatus(*patch.PaymentStatus)
	}
	if patch.OrderStatus != nil {
		o.OrderStatus = models.OrderStatus(*patch.OrderStatus)
	}
	if patch.Notes != nil {
		o.Notes = patch.Notes
	}
	o.UpdatedAt = updatedAt
}
