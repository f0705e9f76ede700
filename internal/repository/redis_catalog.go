package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/cache"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/models"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

// decrementScript performs check-then-decrement as a single server-side step.
// Returns {-1, 0} when the product is missing, {0, stock} when stock is short,
// {1, stock} after a successful decrement.
const decrementScript = `
local raw = redis.call('GET', KEYS[1])
if not raw then return {-1, 0} end
local p = cjson.decode(raw)
local qty = tonumber(ARGV[1])
if p.stock < qty then return {0, p.stock} end
p.stock = p.stock - qty
redis.call('SET', KEYS[1], cjson.encode(p))
return {1, p.stock}
`

// restockScript adds units back to a product's stock.
const restockScript = `
local raw = redis.call('GET', KEYS[1])
if not raw then return -1 end
local p = cjson.decode(raw)
p.stock = p.stock + tonumber(ARGV[1])
redis.call('SET', KEYS[1], cjson.encode(p))
return p.stock
`

// RedisStore is the volatile keyed-store backend. Records live as JSON values
// with id-set indexes; id sequences are INCR counters, so ids are monotonic
// and never reused after deletion. Stock mutations go through Lua scripts,
// which Redis executes atomically, giving the same per-product serialization
// guarantee as the relational backend.
type RedisStore struct {
	redis *cache.RedisClient
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(redis *cache.RedisClient) *RedisStore {
	return &RedisStore{redis: redis}
}

func productKey(id int) string { return fmt.Sprintf("catalog:product:%d", id) }

const (
	productIDsKey = "catalog:ids"
	productSeqKey = "catalog:seq"
)

func (s *RedisStore) loadProduct(ctx context.Context, id int) (*models.Product, error) {
	raw, err := s.redis.Get(ctx, productKey(id))
	if cache.IsNil(err) {
		return nil, utils.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("corrupt product record %d: %w", id, err)
	}
	return &p, nil
}

func (s *RedisStore) saveProduct(ctx context.Context, p *models.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, productKey(p.ID), string(raw), 0); err != nil {
		return err
	}
	return s.redis.SAdd(ctx, productIDsKey, p.ID)
}

// ListProducts returns all products, id ascending.
func (s *RedisStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	ids, err := s.redis.SMembers(ctx, productIDsKey)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(ids))
	for _, rawID := range ids {
		id, err := strconv.Atoi(rawID)
		if err != nil {
			continue
		}
		p, err := s.loadProduct(ctx, id)
		if err == utils.ErrProductNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// GetProduct returns a product by id.
func (s *RedisStore) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.loadProduct(ctx, id)
}

// UpsertProducts applies a bulk catalog update, skipping records with
// non-positive price. Records with an unknown id are inserted under a fresh
// sequence number.
func (s *RedisStore) UpsertProducts(ctx context.Context, products []models.Product) (int, error) {
	applied := 0
	for i := range products {
		p := &products[i]
		if p.Price <= 0 {
			continue
		}

		if p.ID > 0 {
			exists, err := s.redis.Exists(ctx, productKey(p.ID))
			if err != nil {
				return applied, err
			}
			if !exists {
				p.ID = 0
			}
		}
		if p.ID == 0 {
			next, err := s.redis.Incr(ctx, productSeqKey)
			if err != nil {
				return applied, err
			}
			p.ID = int(next)
		}

		if err := s.saveProduct(ctx, p); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// DecrementStock runs the conditional decrement script.
func (s *RedisStore) DecrementStock(ctx context.Context, id, qty int) error {
	res, err := s.redis.Eval(ctx, decrementScript, []string{productKey(id)}, qty)
	if err != nil {
		return err
	}

	reply, ok := res.([]interface{})
	if !ok || len(reply) != 2 {
		return fmt.Errorf("unexpected decrement reply: %v", res)
	}
	status, _ := reply[0].(int64)
	stock, _ := reply[1].(int64)

	switch status {
	case 1:
		return nil
	case 0:
		return &utils.InsufficientStockError{ProductID: id, Available: int(stock)}
	default:
		return utils.ErrProductNotFound
	}
}

// RestockProduct adds qty back to the product's stock.
func (s *RedisStore) RestockProduct(ctx context.Context, id, qty int) error {
	res, err := s.redis.Eval(ctx, restockScript, []string{productKey(id)}, qty)
	if err != nil {
		return err
	}
	if n, ok := res.(int64); ok && n < 0 {
		return utils.ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product unless orders still reference it.
func (s *RedisStore) DeleteProduct(ctx context.Context, id int) error {
	exists, err := s.redis.Exists(ctx, productKey(id))
	if err != nil {
		return err
	}
	if !exists {
		return utils.ErrProductNotFound
	}

	refs, err := s.CountOrdersByProduct(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return utils.ErrProductHasOrders
	}

	if err := s.redis.Delete(ctx, productKey(id)); err != nil {
		return err
	}
	return s.redis.SRem(ctx, productIDsKey, id)
}

// CountProducts returns the catalog size.
func (s *RedisStore) CountProducts(ctx context.Context) (int, error) {
	ids, err := s.redis.SMembers(ctx, productIDsKey)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
