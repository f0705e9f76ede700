package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/metrics"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/models"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/repository"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

// Order timestamps use a fixed IST offset, matching the storefront's
// audience. Both store backends persist the same instant either way; the
// offset only fixes the rendered wall-clock time.
var istZone = time.FixedZone("IST", 5*3600+30*60)

// OrderService owns the order lifecycle: creation (validation, stock
// decrement, total computation), tracking, and admin mutations. Lifecycle
// invariants live here once, independent of which store backend is wired in.
type OrderService struct {
	catalog repository.Catalog
	ledger  repository.Ledger
	metrics *metrics.Registry
	nowFunc func() time.Time
}

// NewOrderService constructs an OrderService.
func NewOrderService(catalog repository.Catalog, ledger repository.Ledger, m *metrics.Registry) *OrderService {
	return &OrderService{
		catalog: catalog,
		ledger:  ledger,
		metrics: m,
		nowFunc: func() time.Time { return time.Now().In(istZone) },
	}
}

// CreateOrderRequest is the order placement input. ProductID and Quantity are
// json.Number because the storefront UI posts them as either numbers or
// strings depending on the form.
type CreateOrderRequest struct {
	ProductID        json.Number `json:"product_id"`
	CustomerName     string      `json:"customer_name"`
	CustomerPhone    string      `json:"customer_phone"`
	CustomerEmail    string      `json:"customer_email"`
	Quantity         json.Number `json:"quantity"`
	PaymentMethod    string      `json:"payment_method"`
	CustomerAddress  string      `json:"customer_address"`
	Notes            string      `json:"notes"`
	UPITransactionID string      `json:"upi_transaction_id"`
}

// CreateOrder validates the request against the catalog, decrements stock and
// appends the order as one all-or-nothing unit. The stock check and decrement
// are a single atomic store operation, so concurrent orders for the same
// product cannot oversell; a failed ledger append restores the decremented
// stock before the error is returned.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	start := time.Now()

	order, err := s.createOrder(ctx, req)

	s.metrics.OrderCreateSec.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}
	s.metrics.OrdersCreated.Inc()
	s.metrics.OrderValue.Add(float64(order.TotalAmount))
	return order, nil
}

func (s *OrderService) createOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	name := strings.TrimSpace(req.CustomerName)
	phone := strings.TrimSpace(req.CustomerPhone)
	payment := strings.TrimSpace(req.PaymentMethod)

	switch {
	case req.ProductID.String() == "":
		return nil, utils.MissingField("product_id")
	case name == "":
		return nil, utils.MissingField("customer_name")
	case phone == "":
		return nil, utils.MissingField("customer_phone")
	case payment == "":
		return nil, utils.MissingField("payment_method")
	}

	productID, err := parseID(req.ProductID)
	if err != nil {
		return nil, &utils.ValidationError{Field: "product_id", Message: "Invalid product id"}
	}

	qty, err := parseQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Atomic conditional decrement: the availability check and the write are
	// one operation, serialized per product by the store.
	if err := s.catalog.DecrementStock(ctx, productID, qty); err != nil {
		return nil, err
	}

	now := s.nowFunc()
	order := &models.Order{
		CustomerName:     name,
		CustomerPhone:    phone,
		CustomerEmail:    optional(req.CustomerEmail),
		ProductID:        product.ID,
		ProductName:      product.Name,
		Quantity:         qty,
		TotalAmount:      product.Price * qty,
		PaymentMethod:    payment,
		CustomerAddress:  optional(req.CustomerAddress),
		Notes:            optional(req.Notes),
		UPITransactionID: optional(req.UPITransactionID),
		PaymentStatus:    models.PaymentPending,
		OrderStatus:      models.OrderPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.ledger.AppendOrder(ctx, order); err != nil {
		// A decrement without a ledger entry must not persist.
		if rerr := s.catalog.RestockProduct(ctx, productID, qty); rerr != nil {
			log.Error().Err(rerr).Int("product_id", productID).Int("quantity", qty).
				Msg("Failed to restock after ledger append failure")
		}
		log.Error().Err(err).Int("product_id", productID).Msg("Ledger append failed")
		return nil, utils.ErrStorageUnavailable
	}

	log.Info().Int("order_id", order.ID).Str("customer", order.CustomerName).
		Int("total", order.TotalAmount).Msg("Order created")
	return order, nil
}

// TrackOrders returns the caller's orders by exact phone match, newest first.
// Zero matches is a valid empty result, not an error.
func (s *OrderService) TrackOrders(ctx context.Context, phone string) ([]models.Order, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, &utils.ValidationError{Field: "phone", Message: "Phone number is required"}
	}
	return s.ledger.FindOrdersByPhone(ctx, phone)
}

// ListOrders returns every order for the admin dashboard, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.ledger.ListOrders(ctx)
}

// GetOrder returns a single order.
func (s *OrderService) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	return s.ledger.GetOrder(ctx, id)
}

// UpdateOrder applies an admin patch; only payment_status, order_status and
// notes are honored, and updated_at is refreshed.
func (s *OrderService) UpdateOrder(ctx context.Context, id int, patch *models.OrderPatch) error {
	return s.ledger.UpdateOrder(ctx, id, patch, s.nowFunc())
}

// DeleteOrder removes an order.
func (s *OrderService) DeleteOrder(ctx context.Context, id int) error {
	return s.ledger.DeleteOrder(ctx, id)
}

// parseID parses a positive integer id out of a JSON number-or-string.
func parseID(n json.Number) (int, error) {
	v, err := n.Int64()
	if err != nil || v <= 0 {
		return 0, errors.New("invalid id")
	}
	return int(v), nil
}

// parseQuantity parses the requested quantity, defaulting to 1 when absent.
func parseQuantity(n json.Number) (int, error) {
	if n.String() == "" {
		return 1, nil
	}
	v, err := n.Int64()
	if err != nil {
		return 0, &utils.ValidationError{Field: "quantity", Message: "Invalid quantity"}
	}
	if v <= 0 {
		return 0, &utils.ValidationError{Field: "quantity", Message: "Quantity must be positive"}
	}
	return int(v), nil
}

// optional trims a request field and maps empty to nil.
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func rejectReason(err error) string {
	switch {
	case utils.IsInsufficientStock(err):
		return "insufficient_stock"
	case errors.Is(err, utils.ErrProductNotFound):
		return "not_found"
	case utils.IsValidation(err):
		return "validation"
	default:
		return "storage"
	}
}
