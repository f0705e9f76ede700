package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/models"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/repository"
)

// defaultProducts seeds an empty catalog on boot.
var defaultProducts = []models.Product{
	{
		Name:        "Aluminium Kadhai",
		Description: "Heavy-duty and ideal for deep frying and curries.",
		Price:       599,
		Image:       "https://images.unsplash.com/photo-1556909114-f6e7ad7d3136?w=400&h=300&fit=crop",
		Stock:       50,
	},
	{
		Name:        "Steel Frying Pan",
		Description: "Perfect for sauteing and shallow frying.",
		Price:       449,
		Image:       "https://images.unsplash.com/photo-1592156328757-ae2941276b2c?q=80&w=1170&auto=format&fit=crop",
		Stock:       30,
	},
	{
		Name:        "3-Piece Cookware Set",
		Description: "Includes a frying pan, saucepan, and kadhai.",
		Price:       1199,
		Image:       "https://images.unsplash.com/photo-1556909114-9e59f5a3c13b?w=400&h=300&fit=crop",
		Stock:       15,
	},
	{
		Name:        "Non-Stick Tawa",
		Description: "Premium non-stick tawa for perfect rotis and dosas.",
		Price:       299,
		Image:       "https://images.unsplash.com/photo-1565299624946-b28f40a0ca4b?w=400&h=300&fit=crop",
		Stock:       25,
	},
	{
		Name:        "Pressure Cooker",
		Description: "Traditional pressure cooker with copper bottom for superior heat conduction.",
		Price:       1899,
		Image:       "https://images.unsplash.com/photo-1584308972272-9e4e7685e80f?w=400&h=300&fit=crop",
		Stock:       10,
	},
}

// CatalogService owns catalog reads and admin catalog mutations.
type CatalogService struct {
	catalog repository.Catalog
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(catalog repository.Catalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// recordID is the id column of the admin form: a number for existing rows, an
// opaque placeholder string such as "new-3" for rows added client side.
// Placeholders decode to zero, which BulkUpsert treats as an insert.
type recordID int

func (id *recordID) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*id = recordID(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			n = 0
		}
		*id = recordID(n)
	default:
		*id = 0
	}
	return nil
}

// ProductRecord is one row of an admin bulk catalog update. Prices and stock
// counts arrive as numbers or strings depending on the admin form.
type ProductRecord struct {
	ID          recordID    `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Stock       json.Number `json:"stock"`
	Image       string      `json:"image"`
}

// ListProducts returns the whole catalog.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.catalog.ListProducts(ctx)
}

// GetProduct returns a single product.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.catalog.GetProduct(ctx, id)
}

// BulkUpsert normalizes admin input and applies it to the catalog. Records
// without a name or with an unparseable/non-positive price are skipped rather
// than rejected, tolerating partial rows from the admin form. Returns how
// many records were applied.
func (s *CatalogService) BulkUpsert(ctx context.Context, records []ProductRecord) (int, error) {
	batch := make([]models.Product, 0, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			continue
		}
		price, err := rec.Price.Int64()
		if err != nil {
			continue
		}
		stock := int64(0)
		if rec.Stock.String() != "" {
			if stock, err = rec.Stock.Int64(); err != nil {
				continue
			}
		}
		if stock < 0 {
			stock = 0
		}

		id := 0
		if rec.ID > 0 {
			id = int(rec.ID)
		}

		desc := strings.TrimSpace(rec.Description)
		if desc == "" {
			desc = models.DefaultDescription
		}
		image := strings.TrimSpace(rec.Image)
		if image == "" {
			image = models.PlaceholderImage
		}

		batch = append(batch, models.Product{
			ID:          id,
			Name:        name,
			Description: desc,
			Price:       int(price),
			Stock:       int(stock),
			Image:       image,
		})
	}

	applied, err := s.catalog.UpsertProducts(ctx, batch)
	if err != nil {
		return 0, err
	}
	log.Info().Int("applied", applied).Msg("Catalog updated")
	return applied, nil
}

// DeleteProduct removes a product; stores refuse while orders reference it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	return s.catalog.DeleteProduct(ctx, id)
}

// EnsureSeed inserts the default cookware products when the catalog is empty.
func (s *CatalogService) EnsureSeed(ctx context.Context) error {
	count, err := s.catalog.CountProducts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := make([]models.Product, len(defaultProducts))
	copy(seed, defaultProducts)
	if _, err := s.catalog.UpsertProducts(ctx, seed); err != nil {
		return err
	}
	log.Info().Int("count", len(seed)).Msg("Default products added to catalog")
	return nil
}
