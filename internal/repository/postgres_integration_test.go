package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/models"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := postgres.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func applyMigrations(db *sqlx.DB) error {
	migrationDir := "../../migrations"
	files, err := os.ReadDir(migrationDir)
	if err != nil {
		return fmt.Errorf("read migration directory: %w", err)
	}

	var names []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".up.sql") {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(migrationDir, name))
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
	}
	return nil
}

func TestPostgresCatalogCRUD(t *testing.T) {
	store := NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	batch := []models.Product{
		{Name: "Tawa", Description: "d", Price: 299, Stock: 25, Image: "img"},
		{Name: "Kadhai", Description: "d", Price: 599, Stock: 50, Image: "img"},
		{Name: "Freebie", Description: "d", Price: 0, Stock: 1, Image: "img"},
	}
	applied, err := store.UpsertProducts(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Positive(t, batch[0].ID)

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Tawa", products[0].Name)

	// Update by id keeps the row, unknown id falls back to insert.
	batch[0].Price = 349
	applied, err = store.UpsertProducts(ctx, []models.Product{
		batch[0],
		{ID: 9999, Name: "Pressure Cooker", Description: "d", Price: 1899, Stock: 10, Image: "img"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	p, err := store.GetProduct(ctx, batch[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 349, p.Price)

	count, err := store.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = store.GetProduct(ctx, 123456)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestPostgresDecrementStockIsConditional(t *testing.T) {
	store := NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	batch := []models.Product{{Name: "Tawa", Description: "d", Price: 299, Stock: 5, Image: "img"}}
	_, err := store.UpsertProducts(ctx, batch)
	require.NoError(t, err)
	id := batch[0].ID

	require.NoError(t, store.DecrementStock(ctx, id, 3))

	err = store.DecrementStock(ctx, id, 3)
	require.Error(t, err)
	require.True(t, utils.IsInsufficientStock(err))
	var short *utils.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 2, short.Available)

	assert.ErrorIs(t, store.DecrementStock(ctx, 123456, 1), utils.ErrProductNotFound)

	require.NoError(t, store.RestockProduct(ctx, id, 3))
	p, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
}

func TestPostgresDeleteProductGuardedByForeignKey(t *testing.T) {
	store := NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	batch := []models.Product{{Name: "Tawa", Description: "d", Price: 299, Stock: 5, Image: "img"}}
	_, err := store.UpsertProducts(ctx, batch)
	require.NoError(t, err)
	id := batch[0].ID

	now := time.Now().UTC()
	order := newOrder(id, "9876543210", now)
	require.NoError(t, store.AppendOrder(ctx, order))

	assert.ErrorIs(t, store.DeleteProduct(ctx, id), utils.ErrProductHasOrders)

	require.NoError(t, store.DeleteOrder(ctx, order.ID))
	require.NoError(t, store.DeleteProduct(ctx, id))
	assert.ErrorIs(t, store.DeleteProduct(ctx, id), utils.ErrProductNotFound)
}

func TestPostgresLedger(t *testing.T) {
	store := NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	batch := []models.Product{{Name: "Tawa", Description: "d", Price: 299, Stock: 50, Image: "img"}}
	_, err := store.UpsertProducts(ctx, batch)
	require.NoError(t, err)
	id := batch[0].ID

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := newOrder(id, "9876543210", base)
	second := newOrder(id, "9876543210", base.Add(time.Minute))
	other := newOrder(id, "1112223334", base)
	require.NoError(t, store.AppendOrder(ctx, first))
	require.NoError(t, store.AppendOrder(ctx, second))
	require.NoError(t, store.AppendOrder(ctx, other))
	assert.Greater(t, second.ID, first.ID)

	orders, err := store.FindOrdersByPhone(ctx, "9876543210")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)

	all, err := store.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	status := "confirmed"
	notes := "call before delivery"
	require.NoError(t, store.UpdateOrder(ctx, first.ID, &models.OrderPatch{
		OrderStatus: &status,
		Notes:       &notes,
	}, base.Add(time.Hour)))

	got, err := store.GetOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, got.OrderStatus)
	assert.Equal(t, models.PaymentPending, got.PaymentStatus)
	require.NotNil(t, got.Notes)
	assert.Equal(t, notes, *got.Notes)

	count, err := store.CountOrdersByProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = store.GetOrder(ctx, 123456)
	assert.ErrorIs(t, err, utils.ErrOrderNotFound)
}
