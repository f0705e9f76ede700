package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/service"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

// CatalogHandler serves the public catalog and admin catalog mutations.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProducts handles GET /products.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Unable to load products")
		return
	}
	utils.OK(c, gin.H{"products": products})
}

// GetProduct handles GET /products/:id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Fail(c, 400, "Invalid product id")
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Unable to load product")
		return
	}
	utils.OK(c, gin.H{"product": product})
}

// UpdateProducts handles POST /admin/products/update (bulk upsert).
func (h *CatalogHandler) UpdateProducts(c *gin.Context) {
	var req struct {
		Products []service.ProductRecord `json:"products"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Products == nil {
		utils.Fail(c, 400, "Invalid request data")
		return
	}

	applied, err := h.catalogService.BulkUpsert(c.Request.Context(), req.Products)
	if err != nil {
		respondError(c, err, "Error updating products")
		return
	}
	utils.OKMessage(c, fmt.Sprintf("Products updated successfully (%d products)", applied))
}

// DeleteProduct handles DELETE /admin/products/:id.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Fail(c, 400, "Invalid product id")
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err, "Error deleting product")
		return
	}
	utils.OKMessage(c, "Product deleted successfully")
}
