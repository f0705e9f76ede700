package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

// respondError translates a domain error into the wire taxonomy. Unexpected
// errors are logged with detail but reported with a generic message only.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case utils.IsValidation(err):
		utils.Fail(c, 400, err.Error())
	case utils.IsInsufficientStock(err):
		utils.Fail(c, 400, err.Error())
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Fail(c, 404, "Product not found")
	case errors.Is(err, utils.ErrOrderNotFound):
		utils.Fail(c, 404, "Order not found")
	case errors.Is(err, utils.ErrProductHasOrders):
		utils.Fail(c, 400, "Cannot delete: product has related orders")
	case errors.Is(err, utils.ErrUnauthorized):
		utils.Fail(c, 403, "Unauthorized")
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg(fallback)
		utils.Fail(c, 500, fallback)
	}
}
