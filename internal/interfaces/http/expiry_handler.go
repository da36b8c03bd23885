package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lojaflex/lojaflex-api/internal/application/dto"
	"github.com/lojaflex/lojaflex-api/internal/application/reporting"
)

// ExpiryHandler trata as requisições HTTP do relatório de validade (protegido).
type ExpiryHandler struct {
	uc *reporting.ExpiryUseCase
}

// NewExpiryHandler constrói o handler.
func NewExpiryHandler(uc *reporting.ExpiryUseCase) *ExpiryHandler {
	return &ExpiryHandler{uc: uc}
}

// ListExpiring godoc
// @Summary      Produtos vencendo
// @Description  Produtos com validade dentro da janela de dias (default 7), já
// @Description  vencidos inclusos, em ordem crescente de validade.
// @Tags         expiry
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Janela em dias (default 7)"
// @Success      200  {array}   dto.ExpiringProductDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/expiry/products [get]
func (h *ExpiryHandler) ListExpiring(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	days := c.QueryInt("days", 7)
	products, err := h.uc.GetExpiringProducts(c.Context(), storeID, days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(products), "products": products})
}

// Stats godoc
// @Summary      Contadores de validade
// @Description  Vencidos, vencendo em 7 dias e vencendo em 30 dias, cada produto
// @Description  contado uma única vez pela validade mais próxima.
// @Tags         expiry
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ExpiryStatsDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/expiry/stats [get]
func (h *ExpiryHandler) Stats(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	stats, err := h.uc.GetExpiryStats(c.Context(), storeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(stats)
}

// NextExpiry godoc
// @Summary      Próxima validade do produto
// @Description  Menor validade entre os lotes ativos; cai na validade do cadastro
// @Description  quando não há lotes. Devolve expires_at nulo para não perecíveis.
// @Tags         expiry
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID do produto (UUID)"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/next-expiry [get]
func (h *ExpiryHandler) NextExpiry(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	next, err := h.uc.GetNextExpiry(c.Context(), productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"product_id": productID, "expires_at": next})
}
