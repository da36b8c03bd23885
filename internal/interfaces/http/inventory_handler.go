package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/lojaflex/lojaflex-api/internal/application/dto"
	"github.com/lojaflex/lojaflex-api/internal/application/inventory"
	"github.com/lojaflex/lojaflex-api/internal/domain"
)

// InventoryHandler trata as requisições HTTP de lotes, baixas e ajustes (protegido).
type InventoryHandler struct {
	batches *inventory.BatchUseCase
	adjust  *inventory.AdjustStockUseCase
	history *inventory.HistoryUseCase
}

// NewInventoryHandler constrói o handler.
func NewInventoryHandler(batches *inventory.BatchUseCase, adjust *inventory.AdjustStockUseCase, history *inventory.HistoryUseCase) *InventoryHandler {
	return &InventoryHandler{batches: batches, adjust: adjust, history: history}
}

// inventoryError mapeia os erros do domínio para respostas HTTP.
// Erros tipados de saldo carregam produto e quantidades na mensagem.
func inventoryError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK",
			Message: fmt.Sprintf("estoque insuficiente para %q: solicitado %s, disponível %s",
				insufficient.ProductName, insufficient.Requested.String(), insufficient.Available.String()),
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dados inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "produto ou lote não encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado ao recurso"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "estoque insuficiente"})
	case errors.Is(err, domain.ErrEmptyBatch):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMPTY_BATCH", Message: "lote sem quantidade disponível"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// CreateBatch godoc
// @Summary      Registrar lote de entrada
// @Description  Cria o lote, soma ao saldo do produto, recalcula o custo médio se
// @Description  unit_cost for informado e grava o movimento IN no ledger.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "product_id, quantity, expires_at, unit_cost (opcional)"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [post]
func (h *InventoryHandler) CreateBatch(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	userID := GetUserID(c)
	if storeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	batch, err := h.batches.CreateBatch(c.Context(), storeID, userID, in)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(batch)
}

// ListBatches godoc
// @Summary      Lotes ativos do produto
// @Description  Devolve os lotes com quantidade > 0 em ordem FEFO (validade mais
// @Description  próxima primeiro).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do produto (UUID)"
// @Success      200  {array}   dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	batches, err := h.batches.ListActiveBatches(storeID, productID)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(batches), "batches": batches})
}

// Consume godoc
// @Summary      Baixa manual de estoque (FEFO)
// @Description  Consome a quantidade dos lotes por ordem de validade e grava o
// @Description  movimento OUT com a decomposição por lote.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "product_id, quantity, reason (opcional)"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/consume [post]
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	userID := GetUserID(c)
	if storeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := h.batches.ConsumeFEFO(c.Context(), storeID, userID, in); err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(fiber.Map{"message": "baixa registrada"})
}

// DeleteBatch godoc
// @Summary      Remover lote (descarte)
// @Description  Remove fisicamente o lote, subtrai o restante do saldo e grava o
// @Description  movimento OUT. Lote com quantidade zero não pode ser removido por aqui.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true   "ID do lote (UUID)"
// @Param        body  body  dto.DeleteBatchRequest  false  "reason (opcional)"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id} [delete]
func (h *InventoryHandler) DeleteBatch(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	userID := GetUserID(c)
	if storeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	batchID := c.Params("id")
	if batchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.DeleteBatchRequest
	_ = c.BodyParser(&in) // corpo opcional
	if err := h.batches.DeleteBatch(c.Context(), storeID, userID, batchID, in.Reason); err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote removido"})
}

// AdjustStock godoc
// @Summary      Ajuste manual de estoque
// @Description  Grava o saldo informado e registra um único movimento ADJUSTMENT
// @Description  com o delta assinado. Delta zero não gera movimento.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, new_quantity, reason"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	userID := GetUserID(c)
	if storeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := h.adjust.AdjustStock(c.Context(), storeID, userID, in); err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ajuste registrado"})
}

// ListMovements godoc
// @Summary      Histórico de movimentos do produto
// @Description  Ledger append-only em ordem cronológica inversa, com a decomposição
// @Description  por lote quando houver.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID do produto (UUID)"
// @Param        limit   query  int     false  "Tamanho da página (default 20)"
// @Param        offset  query  int     false  "Deslocamento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	movements, err := h.history.ListByProduct(storeID, productID, page)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(movements), "movements": movements})
}
