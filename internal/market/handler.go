package market

import (
	"errors"
	"net/http"
	"strconv"

	"fitstudio/internal/api"
	"fitstudio/internal/auth"
	"fitstudio/internal/ledger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Create a market item
// @Tags         admin,market
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body market.CreateItemRequest true "Item payload"
// @Success      201 {object} market.Item
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/market/items [post]
func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	item, err := h.service.CreateItem(ctx, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// @Summary      List market items
// @Tags         market,admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} market.Item
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /market/items [get]
// @Router       /admin/market/items [get]
func (h *Handler) ListItems(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.service.ListItems(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// @Summary      Update a market item
// @Tags         admin,market
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemID path int true "Item ID"
// @Param        request body market.CreateItemRequest true "Item payload"
// @Success      200 {object} market.Item
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/market/items/{itemID} [put]
func (h *Handler) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	item, err := h.service.UpdateItem(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// @Summary      Delete a market item
// @Tags         admin,market
// @Produce      json
// @Security     BearerAuth
// @Param        itemID path int true "Item ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/market/items/{itemID} [delete]
func (h *Handler) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	ctx := c.Request.Context()
	if err := h.service.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete item"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Item deleted"})
}

// @Summary      Buy a market item
// @Description  Charges the member's wallet credits and decrements stock atomically
// @Tags         market
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body market.PurchaseRequest true "Purchase payload"
// @Success      200 {object} market.PurchaseResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /market/purchase [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.Purchase(ctx, userID, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Item not found"})
		case errors.Is(err, ErrOutOfStock):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Item out of stock"})
		case errors.Is(err, ledger.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "Insufficient credits"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to complete purchase"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
