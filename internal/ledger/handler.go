package ledger

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fitstudio/internal/auth"
	"fitstudio/internal/metrics"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type TopUpRequest struct {
	Credits int64 `json:"credits" binding:"required"`
}

type GrantRequest struct {
	Instrument Instrument `json:"instrument" binding:"required,instrument"`
	Amount     int64      `json:"amount" binding:"required"`
	Label      string     `json:"label"`
}

type SetFreeRequest struct {
	IsFree *bool `json:"is_free" binding:"required"`
}

// GetMyBalance godoc
// @Summary      Get own balance
// @Description  Returns the authenticated member's wallet and token counters.
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Balance
// @Failure      404  {object}  gin.H
// @Router       /balance [get]
func (h *Handler) GetMyBalance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bal, err := h.repo.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrBalanceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Balance not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, bal)
}

// TopUp godoc
// @Summary      Top up wallet
// @Tags         ledger
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      TopUpRequest  true  "Top up amount in credits"
// @Success      200      {object}  Balance
// @Failure      400      {object}  gin.H
// @Router       /wallet/topup [post]
func (h *Handler) TopUp(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Credits <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "credits must be positive"})
		return
	}

	if err := h.repo.TopUp(c.Request.Context(), userID, req.Credits); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to top up wallet"})
		return
	}
	metrics.RecordWalletTopUp()

	bal, err := h.repo.GetBalance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load balance after top up"})
		return
	}

	c.JSON(http.StatusOK, bal)
}

// ListMyEntries godoc
// @Summary      List own ledger entries
// @Description  Returns the authenticated member's transaction statement.
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {array}   Entry
// @Router       /ledger [get]
func (h *Handler) ListMyEntries(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.repo.ListEntries(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ledger entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetUserBalance godoc
// @Summary      Get a member's balance
// @Description  Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200     {object}  Balance
// @Failure      404     {object}  gin.H
// @Router       /admin/users/{userID}/balance [get]
func (h *Handler) GetUserBalance(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	bal, err := h.repo.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrBalanceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Balance not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, bal)
}

// Grant godoc
// @Summary      Grant credits or tokens
// @Description  Adjusts one funding instrument by a signed amount. Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        userID   path      int           true  "User ID"
// @Param        request  body      GrantRequest  true  "Instrument and signed amount"
// @Success      200      {object}  Balance
// @Failure      400      {object}  gin.H
// @Router       /admin/users/{userID}/grant [post]
func (h *Handler) Grant(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label := req.Label
	if label == "" {
		label = "admin adjustment"
	}

	if err := h.repo.Grant(c.Request.Context(), userID, req.Instrument, req.Amount, label); err != nil {
		switch {
		case errors.Is(err, ErrBalanceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Balance not found"})
		case errors.Is(err, ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Adjustment would make the balance negative"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply grant"})
		}
		return
	}

	bal, err := h.repo.GetBalance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load balance after grant"})
		return
	}

	c.JSON(http.StatusOK, bal)
}

// SetFree godoc
// @Summary      Set a member's free status
// @Description  Free members book without credit or token charges. Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        userID   path      int             true  "User ID"
// @Param        request  body      SetFreeRequest  true  "Free flag"
// @Success      200      {object}  Balance
// @Router       /admin/users/{userID}/free [patch]
func (h *Handler) SetFree(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req SetFreeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsFree == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_free is required"})
		return
	}

	bal, err := h.repo.SetFree(c.Request.Context(), userID, *req.IsFree)
	if err != nil {
		if errors.Is(err, ErrBalanceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Balance not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, bal)
}

// GetRevenueAnalytics godoc
// @Summary      Revenue analytics
// @Description  Aggregated credits charged/refunded and tokens spent per day. Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  true  "Start datetime (RFC3339)"
// @Param        to    query     string  true  "End datetime (RFC3339)"
// @Success      200   {object}  map[string]interface{}
// @Router       /admin/analytics/revenue [get]
func (h *Handler) GetRevenueAnalytics(c *gin.Context) {
	fromStr := c.Query("from")
	toStr := c.Query("to")

	if fromStr == "" || toStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to query params are required"})
		return
	}

	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from format, use RFC3339"})
		return
	}

	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to format, use RFC3339"})
		return
	}

	stats, err := h.repo.GetRevenueStatsByDay(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from": from,
		"to":   to,
		"data": stats,
	})
}
