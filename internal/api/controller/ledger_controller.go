package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Aybis/maya-family/internal/api/response"
	"github.com/Aybis/maya-family/internal/infrastructure/ai"
	"github.com/Aybis/maya-family/internal/model"
)

// LedgerController serves the live endpoints over the in-memory dataset.
type LedgerController struct {
	data    *Dataset
	scanner ai.Provider
	log     zerolog.Logger
}

func NewLedgerController(data *Dataset, log zerolog.Logger) *LedgerController {
	mock := ai.NewMockProvider()
	mock.Latency = 0
	return &LedgerController{data: data, scanner: mock, log: log}
}

// ListTransactions returns the acting user's records as a raw array.
func (ctrl *LedgerController) ListTransactions(c *gin.Context) {
	response.OK(c, ctrl.data.TransactionsFor(c.GetString("userID")))
}

// CreateTransaction validates the draft and returns the stored record with
// its server-assigned identity.
func (ctrl *LedgerController) CreateTransaction(c *gin.Context) {
	var draft model.TransactionDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := draft.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	record := ctrl.data.AddTransaction(c.GetString("userID"), draft)
	ctrl.log.Info().Str("id", record.ID).Str("category", record.Category).Msg("transaction recorded")
	c.JSON(http.StatusCreated, record)
}

// ListWarehouseItems returns the acting user's inventory.
func (ctrl *LedgerController) ListWarehouseItems(c *gin.Context) {
	response.OK(c, ctrl.data.ItemsFor(c.GetString("userID")))
}

// CreateWarehouseItem validates the draft and returns the stored item.
func (ctrl *LedgerController) CreateWarehouseItem(c *gin.Context) {
	var draft model.ItemDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := draft.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	item := ctrl.data.AddItem(c.GetString("userID"), draft)
	c.JSON(http.StatusCreated, item)
}

// UpdateWarehouseItem merge-patches one item by path id.
func (ctrl *LedgerController) UpdateWarehouseItem(c *gin.Context) {
	var patch model.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	item, ok := ctrl.data.UpdateItem(c.GetString("userID"), c.Param("id"), patch)
	if !ok {
		response.Error(c, http.StatusNotFound, "item not found")
		return
	}
	response.OK(c, item)
}

// MonthlyReport computes the report for the requested month, defaulting to
// the current one.
func (ctrl *LedgerController) MonthlyReport(c *gin.Context) {
	response.OK(c, ctrl.data.ReportFor(c.GetString("userID"), c.Query("month")))
}

type scanRequest struct {
	Image string `json:"image" binding:"required"`
}

// ScanInvoice accepts a base64 data-URL image and returns a recognition
// payload from the canned scanner.
func (ctrl *LedgerController) ScanInvoice(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	payload, err := ctrl.scanner.ProcessReceipt(c.Request.Context(), req.Image)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.OK(c, payload)
}

// SendNotification accepts any payload and acknowledges it. The dev backend
// delivers nothing.
func (ctrl *LedgerController) SendNotification(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	ctrl.log.Info().Interface("notification", payload).Msg("notification accepted")
	response.OK(c, gin.H{"status": "queued"})
}
