package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aybis/maya-family/internal/api/response"
	"github.com/Aybis/maya-family/internal/infrastructure/ai"
)

// DummyController serves the demo-mode mirrors. They ignore the acting user
// and key on the path parameter instead, with "all" merging every household.
type DummyController struct {
	data    *Dataset
	scanner ai.Provider
}

func NewDummyController(data *Dataset) *DummyController {
	mock := ai.NewMockProvider()
	mock.Latency = 0
	return &DummyController{data: data, scanner: mock}
}

// Transactions returns the demo transaction mirror for one user or all.
func (ctrl *DummyController) Transactions(c *gin.Context) {
	response.OK(c, ctrl.data.TransactionsFor(c.Param("userId")))
}

// Warehouse returns the demo inventory mirror for one user or all.
func (ctrl *DummyController) Warehouse(c *gin.Context) {
	response.OK(c, ctrl.data.ItemsFor(c.Param("userId")))
}

// Report computes the demo report; the month path segment is optional.
func (ctrl *DummyController) Report(c *gin.Context) {
	response.OK(c, ctrl.data.ReportFor(c.Param("userId"), c.Param("month")))
}

// InvoiceScan returns a canned recognition payload without needing an image.
func (ctrl *DummyController) InvoiceScan(c *gin.Context) {
	payload, err := ctrl.scanner.ProcessReceipt(c.Request.Context(), "")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.OK(c, payload)
}
