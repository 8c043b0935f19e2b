// Package api wires the dev backend's HTTP surface. It mirrors the hosted
// Maya API closely enough that the client cannot tell them apart.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Aybis/maya-family/internal/api/controller"
	"github.com/Aybis/maya-family/internal/api/middleware"
)

// NewRouter builds the engine with a freshly seeded dataset.
func NewRouter(log zerolog.Logger) *gin.Engine {
	data := controller.NewDataset()
	return NewRouterWithDataset(data, log)
}

// NewRouterWithDataset builds the engine over an existing dataset. Tests use
// this to control the seed.
func NewRouterWithDataset(data *controller.Dataset, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())

	ledgerCtrl := controller.NewLedgerController(data, log)
	dummyCtrl := controller.NewDummyController(data)

	RegisterRoutes(r, ledgerCtrl, dummyCtrl)
	return r
}

// RegisterRoutes attaches all endpoints.
func RegisterRoutes(r *gin.Engine, ledgerCtrl *controller.LedgerController, dummyCtrl *controller.DummyController) {
	v1 := r.Group("/api/v1")
	v1.Use(middleware.MockAuth())
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		v1.GET("/transaction/", ledgerCtrl.ListTransactions)
		v1.POST("/transaction/", ledgerCtrl.CreateTransaction)

		v1.GET("/warehouse/", ledgerCtrl.ListWarehouseItems)
		v1.POST("/warehouse/", ledgerCtrl.CreateWarehouseItem)
		v1.PUT("/warehouse/:id", ledgerCtrl.UpdateWarehouseItem)

		v1.GET("/report/monthly", ledgerCtrl.MonthlyReport)

		v1.POST("/invoice/scan", ledgerCtrl.ScanInvoice)
		v1.POST("/notification/", ledgerCtrl.SendNotification)

		dummy := v1.Group("/dummy")
		{
			dummy.GET("/transactions/:userId", dummyCtrl.Transactions)
			dummy.GET("/warehouse/:userId", dummyCtrl.Warehouse)
			dummy.GET("/reports/:userId", dummyCtrl.Report)
			dummy.GET("/reports/:userId/:month", dummyCtrl.Report)
			dummy.GET("/invoice/scan", dummyCtrl.InvoiceScan)
		}
	}
}
