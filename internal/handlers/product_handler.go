package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/usecase/inventory"
)

type ProductHandler struct {
	products *inventory.Products
	stock    *inventory.Stock
}

func NewProductHandler(products *inventory.Products, stock *inventory.Stock) *ProductHandler {
	return &ProductHandler{products: products, stock: stock}
}

type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	SKU         string          `json:"sku"`
	Unit        string          `json:"unit"`
	CostPrice   decimal.Decimal `json:"cost_price" binding:"gte=0"`
	SalePrice   decimal.Decimal `json:"sale_price" binding:"gte=0"`
	MinQuantity int             `json:"min_quantity" binding:"min=0"`
	Active      *bool           `json:"active"`
}

type StockEntryRequest struct {
	Quantity      int              `json:"quantity" binding:"required,min=1"`
	Reason        string           `json:"reason"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	Supplier      string           `json:"supplier"`
	Note          string           `json:"note"`
	CreatePayable bool             `json:"create_payable"`
	DueDate       string           `json:"due_date"`
}

type StockExitRequest struct {
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Reason   string `json:"reason" binding:"required"`
	Note     string `json:"note"`
}

func (r ProductRequest) input() inventory.ProductInput {
	return inventory.ProductInput{
		Name:        r.Name,
		SKU:         r.SKU,
		Unit:        r.Unit,
		CostPrice:   r.CostPrice,
		SalePrice:   r.SalePrice,
		MinQuantity: r.MinQuantity,
		Active:      r.Active,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	rows, err := h.products.List(c.Request.Context(), domain.ProductFilter{
		SalonID:    salonID(c),
		Search:     c.Query("query"),
		OnlyActive: c.Query("active") == "true",
		LowStock:   c.Query("low_stock") == "true",
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	rows, err := h.products.LowStock(c.Request.Context(), salonID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.products.Get(c.Request.Context(), salonID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.products.Create(c.Request.Context(), salonID(c), userID(c), req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.products.Update(c.Request.Context(), salonID(c), userID(c), id, req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *ProductHandler) Movements(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	rows, err := h.products.Movements(c.Request.Context(), salonID(c), id, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

// ======================================================
// STOCK
// ======================================================

func (h *ProductHandler) Entry(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req StockEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.stock.Entry(c.Request.Context(), inventory.StockEntryInput{
		SalonID:       salonID(c),
		UserID:        userID(c),
		ProductID:     id,
		Quantity:      req.Quantity,
		Reason:        req.Reason,
		UnitCost:      req.UnitCost,
		Supplier:      req.Supplier,
		Note:          req.Note,
		CreatePayable: req.CreatePayable,
		DueDate:       req.DueDate,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, res)
}

func (h *ProductHandler) Exit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req StockExitRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.stock.Exit(c.Request.Context(), inventory.StockExitInput{
		SalonID:   salonID(c),
		UserID:    userID(c),
		ProductID: id,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Note:      req.Note,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, res)
}
