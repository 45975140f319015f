package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/sale"
	"github.com/BruksfildServices01/salon-manager/internal/export"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
	"github.com/BruksfildServices01/salon-manager/internal/usecase/sale"
)

// ======================================================
// HANDLER
// ======================================================

type SaleHandler struct {
	create  *sale.CreateSale
	cancel  *sale.CancelSale
	queries *sale.Queries
}

func NewSaleHandler(create *sale.CreateSale, cancel *sale.CancelSale, queries *sale.Queries) *SaleHandler {
	return &SaleHandler{create: create, cancel: cancel, queries: queries}
}

// ======================================================
// REQUESTS
// ======================================================

type SaleItemRequest struct {
	Kind           string           `json:"kind" binding:"required"`
	ProductID      uint             `json:"product_id"`
	ServiceID      uint             `json:"service_id"`
	ProfessionalID uint             `json:"professional_id"`
	Quantity       int              `json:"quantity" binding:"required,min=1"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
}

type CreateSaleRequest struct {
	CustomerID    *uint             `json:"customer_id"`
	AppointmentID *uint             `json:"appointment_id"`
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      decimal.Decimal   `json:"discount" binding:"gte=0"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
	Notes         string            `json:"notes"`
}

type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ======================================================
// ACTIONS
// ======================================================

func (h *SaleHandler) Create(c *gin.Context) {
	var req CreateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]sale.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, sale.ItemInput{
			Kind:           it.Kind,
			ProductID:      it.ProductID,
			ServiceID:      it.ServiceID,
			ProfessionalID: it.ProfessionalID,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
		})
	}

	s, err := h.create.Execute(c.Request.Context(), sale.CreateSaleInput{
		SalonID:       salonID(c),
		UserID:        userID(c),
		CustomerID:    req.CustomerID,
		AppointmentID: req.AppointmentID,
		Items:         items,
		Discount:      req.Discount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, s)
}

func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CancelSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.cancel.Execute(c.Request.Context(), salonID(c), userID(c), id, req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}

func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	s, err := h.queries.Get(c.Request.Context(), salonID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}

// List answers GET /sales?status=&customer_id=&from=&to=
func (h *SaleHandler) List(c *gin.Context) {
	from, to, ok := rangeQuery(c)
	if !ok {
		return
	}

	rows, err := h.queries.List(c.Request.Context(), domain.Filter{
		SalonID:    salonID(c),
		Status:     strings.ToLower(strings.TrimSpace(c.Query("status"))),
		CustomerID: uintQuery(c, "customer_id"),
		From:       from,
		To:         to,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *SaleHandler) Receipt(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	s, salon, err := h.queries.WithSalon(c.Request.Context(), salonID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	data, err := export.SaleReceipt(salon, s, timezone.Location(salon.Timezone))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.File(c, fmt.Sprintf("recibo-%d.pdf", s.ID), export.PDFContentType, data)
}
