package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/export"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
	"github.com/BruksfildServices01/salon-manager/internal/usecase/cashregister"
)

type CashRegisterHandler struct {
	db       *gorm.DB
	open     *cashregister.OpenCashRegister
	movement *cashregister.RegisterMovement
	close    *cashregister.CloseCashRegister
	queries  *cashregister.Queries
}

func NewCashRegisterHandler(
	db *gorm.DB,
	open *cashregister.OpenCashRegister,
	movement *cashregister.RegisterMovement,
	closeReg *cashregister.CloseCashRegister,
	queries *cashregister.Queries,
) *CashRegisterHandler {
	return &CashRegisterHandler{db: db, open: open, movement: movement, close: closeReg, queries: queries}
}

type OpenCashRegisterRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount" binding:"gte=0"`
}

type CashMovementRequest struct {
	Type          string          `json:"type" binding:"required"`
	PaymentMethod string          `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Description   string          `json:"description" binding:"required"`
}

type CloseCashRegisterRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount" binding:"gte=0"`
	Notes         string          `json:"notes"`
}

func (h *CashRegisterHandler) Open(c *gin.Context) {
	var req OpenCashRegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	reg, err := h.open.Execute(c.Request.Context(), salonID(c), userID(c), req.OpeningAmount)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, reg)
}

func (h *CashRegisterHandler) AddMovement(c *gin.Context) {
	var req CashMovementRequest
	if !bindJSON(c, &req) {
		return
	}
	mv, err := h.movement.Execute(c.Request.Context(), cashregister.MovementInput{
		SalonID:       salonID(c),
		UserID:        userID(c),
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, mv)
}

func (h *CashRegisterHandler) Close(c *gin.Context) {
	var req CloseCashRegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	reg, err := h.close.Execute(c.Request.Context(), cashregister.CloseInput{
		SalonID: salonID(c),
		UserID:  userID(c),
		Counted: req.CountedAmount,
		Notes:   req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, reg)
}

func (h *CashRegisterHandler) Current(c *gin.Context) {
	rep, err := h.queries.Current(c.Request.Context(), salonID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, rep)
}

func (h *CashRegisterHandler) Report(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rep, err := h.queries.Report(c.Request.Context(), salonID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, rep)
}

// ReportPDF renders the closing report of a register.
func (h *CashRegisterHandler) ReportPDF(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rep, err := h.queries.Report(c.Request.Context(), salonID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	salon, ok := currentSalon(h.db, c)
	if !ok {
		return
	}

	data, err := export.CashReport(salon, *rep, timezone.Location(salon.Timezone))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.File(c, fmt.Sprintf("caixa-%d.pdf", id), export.PDFContentType, data)
}

func (h *CashRegisterHandler) Movements(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.queries.Movements(c.Request.Context(), salonID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

// List answers GET /cash-registers?from=&to= (both required).
func (h *CashRegisterHandler) List(c *gin.Context) {
	from, to, ok := periodQuery(c)
	if !ok {
		return
	}
	rows, err := h.queries.List(c.Request.Context(), salonID(c), from, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}
