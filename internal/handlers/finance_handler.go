package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/finance"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/usecase/finance"
)

// FinanceHandler serves payables and receivables.
type FinanceHandler struct {
	create  *finance.CreateEntry
	markPay *finance.MarkPaid
	cancel  *finance.CancelEntry
	link    *finance.CreatePaymentLink
	queries *finance.Queries
}

func NewFinanceHandler(
	create *finance.CreateEntry,
	markPaid *finance.MarkPaid,
	cancel *finance.CancelEntry,
	link *finance.CreatePaymentLink,
	queries *finance.Queries,
) *FinanceHandler {
	return &FinanceHandler{create: create, markPay: markPaid, cancel: cancel, link: link, queries: queries}
}

type LedgerEntryRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	DueDate     string          `json:"due_date" binding:"required"`
	Supplier    string          `json:"supplier"`
	Category    string          `json:"category"`
	CustomerID  *uint           `json:"customer_id"`
}

type SettleRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (r LedgerEntryRequest) input(c *gin.Context) finance.CreateInput {
	return finance.CreateInput{
		SalonID:     salonID(c),
		UserID:      userID(c),
		Description: r.Description,
		Amount:      r.Amount,
		DueDate:     r.DueDate,
		Supplier:    r.Supplier,
		Category:    r.Category,
		CustomerID:  r.CustomerID,
	}
}

func (h *FinanceHandler) filter(c *gin.Context) (domain.Filter, bool) {
	from, to, ok := rangeQuery(c)
	if !ok {
		return domain.Filter{}, false
	}
	return domain.Filter{
		SalonID:    salonID(c),
		Status:     c.Query("status"),
		CustomerID: uintQuery(c, "customer_id"),
		From:       from,
		To:         to,
	}, true
}

func (h *FinanceHandler) settleInput(c *gin.Context) (finance.SettleInput, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return finance.SettleInput{}, false
	}
	var req SettleRequest
	// body is optional
	_ = c.ShouldBindJSON(&req)

	return finance.SettleInput{
		SalonID:       salonID(c),
		UserID:        userID(c),
		ID:            id,
		PaymentMethod: req.PaymentMethod,
	}, true
}

// ======================================================
// PAYABLES
// ======================================================

func (h *FinanceHandler) CreatePayable(c *gin.Context) {
	var req LedgerEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.create.Payable(c.Request.Context(), req.input(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, p)
}

func (h *FinanceHandler) ListPayables(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	rows, err := h.queries.Payables(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *FinanceHandler) PayPayable(c *gin.Context) {
	in, ok := h.settleInput(c)
	if !ok {
		return
	}
	p, err := h.markPay.Payable(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *FinanceHandler) CancelPayable(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.cancel.Payable(c.Request.Context(), salonID(c), userID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, p)
}

// ======================================================
// RECEIVABLES
// ======================================================

func (h *FinanceHandler) CreateReceivable(c *gin.Context) {
	var req LedgerEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.create.Receivable(c.Request.Context(), req.input(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, r)
}

func (h *FinanceHandler) ListReceivables(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	rows, err := h.queries.Receivables(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *FinanceHandler) ReceiveReceivable(c *gin.Context) {
	in, ok := h.settleInput(c)
	if !ok {
		return
	}
	r, err := h.markPay.Receivable(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, r)
}

func (h *FinanceHandler) CancelReceivable(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := h.cancel.Receivable(c.Request.Context(), salonID(c), userID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, r)
}

func (h *FinanceHandler) PaymentLink(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := h.link.Execute(c.Request.Context(), salonID(c), userID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"id": r.ID, "payment_link": r.PaymentLink})
}

func (h *FinanceHandler) Summary(c *gin.Context) {
	s, err := h.queries.Summary(c.Request.Context(), salonID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}
