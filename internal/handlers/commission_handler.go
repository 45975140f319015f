package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/commission"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/usecase/commission"
)

type CommissionHandler struct {
	queries *commission.Queries
	pay     *commission.PayCommissions
}

func NewCommissionHandler(queries *commission.Queries, pay *commission.PayCommissions) *CommissionHandler {
	return &CommissionHandler{queries: queries, pay: pay}
}

type PayCommissionsRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	From           string `json:"from" binding:"required"`
	To             string `json:"to" binding:"required"`
	PaymentMethod  string `json:"payment_method"`
}

func (h *CommissionHandler) filter(c *gin.Context) (domain.Filter, bool) {
	from, to, ok := periodQuery(c)
	if !ok {
		return domain.Filter{}, false
	}
	return domain.Filter{
		SalonID:        salonID(c),
		ProfessionalID: uintQuery(c, "professional_id"),
		Status:         strings.ToLower(strings.TrimSpace(c.Query("status"))),
		From:           from,
		To:             to,
	}, true
}

// List answers GET /commissions?from=&to=[&professional_id=&status=]
func (h *CommissionHandler) List(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	rows, err := h.queries.List(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *CommissionHandler) Summary(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	rows, err := h.queries.Summary(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

// Pay settles every pending commission of one professional in [from, to].
func (h *CommissionHandler) Pay(c *gin.Context) {
	var req PayCommissionsRequest
	if !bindJSON(c, &req) {
		return
	}

	from, err1 := parseDay(req.From)
	to, err2 := parseDay(req.To)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_period", "Período inválido.")
		return
	}

	res, err := h.pay.Execute(c.Request.Context(), commission.PayInput{
		SalonID:        salonID(c),
		UserID:         userID(c),
		ProfessionalID: req.ProfessionalID,
		From:           from,
		To:             to.AddDate(0, 0, 1),
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}
