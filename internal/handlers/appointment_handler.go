package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
	"github.com/BruksfildServices01/salon-manager/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *appointment.CreateAppointment
	changeStatus *appointment.ChangeStatus
	complete     *appointment.CompleteAppointment
	reschedule   *appointment.RescheduleAppointment
	list         *appointment.ListAppointments
	availability *appointment.GetAvailability
}

func NewAppointmentHandler(
	create *appointment.CreateAppointment,
	changeStatus *appointment.ChangeStatus,
	complete *appointment.CompleteAppointment,
	reschedule *appointment.RescheduleAppointment,
	list *appointment.ListAppointments,
	availability *appointment.GetAvailability,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		changeStatus: changeStatus,
		complete:     complete,
		reschedule:   reschedule,
		list:         list,
		availability: availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CustomerName   string `json:"customer_name" binding:"required"`
	CustomerPhone  string `json:"customer_phone" binding:"required"`
	CustomerEmail  string `json:"customer_email" binding:"omitempty,email"`
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:mm
	Notes          string `json:"notes"`
}

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	uid := userID(c)
	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		SalonID:        salonID(c),
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		UserID:         &uid,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

// ListByDate answers GET /appointments?date=YYYY-MM-DD[&professional_id=]
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = timezone.Now().Format("2006-01-02")
	}

	rows, err := h.list.ByDate(c.Request.Context(), salonID(c), uintQuery(c, "professional_id"), date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

// ListByMonth answers GET /appointments/month?year=2025&month=3
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	rows, err := h.list.ByMonth(c.Request.Context(), salonID(c), uintQuery(c, "professional_id"), year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *AppointmentHandler) Availability(c *gin.Context) {
	profID := uintQuery(c, "professional_id")
	serviceID := uintQuery(c, "service_id")
	date := c.Query("date")
	if profID == 0 || serviceID == 0 || date == "" {
		httperr.BadRequest(c, "missing_params", "Profissional, serviço e data obrigatórios.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), salonID(c), profID, serviceID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"date": date, "slots": slots})
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.changeStatus.Confirm)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.changeStatus.Cancel)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.transition(c, h.changeStatus.NoShow)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.complete.Execute)
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, salonID, userID, id uint) (*models.Appointment, error),
) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := fn(c.Request.Context(), salonID(c), userID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), appointment.RescheduleInput{
		SalonID:       salonID(c),
		UserID:        userID(c),
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}
