package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the online booking page, resolved by salon slug.
type PublicHandler struct {
	db           *gorm.DB
	create       *appointment.CreateAppointment
	availability *appointment.GetAvailability
}

func NewPublicHandler(
	db *gorm.DB,
	create *appointment.CreateAppointment,
	availability *appointment.GetAvailability,
) *PublicHandler {
	return &PublicHandler{db: db, create: create, availability: availability}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	CustomerName   string `json:"customer_name" binding:"required"`
	CustomerPhone  string `json:"customer_phone" binding:"required"`
	CustomerEmail  string `json:"customer_email" binding:"omitempty,email"`
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:mm
	Notes          string `json:"notes"`
}

type publicProfessional struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	PhotoURL  string `json:"photo_url"`
}

func (h *PublicHandler) salon(c *gin.Context) (*models.Salon, bool) {
	var salon models.Salon
	if err := h.db.WithContext(c.Request.Context()).
		Where("slug = ?", strings.ToLower(c.Param("slug"))).
		First(&salon).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "salon_not_found", "Salão não encontrado.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &salon, true
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	salon, ok := h.salon(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("salon_id = ? AND active = true", salon.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"salon":    salon,
		"services": services,
	})
}

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	salon, ok := h.salon(c)
	if !ok {
		return
	}

	var pros []models.Professional
	if err := h.db.WithContext(c.Request.Context()).
		Where("salon_id = ? AND active = true", salon.ID).
		Order("name ASC").
		Find(&pros).Error; err != nil {

		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	out := make([]publicProfessional, 0, len(pros))
	for _, p := range pros {
		out = append(out, publicProfessional{ID: p.ID, Name: p.Name, Specialty: p.Specialty, PhotoURL: p.PhotoURL})
	}
	c.JSON(http.StatusOK, out)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	profID := uintQuery(c, "professional_id")
	serviceID := uintQuery(c, "service_id")

	if date == "" || profID == 0 || serviceID == 0 {
		httperr.BadRequest(c, "missing_params", "Profissional, serviço e data obrigatórios.")
		return
	}

	salon, ok := h.salon(c)
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), salon.ID, profID, serviceID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	salon, ok := h.salon(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(
		c.Request.Context(),
		appointment.CreateAppointmentInput{
			SalonID:        salon.ID,
			ProfessionalID: req.ProfessionalID,
			ServiceID:      req.ServiceID,
			CustomerName:   req.CustomerName,
			CustomerPhone:  req.CustomerPhone,
			CustomerEmail:  req.CustomerEmail,
			Date:           req.Date,
			Time:           req.Time,
			Notes:          req.Notes,
		},
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         ap.ID,
		"status":     ap.Status,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
	})
}
