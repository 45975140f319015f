package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// ServiceHandler manages the salon's service catalog.
type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

type CreateServiceRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	DurationMin int             `json:"duration_min" binding:"required,min=5,max=600"`
	Price       decimal.Decimal `json:"price" binding:"gte=0"`
	Category    string          `json:"category"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	DurationMin *int             `json:"duration_min"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Active      *bool            `json:"active"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Where("salon_id = ?", salonID(c))

	if cat := strings.ToLower(strings.TrimSpace(c.Query("category"))); cat != "" {
		q = q.Where("LOWER(category) = ?", cat)
	}
	if c.Query("active") == "true" {
		q = q.Where("active = true")
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Price.IsNegative() {
		httperr.BadRequest(c, "invalid_amount", "Valor inválido.")
		return
	}

	s := models.Service{
		SalonID:     salonID(c),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		DurationMin: req.DurationMin,
		Price:       req.Price.Round(2),
		Category:    strings.TrimSpace(req.Category),
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&s).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "service_created", "service", &s.ID, nil)
	httpresp.Created(c, s)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var s models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND salon_id = ?", id, salonID(c)).
		First(&s).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "name_required", "Nome obrigatório.")
			return
		}
		s.Name = name
	}
	if req.Description != nil {
		s.Description = strings.TrimSpace(*req.Description)
	}
	if req.DurationMin != nil {
		if *req.DurationMin < 5 || *req.DurationMin > 600 {
			httperr.BadRequest(c, "invalid_duration", "Duração inválida.")
			return
		}
		s.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, "invalid_amount", "Valor inválido.")
			return
		}
		s.Price = req.Price.Round(2)
	}
	if req.Category != nil {
		s.Category = strings.TrimSpace(*req.Category)
	}
	if req.Active != nil {
		s.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&s).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "service_updated", "service", &s.ID, nil)
	httpresp.OK(c, s)
}
