package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

type SalonHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewSalonHandler(db *gorm.DB, audit *audit.Dispatcher) *SalonHandler {
	return &SalonHandler{db: db, audit: audit}
}

type UpdateSalonRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

func (h *SalonHandler) load(c *gin.Context) (*models.Salon, bool) {
	var salon models.Salon
	if err := h.db.WithContext(c.Request.Context()).First(&salon, salonID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "salon_not_found", "Salão não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_salon", "Erro ao buscar dados do salão.")
		return nil, false
	}
	return &salon, true
}

func (h *SalonHandler) Get(c *gin.Context) {
	salon, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, salon)
}

func (h *SalonHandler) Update(c *gin.Context) {
	salon, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateSalonRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "name_required", "Nome obrigatório.")
			return
		}
		salon.Name = name
	}
	if req.Phone != nil {
		salon.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		salon.Address = strings.TrimSpace(*req.Address)
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		salon.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		salon.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(salon).Error; err != nil {
		httperr.Internal(c, "failed_to_update_salon", "Erro ao salvar as configurações do salão.")
		return
	}

	writeAudit(h.audit, c, "salon_updated", "salon", &salon.ID, req)
	c.JSON(http.StatusOK, salon)
}
