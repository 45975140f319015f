package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, audit: audit}
}

type WorkingDayConfig struct {
	Weekday    *int   `json:"weekday" binding:"required,min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) professionalID(c *gin.Context) (uint, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return 0, false
	}

	var p models.Professional
	if err := h.db.WithContext(c.Request.Context()).
		Select("id").
		Where("id = ? AND salon_id = ?", id, salonID(c)).
		First(&p).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
			return 0, false
		}
		httperr.Respond(c, err)
		return 0, false
	}
	return p.ID, true
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	profID, ok := h.professionalID(c)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("professional_id = ?", profID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "Erro ao buscar horários.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update replaces the whole week of a professional.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	profID, ok := h.professionalID(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	seen := map[int]bool{}
	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[*d.Weekday] {
			httperr.BadRequest(c, "duplicated_weekday", "Dia da semana repetido.")
			return
		}
		seen[*d.Weekday] = true

		if d.Active && !validDay(d) {
			httperr.BadRequest(c, "invalid_working_hours", "Horário de trabalho inválido.")
			return
		}

		toCreate = append(toCreate, models.WorkingHours{
			ProfessionalID: profID,
			Weekday:        *d.Weekday,
			Active:         d.Active,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
			LunchStart:     d.LunchStart,
			LunchEnd:       d.LunchEnd,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("professional_id = ?", profID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Erro ao salvar horários.")
		return
	}

	writeAudit(h.audit, c, "working_hours_updated", "professional", &profID, gin.H{"days": len(toCreate)})
	c.JSON(http.StatusOK, toCreate)
}

// validDay checks HH:MM clocks, start before end, and a lunch break inside
// the shift when one is given.
func validDay(d WorkingDayConfig) bool {
	start, err1 := time.Parse("15:04", d.StartTime)
	end, err2 := time.Parse("15:04", d.EndTime)
	if err1 != nil || err2 != nil || !start.Before(end) {
		return false
	}

	if d.LunchStart == "" && d.LunchEnd == "" {
		return true
	}
	ls, err1 := time.Parse("15:04", d.LunchStart)
	le, err2 := time.Parse("15:04", d.LunchEnd)
	if err1 != nil || err2 != nil {
		return false
	}
	return ls.Before(le) && !ls.Before(start) && !le.After(end)
}
