package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/media"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type ProfessionalHandler struct {
	db     *gorm.DB
	audit  *audit.Dispatcher
	photos *media.PhotoUploader
}

func NewProfessionalHandler(db *gorm.DB, audit *audit.Dispatcher, photos *media.PhotoUploader) *ProfessionalHandler {
	return &ProfessionalHandler{db: db, audit: audit, photos: photos}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateProfessionalRequest struct {
	Name           string          `json:"name" binding:"required"`
	Email          string          `json:"email" binding:"omitempty,email"`
	Phone          string          `json:"phone"`
	Specialty      string          `json:"specialty"`
	CommissionRate decimal.Decimal `json:"commission_rate" binding:"gte=0,lte=100"`
	CalendarID     string          `json:"calendar_id"`
}

type UpdateProfessionalRequest struct {
	Name           *string          `json:"name"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	Specialty      *string          `json:"specialty"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	CalendarID     *string          `json:"calendar_id"`
	Active         *bool            `json:"active"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *ProfessionalHandler) find(c *gin.Context) (*models.Professional, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	var p models.Professional
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND salon_id = ?", id, salonID(c)).
		First(&p).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &p, true
}

func validRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(decimal.NewFromInt(100))
}

// ======================================================
// CRUD
// ======================================================

func (h *ProfessionalHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Where("salon_id = ?", salonID(c))
	if c.Query("active") == "true" {
		q = q.Where("active = true")
	}

	var pros []models.Professional
	if err := q.Order("name ASC").Find(&pros).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, pros)
}

func (h *ProfessionalHandler) Get(c *gin.Context) {
	p, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, p)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	var req CreateProfessionalRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validRate(req.CommissionRate) {
		httperr.BadRequest(c, "invalid_commission_rate", "Comissão deve estar entre 0 e 100%.")
		return
	}

	p := models.Professional{
		SalonID:        salonID(c),
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		Specialty:      strings.TrimSpace(req.Specialty),
		CommissionRate: req.CommissionRate.Round(2),
		CalendarID:     strings.TrimSpace(req.CalendarID),
		Active:         true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "professional_created", "professional", &p.ID, nil)
	httpresp.Created(c, p)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	p, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateProfessionalRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "name_required", "Nome obrigatório.")
			return
		}
		p.Name = name
	}
	if req.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		p.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Specialty != nil {
		p.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.CommissionRate != nil {
		if !validRate(*req.CommissionRate) {
			httperr.BadRequest(c, "invalid_commission_rate", "Comissão deve estar entre 0 e 100%.")
			return
		}
		p.CommissionRate = req.CommissionRate.Round(2)
	}
	if req.CalendarID != nil {
		p.CalendarID = strings.TrimSpace(*req.CalendarID)
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(p).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "professional_updated", "professional", &p.ID, nil)
	httpresp.OK(c, p)
}

// ======================================================
// PHOTO
// ======================================================

func (h *ProfessionalHandler) UploadPhoto(c *gin.Context) {
	p, ok := h.find(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadSize)
	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Imagem inválida.")
		return
	}
	defer file.Close()

	url, err := h.photos.Upload(c.Request.Context(), p.SalonID, p.ID, file)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(p).
		Update("photo_url", url).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "professional_photo_updated", "professional", &p.ID, nil)
	httpresp.OK(c, gin.H{"photo_url": url})
}
