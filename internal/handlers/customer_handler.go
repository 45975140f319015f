package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

type CustomerHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewCustomerHandler(db *gorm.DB, audit *audit.Dispatcher) *CustomerHandler {
	return &CustomerHandler{db: db, audit: audit}
}

type CustomerRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	BirthDate string `json:"birth_date"`
	Notes     string `json:"notes"`
}

func (h *CustomerHandler) find(c *gin.Context) (*models.Customer, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	var cu models.Customer
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND salon_id = ?", id, salonID(c)).
		First(&cu).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "customer_not_found", "Cliente não encontrado.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &cu, true
}

// apply copies the request into cu. Returns false after answering 400.
func (h *CustomerHandler) apply(c *gin.Context, cu *models.Customer, req CustomerRequest) bool {
	cu.Name = strings.TrimSpace(req.Name)
	cu.Phone = strings.TrimSpace(req.Phone)
	cu.Email = strings.ToLower(strings.TrimSpace(req.Email))
	cu.Notes = strings.TrimSpace(req.Notes)
	cu.BirthDate = nil

	if req.BirthDate != "" {
		bd, err := timezone.ParseDate("", req.BirthDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return false
		}
		cu.BirthDate = &bd
	}
	return true
}

// ======================================================
// LIST CUSTOMERS
// ======================================================
func (h *CustomerHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("salon_id = ?", salonID(c))

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var customers []models.Customer
	if err := q.
		Order("name ASC").
		Find(&customers).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, customers)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	cu, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, cu)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	cu := models.Customer{SalonID: salonID(c)}
	if !h.apply(c, &cu, req) {
		return
	}

	var count int64
	h.db.WithContext(c.Request.Context()).
		Model(&models.Customer{}).
		Where("salon_id = ? AND phone = ?", cu.SalonID, cu.Phone).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "phone_already_exists", "Já existe um cliente com este telefone.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&cu).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "customer_created", "customer", &cu.ID, nil)
	httpresp.Created(c, cu)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	cu, ok := h.find(c)
	if !ok {
		return
	}

	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.apply(c, cu, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(cu).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "customer_updated", "customer", &cu.ID, nil)
	httpresp.OK(c, cu)
}

// History returns the customer's appointments and sales, newest first.
func (h *CustomerHandler) History(c *gin.Context) {
	cu, ok := h.find(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var apps []models.Appointment
	if err := h.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Preload("Professional").
		Where("salon_id = ? AND customer_id = ?", cu.SalonID, cu.ID).
		Order("start_time DESC").
		Limit(100).
		Find(&apps).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	var sales []models.Sale
	if err := h.db.WithContext(ctx).
		Preload("Items").
		Where("salon_id = ? AND customer_id = ?", cu.SalonID, cu.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&sales).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"customer":     cu,
		"appointments": dto.AppointmentList(apps),
		"sales":        sales,
	})
}
