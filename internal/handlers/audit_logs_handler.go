package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

type auditPage struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Logs  []models.AuditLog `json:"logs"`
}

// List pages through the salon's audit trail, newest first. Filters:
// action, entity, entity_id, user_id, request_id and a from/to day range.
func (h *AuditLogsHandler) List(c *gin.Context) {
	from, to, ok := rangeQuery(c)
	if !ok {
		return
	}
	page, limit := pagination(c, auditDefaultLimit, auditMaxLimit)

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("salon_id = ?", salonID(c))

	if action := strings.TrimSpace(c.Query("action")); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := strings.TrimSpace(c.Query("entity")); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if id := uintQuery(c, "entity_id"); id != 0 {
		q = q.Where("entity_id = ?", id)
	}
	if id := uintQuery(c, "user_id"); id != 0 {
		q = q.Where("user_id = ?", id)
	}
	if rid := strings.TrimSpace(c.Query("request_id")); rid != "" {
		q = q.Where("request_id = ?", rid)
	}
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", *to)
	}

	res := auditPage{Page: page, Limit: limit, Logs: []models.AuditLog{}}
	if err := q.Count(&res.Total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}
	if res.Total > 0 {
		if err := q.Order("created_at DESC").
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&res.Logs).Error; err != nil {

			httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
			return
		}
	}

	c.JSON(http.StatusOK, res)
}

// pagination reads page (1-based) and limit, clamping limit to maxLimit.
func pagination(c *gin.Context, defLimit, maxLimit int) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
