package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

func salonID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextSalonID).(uint)
}

func userID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

// idParam reads a numeric path parameter, answering 400 when it is not one.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(400, gin.H{
			"error_code": "invalid_request",
			"message":    "Dados inválidos na requisição.",
			"details":    err.Error(),
		})
		return false
	}
	return true
}

func uintQuery(c *gin.Context, key string) uint {
	v, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// dateQuery parses an optional YYYY-MM-DD query value in the default zone.
// A malformed value answers 400.
func dateQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	t, err := timezone.ParseDate("", raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return nil, false
	}
	return &t, true
}

// periodQuery reads from/to as a half-open day range [from, to+1d).
func periodQuery(c *gin.Context) (time.Time, time.Time, bool) {
	from, ok := dateQuery(c, "from")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if from == nil || to == nil {
		httperr.BadRequest(c, "invalid_period", "Período inválido.")
		return time.Time{}, time.Time{}, false
	}
	return *from, to.AddDate(0, 0, 1), true
}

// currentSalon loads the salon of the authenticated user.
func currentSalon(db *gorm.DB, c *gin.Context) (*models.Salon, bool) {
	var salon models.Salon
	if err := db.WithContext(c.Request.Context()).First(&salon, salonID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "salon_not_found", "Salão não encontrado.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &salon, true
}

// rangeQuery reads optional from/to dates; to is made exclusive (next day).
func rangeQuery(c *gin.Context) (*time.Time, *time.Time, bool) {
	from, ok := dateQuery(c, "from")
	if !ok {
		return nil, nil, false
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return nil, nil, false
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	return from, to, true
}

func parseDay(s string) (time.Time, error) {
	return timezone.ParseDate("", strings.TrimSpace(s))
}
