package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// MeHandler answers the dashboard bootstrap call: who is logged in, which
// salon, and whether there is a cash register open to sell on.
type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())

	var user models.User
	err := db.Preload("Salon").
		Where("salon_id = ?", salonID(c)).
		First(&user, userID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Unauthorized(c, "user_not_found", "Usuário não encontrado.")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var open int64
	if err := db.Model(&models.CashRegister{}).
		Where("salon_id = ? AND status = ?", user.SalonID, cashregister.StatusOpen).
		Count(&open).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":               userView(&user),
		"salon":              user.Salon,
		"cash_register_open": open > 0,
	})
}
