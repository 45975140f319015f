package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type AppointmentListDTO struct {
	ID               uint            `json:"id"`
	StartTime        time.Time       `json:"start_time"`
	EndTime          time.Time       `json:"end_time"`
	Status           string          `json:"status"`
	CustomerName     string          `json:"customer_name"`
	CustomerPhone    string          `json:"customer_phone"`
	ServiceName      string          `json:"service_name"`
	ProfessionalID   uint            `json:"professional_id"`
	ProfessionalName string          `json:"professional_name"`
	Price            decimal.Decimal `json:"price"`
}

func AppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, AppointmentListDTO{
			ID:               ap.ID,
			StartTime:        ap.StartTime,
			EndTime:          ap.EndTime,
			Status:           ap.Status,
			CustomerName:     ap.Customer.Name,
			CustomerPhone:    ap.Customer.Phone,
			ServiceName:      ap.Service.Name,
			ProfessionalID:   ap.ProfessionalID,
			ProfessionalName: ap.Professional.Name,
			Price:            ap.Price,
		})
	}
	return out
}
