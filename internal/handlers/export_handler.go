package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/export"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

// ExportSource provides the rows of each spreadsheet for [from, to).
type ExportSource interface {
	Appointments(ctx context.Context, salonID uint, from, to time.Time) ([]models.Appointment, error)
	Sales(ctx context.Context, salonID uint, from, to time.Time) ([]models.Sale, error)
	CashMovements(ctx context.Context, salonID uint, from, to time.Time) ([]models.CashMovement, error)
	Ledger(ctx context.Context, salonID uint, from, to time.Time) ([]models.Payable, []models.Receivable, error)
}

type ExportHandler struct {
	db       *gorm.DB
	src      ExportSource
	archiver *export.Archiver
}

// NewExportHandler accepts a nil archiver when object storage is not configured.
func NewExportHandler(db *gorm.DB, src ExportSource, archiver *export.Archiver) *ExportHandler {
	return &ExportHandler{db: db, src: src, archiver: archiver}
}

type buildFunc func(ctx context.Context, salonID uint, from, to time.Time, loc *time.Location) (*bytes.Buffer, error)

func (h *ExportHandler) Appointments(c *gin.Context) {
	h.serve(c, "agendamentos", func(ctx context.Context, salonID uint, from, to time.Time, loc *time.Location) (*bytes.Buffer, error) {
		rows, err := h.src.Appointments(ctx, salonID, from, to)
		if err != nil {
			return nil, err
		}
		return export.Appointments(rows, loc)
	})
}

func (h *ExportHandler) Sales(c *gin.Context) {
	h.serve(c, "vendas", func(ctx context.Context, salonID uint, from, to time.Time, loc *time.Location) (*bytes.Buffer, error) {
		rows, err := h.src.Sales(ctx, salonID, from, to)
		if err != nil {
			return nil, err
		}
		return export.Sales(rows, loc)
	})
}

func (h *ExportHandler) CashMovements(c *gin.Context) {
	h.serve(c, "caixa", func(ctx context.Context, salonID uint, from, to time.Time, loc *time.Location) (*bytes.Buffer, error) {
		rows, err := h.src.CashMovements(ctx, salonID, from, to)
		if err != nil {
			return nil, err
		}
		return export.CashMovements(rows, loc)
	})
}

func (h *ExportHandler) Ledger(c *gin.Context) {
	h.serve(c, "financeiro", func(ctx context.Context, salonID uint, from, to time.Time, loc *time.Location) (*bytes.Buffer, error) {
		payables, receivables, err := h.src.Ledger(ctx, salonID, from, to)
		if err != nil {
			return nil, err
		}
		return export.Ledger(payables, receivables, loc)
	})
}

// serve builds the workbook for ?from=&to= and either streams it or, with
// ?archive=true, stores it and returns a download link.
func (h *ExportHandler) serve(c *gin.Context, name string, build buildFunc) {
	salon, ok := currentSalon(h.db, c)
	if !ok {
		return
	}

	loc := timezone.Location(salon.Timezone)
	from, to, ok := h.period(c, loc)
	if !ok {
		return
	}

	buf, err := build(c.Request.Context(), salon.ID, from, to, loc)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	filename := fmt.Sprintf("%s-%s-%s.xlsx", name, from.Format("20060102"), to.AddDate(0, 0, -1).Format("20060102"))

	if c.Query("archive") != "true" {
		httpresp.File(c, filename, export.XLSXContentType, buf.Bytes())
		return
	}

	if h.archiver == nil {
		httperr.Respond(c, httperr.ErrBusiness("storage_disabled"))
		return
	}
	key, url, err := h.archiver.Archive(c.Request.Context(), salon.ID, filename, export.XLSXContentType, buf.Bytes())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"key": key, "url": url})
}

// period parses from/to as days in the salon's zone.
func (h *ExportHandler) period(c *gin.Context, loc *time.Location) (time.Time, time.Time, bool) {
	from, err1 := time.ParseInLocation("2006-01-02", c.Query("from"), loc)
	to, err2 := time.ParseInLocation("2006-01-02", c.Query("to"), loc)
	if err1 != nil || err2 != nil || to.Before(from) {
		httperr.BadRequest(c, "invalid_period", "Período inválido.")
		return time.Time{}, time.Time{}, false
	}
	return from, to.AddDate(0, 0, 1), true
}
