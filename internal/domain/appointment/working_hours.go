package appointment

import (
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

// IsWithinWorkingHours valida se um horário está dentro do expediente,
// incluindo pausa de almoço.
func IsWithinWorkingHours(wh *models.WorkingHours, start, end time.Time) bool {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}

	workStart, err1 := timezone.AtClock(start, wh.StartTime)
	workEnd, err2 := timezone.AtClock(start, wh.EndTime)
	if err1 != nil || err2 != nil {
		return false
	}

	if start.Before(workStart) || end.After(workEnd) {
		return false
	}

	if lunch, ok := lunchInterval(wh, start); ok && lunch.Overlaps(start, end) {
		return false
	}

	return true
}
