package appointment

import (
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

type AvailabilityInput struct {
	SalonID        uint
	ProfessionalID uint
	ServiceID      uint
	Date           time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && end.After(i.Start)
}

// AvailableSlots splits the working day into back-to-back slots of the
// service duration and drops the ones that hit lunch, a busy interval or
// start before now.
func AvailableSlots(
	wh *models.WorkingHours,
	day time.Time,
	duration time.Duration,
	busy []Interval,
	now time.Time,
) []TimeSlot {

	slots := []TimeSlot{}
	if wh == nil || !wh.Active || duration <= 0 {
		return slots
	}

	dayStart, err1 := timezone.AtClock(day, wh.StartTime)
	dayEnd, err2 := timezone.AtClock(day, wh.EndTime)
	if err1 != nil || err2 != nil {
		return slots
	}

	lunch, hasLunch := lunchInterval(wh, day)

	for cur := dayStart; !cur.Add(duration).After(dayEnd); cur = cur.Add(duration) {
		slotStart := cur
		slotEnd := cur.Add(duration)

		if slotStart.Before(now) {
			continue
		}

		if hasLunch && lunch.Overlaps(slotStart, slotEnd) {
			continue
		}

		conflict := false
		for _, b := range busy {
			if b.Overlaps(slotStart, slotEnd) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	return slots
}

func lunchInterval(wh *models.WorkingHours, day time.Time) (Interval, bool) {
	if wh.LunchStart == "" || wh.LunchEnd == "" {
		return Interval{}, false
	}
	ls, err1 := timezone.AtClock(day, wh.LunchStart)
	le, err2 := timezone.AtClock(day, wh.LunchEnd)
	if err1 != nil || err2 != nil {
		return Interval{}, false
	}
	return Interval{Start: ls, End: le}, true
}
