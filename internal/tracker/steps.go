package tracker

import (
	"time"

	"github.com/example/motogo/internal/models"
)

// Step is one row of the transition table: the status a ride sits in and how
// long it dwells there before moving to the next row.
type Step struct {
	Status models.Status
	Dwell  time.Duration
}

// DefaultSteps is the scripted progression used when no dispatch backend
// reports real ride events.
var DefaultSteps = []Step{
	{Status: models.StatusSearching, Dwell: 3000 * time.Millisecond},
	{Status: models.StatusFound, Dwell: 2000 * time.Millisecond},
	{Status: models.StatusPickup, Dwell: 5000 * time.Millisecond},
	{Status: models.StatusOngoing, Dwell: 8000 * time.Millisecond},
	{Status: models.StatusCompleted},
}

// DefaultDriver is assigned on entering found when the ride carries no matched driver.
var DefaultDriver = models.DriverProfile{
	Name:    "Victo Hugo",
	Rating:  4.9,
	Vehicle: "Honda CG 160",
	Plate:   "ABC-1234",
	Photo:   "👨‍🦱",
}

// Scale returns a copy of steps with every dwell multiplied by factor.
func Scale(steps []Step, factor float64) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = Step{Status: s.Status, Dwell: time.Duration(float64(s.Dwell) * factor)}
	}
	return out
}

func validSteps(steps []Step) bool {
	if len(steps) == 0 || steps[0].Status != models.StatusSearching {
		return false
	}
	for i := 1; i < len(steps); i++ {
		if steps[i].Status.Index() != steps[i-1].Status.Index()+1 {
			return false
		}
	}
	return steps[len(steps)-1].Status.Terminal()
}
