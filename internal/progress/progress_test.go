package progress

import (
	"errors"
	"testing"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker("scanning", 3)
	for i := 0; i < 3; i++ {
		tr.Tick()
	}
	tr.FinishSuccess()
}

func TestTrackerFinishError(t *testing.T) {
	tr := NewTracker("scanning", 1)
	tr.Tick()
	tr.FinishError(errors.New("boom"))
}

func TestSpinnerLifecycle(t *testing.T) {
	sp := NewSpinner("reading")
	sp.Tick()
	sp.Tick()
	sp.FinishSuccess()
}
