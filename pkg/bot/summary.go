package bot

import "fmt"

// Summary reports what a batch operation did
type Summary struct {
	Operation string
	Total     int
	Processed int
	Changed   int
	Failed    int
	Matches   int

	// Cancelled is set when the context was cancelled before every item
	// was processed
	Cancelled bool
	// RateLimited is set when the like quota ran out
	RateLimited bool
}

func (s Summary) String() string {
	msg := fmt.Sprintf("%s: %d/%d processed, %d changed", s.Operation, s.Processed, s.Total, s.Changed)
	if s.Matches > 0 {
		msg += fmt.Sprintf(", %d matches", s.Matches)
	}
	if s.Failed > 0 {
		msg += fmt.Sprintf(", %d failed", s.Failed)
	}
	if s.RateLimited {
		msg += ", out of likes"
	}
	if s.Cancelled {
		msg += ", cancelled"
	}
	return msg
}
