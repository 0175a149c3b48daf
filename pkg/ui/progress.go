package ui

// LineProgress reports batch progress as timestamped status lines
type LineProgress struct {
	operation string
	total     int
	done      int
}

// NewLineProgress creates a line based progress reporter
func NewLineProgress() *LineProgress {
	return &LineProgress{}
}

func (p *LineProgress) Start(operation string, total int) {
	p.operation = operation
	p.total = total
	p.done = 0
	PrintStatus("%s: %d to process", operation, total)
}

func (p *LineProgress) Step(label, outcome string) {
	p.done++
	if p.total > 0 {
		PrintStatus("[%d/%d] %s: %s", p.done, p.total, label, outcome)
		return
	}
	PrintStatus("%s: %s", label, outcome)
}

func (p *LineProgress) Finish() {
	PrintStatus("%s finished, %d processed", p.operation, p.done)
}
