package model

import "time"

// Suggestion is the planner's answer for one task draft. Confidence is a
// heuristic score in [0.1, 0.9], not a calibrated probability.
type Suggestion struct {
	Time         time.Time
	Confidence   float64
	Reason       string
	Alternatives []Alternative
}

// Alternative is a ranked fallback slot; at most two accompany a
// suggestion, ordered by descending confidence.
type Alternative struct {
	Time       time.Time
	Confidence float64
	Reason     string
}
