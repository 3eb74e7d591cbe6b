package models

import "time"

// Step is one workflow checkpoint for an order. Timestamp is nil while the
// workstation has not been reached yet; the portal still lists the step, so
// parsers must keep it in the slice rather than dropping it.
type Step struct {
	Name      string     `bson:"step" json:"step"`
	Timestamp *time.Time `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
}

// Order is a single job scraped from the manage page, with its workflow
// steps in portal order.
type Order struct {
	Number   string `json:"number"`
	Company  string `json:"company"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Steps    []Step `json:"steps"`
}
