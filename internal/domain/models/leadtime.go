package models

import "time"

// LeadTimeEntry records the business-hours duration an order spent in queue
// before reaching Workstation: the span from the previous step's timestamp to
// this step's timestamp.
type LeadTimeEntry struct {
	Workstation string    `bson:"workstation" json:"workstation"`
	Start       time.Time `bson:"start" json:"start"`
	End         time.Time `bson:"end" json:"end"`
	Hours       float64   `bson:"hours" json:"hours"`
}
