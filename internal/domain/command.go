package domain

import "time"

// Command is the unit of work flowing through the bulk pipeline: one line of
// input text plus the instant it was read. Batches are carried as synthetic
// Commands whose text is the joined batch and whose timestamp is the first
// command's.
type Command struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"ts"`
}
