package model

import "time"

// TimeRecord represents a single tracked interval. A record with a nil End is
// the currently active timer; at most one such record exists in the store.
type TimeRecord struct {
	ID      string     `json:"id"`
	Project string     `json:"project"`
	Task    string     `json:"task"`
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"`
}

// NewTimeRecord creates an open record starting now.
func NewTimeRecord(id, project, task string, start time.Time) TimeRecord {
	return TimeRecord{
		ID:      id,
		Project: project,
		Task:    task,
		Start:   start.UTC().Truncate(time.Second),
	}
}

// Active returns true while the record has not been closed.
func (r *TimeRecord) Active() bool {
	return r.End == nil
}

// Duration returns the closed interval length, or the length up to now for an
// active record. Always derived from the timestamps, never stored.
func (r *TimeRecord) Duration(now time.Time) time.Duration {
	end := now
	if r.End != nil {
		end = *r.End
	}
	if end.Before(r.Start) {
		return 0
	}
	return end.Sub(r.Start)
}
