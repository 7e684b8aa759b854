package model

// Project is a catalog entry sourced from the issue tracker.
type Project struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	DefaultTask string `json:"defaultTask,omitempty"`
}

// Task is a time-tracking issue usable as a timer target.
type Task struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
}
