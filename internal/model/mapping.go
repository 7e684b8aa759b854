package model

// MaxMappings bounds the project settings table. The settings editor accepts up
// to this many rows and replaces the whole set on every save.
const MaxMappings = 8

// ProjectTaskMapping is a user-curated default: starting a timer for Project
// without an explicit task resolves to Task.
type ProjectTaskMapping struct {
	ID       string `json:"id"`
	Project  string `json:"project"`
	Task     string `json:"task"`
	Position int    `json:"position"`
}
