package model

import "time"

// ServiceJira is the only external service currently known to the store.
const ServiceJira = "jira"

// Credentials describes the connection to an external issue tracker. One
// logical row per service, fetched-or-created by name. Token is kept encrypted
// at rest; the store hands it out decrypted.
type Credentials struct {
	Service   string    `json:"service"`
	Endpoint  string    `json:"endpoint"`
	Email     string    `json:"email"`
	Token     string    `json:"token,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Configured reports whether the record is usable for API calls.
func (c *Credentials) Configured() bool {
	return c.Endpoint != "" && c.Email != "" && c.Token != ""
}
