// Package models defines client-side data models used by the Campus Connect CLI.
package models

// User is the authenticated account identity as reported by the backend.
// At most one User is live per process; the session manager owns it.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
}
