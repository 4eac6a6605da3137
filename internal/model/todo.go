package model

import "time"

// DefaultPriority sorts unprioritized todos last. Priorities are stored as
// strings; AI prioritization assigns small integers to the front of the list.
const DefaultPriority = "999"

type Todo struct {
	ID          string    `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Title       string    `json:"title"`
	Completed   bool      `json:"completed"`
	Priority    string    `json:"priority"`
	AssignedTo  *string   `json:"assigned_to"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
