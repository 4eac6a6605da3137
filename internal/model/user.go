package model

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	HouseholdID  int64     `json:"household_id"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPreferences holds the task-category preferences used by AI
// prioritization. A user with no saved row reads as all false.
// Only the category flags cross the wire.
type UserPreferences struct {
	UserID       int64     `json:"-"`
	PetCare      bool      `json:"pet_care"`
	Laundry      bool      `json:"laundry"`
	Cooking      bool      `json:"cooking"`
	Organization bool      `json:"organization"`
	PlantCare    bool      `json:"plant_care"`
	HouseWork    bool      `json:"house_work"`
	YardWork     bool      `json:"yard_work"`
	FamilyCare   bool      `json:"family_care"`
	UpdatedAt    time.Time `json:"-"`
}
