package store

import (
	"database/sql"
	"fmt"

	"github.com/hearthhq/hearth/internal/model"
)

type PreferencesStore struct {
	db *sql.DB
}

func NewPreferencesStore(db *sql.DB) *PreferencesStore {
	return &PreferencesStore{db: db}
}

func scanPreferences(scanner interface{ Scan(...any) error }) (*model.UserPreferences, error) {
	var p model.UserPreferences
	var petCare, laundry, cooking, organization, plantCare, houseWork, yardWork, familyCare int

	err := scanner.Scan(
		&p.UserID, &petCare, &laundry, &cooking, &organization,
		&plantCare, &houseWork, &yardWork, &familyCare, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.PetCare = petCare != 0
	p.Laundry = laundry != 0
	p.Cooking = cooking != 0
	p.Organization = organization != 0
	p.PlantCare = plantCare != 0
	p.HouseWork = houseWork != 0
	p.YardWork = yardWork != 0
	p.FamilyCare = familyCare != 0
	return &p, nil
}

const preferencesCols = `user_id, pet_care, laundry, cooking, organization, plant_care, house_work, yard_work, family_care, updated_at`

func (s *PreferencesStore) Get(userID int64) (*model.UserPreferences, error) {
	row := s.db.QueryRow(`SELECT `+preferencesCols+` FROM user_preferences WHERE user_id = ?`, userID)
	p, err := scanPreferences(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return p, nil
}

func (s *PreferencesStore) Upsert(p model.UserPreferences) (*model.UserPreferences, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_preferences (user_id, pet_care, laundry, cooking, organization, plant_care, house_work, yard_work, family_care)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   pet_care = excluded.pet_care,
		   laundry = excluded.laundry,
		   cooking = excluded.cooking,
		   organization = excluded.organization,
		   plant_care = excluded.plant_care,
		   house_work = excluded.house_work,
		   yard_work = excluded.yard_work,
		   family_care = excluded.family_care,
		   updated_at = CURRENT_TIMESTAMP`,
		p.UserID, p.PetCare, p.Laundry, p.Cooking, p.Organization,
		p.PlantCare, p.HouseWork, p.YardWork, p.FamilyCare,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert preferences: %w", err)
	}
	return s.Get(p.UserID)
}
