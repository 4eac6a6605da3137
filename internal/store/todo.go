package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/hearthhq/hearth/internal/model"
)

type TodoStore struct {
	db *sql.DB
}

func NewTodoStore(db *sql.DB) *TodoStore {
	return &TodoStore{db: db}
}

func scanTodo(scanner interface{ Scan(...any) error }) (*model.Todo, error) {
	var t model.Todo
	var completed int
	var assignedTo sql.NullString

	err := scanner.Scan(
		&t.ID, &t.HouseholdID, &t.Title, &completed, &t.Priority,
		&assignedTo, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Completed = completed != 0
	if assignedTo.Valid {
		t.AssignedTo = &assignedTo.String
	}
	return &t, nil
}

const todoCols = `id, household_id, title, completed, priority, assigned_to, created_by, created_at, updated_at`

func (s *TodoStore) Create(householdID int64, title string, assignedTo *string, priority, createdBy string) (*model.Todo, error) {
	if priority == "" {
		priority = model.DefaultPriority
	}
	var aTo sql.NullString
	if assignedTo != nil {
		aTo = sql.NullString{String: *assignedTo, Valid: true}
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO todos (id, household_id, title, priority, assigned_to, created_by) VALUES (?, ?, ?, ?, ?, ?)`,
		id, householdID, title, priority, aTo, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return s.GetByID(householdID, id)
}

func (s *TodoStore) GetByID(householdID int64, id string) (*model.Todo, error) {
	row := s.db.QueryRow(
		`SELECT `+todoCols+` FROM todos WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	t, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

func (s *TodoStore) List(householdID int64) ([]model.Todo, error) {
	rows, err := s.db.Query(
		`SELECT `+todoCols+` FROM todos WHERE household_id = ? ORDER BY created_at DESC, rowid DESC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

func (s *TodoStore) Update(householdID int64, id, title string, completed bool, priority string, assignedTo *string) (*model.Todo, error) {
	var aTo sql.NullString
	if assignedTo != nil {
		aTo = sql.NullString{String: *assignedTo, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE todos SET title = ?, completed = ?, priority = ?, assigned_to = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND household_id = ?`,
		title, completed, priority, aTo, id, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return s.GetByID(householdID, id)
}

func (s *TodoStore) Toggle(householdID int64, id string) (*model.Todo, error) {
	todo, err := s.GetByID(householdID, id)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, nil
	}

	completed := 0
	if !todo.Completed {
		completed = 1
	}
	_, err = s.db.Exec(
		`UPDATE todos SET completed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		completed, id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle todo: %w", err)
	}
	return s.GetByID(householdID, id)
}

func (s *TodoStore) Delete(householdID int64, id string) error {
	_, err := s.db.Exec(`DELETE FROM todos WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

// SetAllCompleted marks every todo in the household and returns the updated
// list.
func (s *TodoStore) SetAllCompleted(householdID int64, completed bool) ([]model.Todo, error) {
	_, err := s.db.Exec(
		`UPDATE todos SET completed = ?, updated_at = CURRENT_TIMESTAMP WHERE household_id = ?`,
		completed, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("set all completed: %w", err)
	}
	return s.List(householdID)
}

// DeleteCompleted removes every completed todo in the household and returns
// the ids that were deleted.
func (s *TodoStore) DeleteCompleted(householdID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT id FROM todos WHERE household_id = ? AND completed = 1`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completed todos: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan todo id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		`DELETE FROM todos WHERE household_id = ? AND completed = 1`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("delete completed todos: %w", err)
	}
	return ids, nil
}

func (s *TodoStore) CountOpen(householdID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM todos WHERE household_id = ? AND completed = 0`,
		householdID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count open todos: %w", err)
	}
	return count, nil
}
