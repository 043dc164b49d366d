package employee

import "time"

// Employee is the persisted record shape in the employees collection.
// Date-only fields are stored as ISO "2006-01-02" strings so they compare
// lexicographically and survive round-trips byte for byte.
type Employee struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"`
	ManagerID    *string   `json:"manager_id"`
	Department   string    `json:"department,omitempty"`
	Position     string    `json:"position,omitempty"`
	HireDate     string    `json:"hire_date"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
