package patient

import (
	"time"

	"github.com/google/uuid"
)

// Gender values accepted for a patient.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

var validGenders = map[string]bool{
	GenderMale:   true,
	GenderFemale: true,
}

// Patient maps to the patient table.
type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	DOB       time.Time  `db:"dob" json:"dob"`
	Gender    string     `db:"gender" json:"gender"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	Address   *string    `db:"address" json:"address,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// CreatePatientRequest is the payload for registering a patient.
type CreatePatientRequest struct {
	Name    string    `json:"name" validate:"required"`
	DOB     time.Time `json:"dob" validate:"required"`
	Gender  string    `json:"gender" validate:"required,oneof=MALE FEMALE"`
	Phone   *string   `json:"phone"`
	Address *string   `json:"address"`
}

// UpdatePatientRequest is a partial update; nil fields are left untouched.
type UpdatePatientRequest struct {
	Name    *string    `json:"name"`
	DOB     *time.Time `json:"dob"`
	Gender  *string    `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	Phone   *string    `json:"phone"`
	Address *string    `json:"address"`
}

// ListFilter holds the query filters accepted by the patient listing.
// Search spans name, phone and address.
type ListFilter struct {
	Name   string
	Gender string
	Phone  string
	Search string
}
