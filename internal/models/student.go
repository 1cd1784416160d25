package models

import "time"

// StudentStatus reflects whether a learner is currently enrolled.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusGraduated StudentStatus = "graduated"
	StudentStatusSuspended StudentStatus = "suspended"
	StudentStatusLeft      StudentStatus = "left"
)

// Student represents a learner registered at the school. The admission
// number is the unique login key.
type Student struct {
	ID              string        `db:"id" json:"id"`
	AdmissionNumber string        `db:"admission_number" json:"admission_number"`
	FirstName       string        `db:"first_name" json:"first_name"`
	MiddleName      *string       `db:"middle_name" json:"middle_name,omitempty"`
	LastName        string        `db:"last_name" json:"last_name"`
	Form            string        `db:"form" json:"form"`
	Stream          string        `db:"stream" json:"stream"`
	GuardianName    string        `db:"guardian_name" json:"guardian_name"`
	GuardianPhone   string        `db:"guardian_phone" json:"guardian_phone"`
	Email           string        `db:"email" json:"email,omitempty"`
	Status          StudentStatus `db:"status" json:"status"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// FullName joins the stored name parts, skipping an absent middle name.
func (s *Student) FullName() string {
	name := s.FirstName
	if s.MiddleName != nil && *s.MiddleName != "" {
		name += " " + *s.MiddleName
	}
	return name + " " + s.LastName
}

// CreateStudentRequest is the admin payload for registering a student.
type CreateStudentRequest struct {
	AdmissionNumber string  `json:"admission_number" validate:"required"`
	FirstName       string  `json:"first_name" validate:"required"`
	MiddleName      *string `json:"middle_name,omitempty"`
	LastName        string  `json:"last_name" validate:"required"`
	Form            string  `json:"form" validate:"required"`
	Stream          string  `json:"stream"`
	GuardianName    string  `json:"guardian_name"`
	GuardianPhone   string  `json:"guardian_phone"`
	Email           string  `json:"email" validate:"omitempty,email"`
}

// UpdateStudentRequest is the admin payload for amending a student record.
// Nil fields are left untouched.
type UpdateStudentRequest struct {
	FirstName     *string        `json:"first_name,omitempty"`
	MiddleName    *string        `json:"middle_name,omitempty"`
	LastName      *string        `json:"last_name,omitempty"`
	Form          *string        `json:"form,omitempty"`
	Stream        *string        `json:"stream,omitempty"`
	GuardianName  *string        `json:"guardian_name,omitempty"`
	GuardianPhone *string        `json:"guardian_phone,omitempty"`
	Email         *string        `json:"email,omitempty" validate:"omitempty,email"`
	Status        *StudentStatus `json:"status,omitempty"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Form      string
	Stream    string
	Status    *StudentStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPagination derives pagination metadata from a total row count.
func NewPagination(page, pageSize, total int) *Pagination {
	if pageSize <= 0 {
		pageSize = 20
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return &Pagination{Page: page, PageSize: pageSize, TotalItems: total, TotalPages: pages}
}
