package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleStudent is the fixed role claim carried by student session tokens.
const RoleStudent = "student"

// StudentSessionCookie is the cookie name carrying the student session token.
const StudentSessionCookie = "student_session"

// StudentLoginRequest holds the portal login credentials: the claimed full
// name and the school-issued admission number.
type StudentLoginRequest struct {
	FullName        string `json:"fullName" validate:"required"`
	AdmissionNumber string `json:"admissionNumber" validate:"required"`
	IP              string `json:"-"`
	UserAgent       string `json:"-"`
}

// StudentClaims is the JWT payload for student session tokens. The claims
// are self-contained so verification never needs the audit table.
type StudentClaims struct {
	StudentID       string `json:"student_id"`
	AdmissionNumber string `json:"admission_number"`
	FullName        string `json:"full_name"`
	Form            string `json:"form"`
	Stream          string `json:"stream"`
	Role            string `json:"role"`
	jwt.RegisteredClaims
}

// StudentInfo describes the authenticated student in responses.
type StudentInfo struct {
	ID              string `json:"id"`
	AdmissionNumber string `json:"admissionNumber"`
	FullName        string `json:"fullName"`
	Form            string `json:"form"`
	Stream          string `json:"stream"`
}

// StudentLoginResponse is the portal login payload.
type StudentLoginResponse struct {
	Success     bool        `json:"success"`
	Student     StudentInfo `json:"student"`
	Token       string      `json:"token"`
	ExpiresIn   int64       `json:"expiresIn"`
	Permissions []string    `json:"permissions"`
}

// StudentVerifyResponse reports the outcome of a session check.
type StudentVerifyResponse struct {
	Success        bool         `json:"success"`
	Authenticated  bool         `json:"authenticated"`
	Student        *StudentInfo `json:"student,omitempty"`
	ExpiresAt      *time.Time   `json:"expiresAt,omitempty"`
	Error          string       `json:"error,omitempty"`
	RequiresReauth bool         `json:"requiresReauth,omitempty"`
}

// AdminRole classifies dashboard users.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "SUPERADMIN"
	RoleAdmin      AdminRole = "ADMIN"
)

// User represents a dashboard user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         AdminRole  `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AdminLoginRequest holds dashboard credentials.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginResponse returns the issued admin token and user info.
type AdminLoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        AdminInfo `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// AdminInfo describes the authenticated dashboard user.
type AdminInfo struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     AdminRole `json:"role"`
}

// AdminClaims is the JWT payload for dashboard access tokens.
type AdminClaims struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     AdminRole `json:"role"`
	jwt.RegisteredClaims
}
