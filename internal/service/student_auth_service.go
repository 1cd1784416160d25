package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	appErrors "github.com/Emmanuel10701/katwanyaa-api/pkg/errors"
)

type studentLookupRepository interface {
	FindActiveByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error)
	FindActiveByID(ctx context.Context, id string) (*models.Student, error)
}

type studentSessionRepository interface {
	Create(ctx context.Context, session *models.StudentSession) error
	FindByToken(ctx context.Context, token string) (*models.StudentSession, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// StudentAuthConfig defines configuration for the student session flow.
type StudentAuthConfig struct {
	Secret     string
	SessionTTL time.Duration
	Issuer     string
}

// studentPermissions is the fixed capability set granted to every portal login.
var studentPermissions = []string{"view_profile", "view_results", "download_files"}

// StudentAuthService issues, verifies and revokes student portal sessions.
// The signed token is the sole source of truth; the session table is a
// best-effort audit trail that never gates the primary flow.
type StudentAuthService struct {
	students  studentLookupRepository
	sessions  studentSessionRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    StudentAuthConfig
	now       func() time.Time
}

// NewStudentAuthService constructs a StudentAuthService instance.
func NewStudentAuthService(students studentLookupRepository, sessions studentSessionRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config StudentAuthConfig) *StudentAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = 15 * time.Minute
	}
	return &StudentAuthService{
		students:  students,
		sessions:  sessions,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
	}
}

// Login validates the claimed identity and issues a session token.
func (s *StudentAuthService) Login(ctx context.Context, req models.StudentLoginRequest) (*models.StudentLoginResponse, error) {
	if s.config.Secret == "" {
		return nil, appErrors.Clone(appErrors.ErrConfig, "student session secret is not configured")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "full name and admission number are required")
	}

	student, err := s.resolveStudent(ctx, req.FullName, req.AdmissionNumber)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.generateSessionToken(student)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	// Audit copy only. A failed insert must never block the login.
	if err := s.sessions.Create(ctx, &models.StudentSession{
		ID:        uuid.NewString(),
		StudentID: student.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record session audit row", zap.String("student_id", student.ID), zap.Error(err))
	}

	s.metrics.RecordSessionIssued()

	return &models.StudentLoginResponse{
		Success:     true,
		Student:     studentInfo(student),
		Token:       token,
		ExpiresIn:   int64(s.config.SessionTTL.Seconds()),
		Permissions: studentPermissions,
	}, nil
}

// Verify checks a presented session token and returns the current identity.
func (s *StudentAuthService) Verify(ctx context.Context, token string) (*models.StudentVerifyResponse, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "no session token provided")
	}

	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}

	student, err := s.students.FindActiveByID(ctx, claims.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "student not found or no longer active")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	// Observational cross-check against the audit table. The table may not
	// exist in every deployment, so any failure here is a warning at most.
	if session, auditErr := s.sessions.FindByToken(ctx, token); auditErr != nil {
		s.logger.Debug("session audit row unavailable", zap.Error(auditErr))
	} else if session.StudentID != student.ID {
		s.logger.Warn("session audit row does not match token subject",
			zap.String("audit_student_id", session.StudentID),
			zap.String("token_student_id", student.ID))
	}

	info := studentInfo(student)
	expiresAt := claims.ExpiresAt.Time
	return &models.StudentVerifyResponse{
		Success:       true,
		Authenticated: true,
		Student:       &info,
		ExpiresAt:     &expiresAt,
	}, nil
}

// Logout revokes the session. Deletion of the audit row is best-effort and
// the operation always succeeds from the caller's perspective.
func (s *StudentAuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		s.logger.Warn("failed to delete session audit row", zap.Error(err))
	}
	if deleted, err := s.sessions.DeleteExpired(ctx, s.now().UTC()); err != nil {
		s.logger.Warn("failed to sweep expired session rows", zap.Error(err))
	} else if deleted > 0 {
		s.logger.Debug("swept expired session rows", zap.Int64("deleted", deleted))
	}
}

// ParseToken validates a session token and returns its claims. Expired
// tokens are reported distinctly so clients know to re-authenticate.
func (s *StudentAuthService) ParseToken(tokenString string) (*models.StudentClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.StudentClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Wrap(err, appErrors.ErrTokenExpired.Code, appErrors.ErrTokenExpired.Status, appErrors.ErrTokenExpired.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	claims, ok := token.Claims.(*models.StudentClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token claims")
	}

	if claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrWrongTokenType, "")
	}

	return claims, nil
}

// resolveStudent normalizes the claimed identity and matches it against the
// stored record. An unknown admission number and a name mismatch yield the
// same error on purpose so responses cannot be used to enumerate records.
func (s *StudentAuthService) resolveStudent(ctx context.Context, fullName, admissionNumber string) (*models.Student, error) {
	admission := strings.ToUpper(strings.TrimSpace(admissionNumber))
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(fullName)))

	if len(tokens) < 2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "full name must include at least a first and last name")
	}

	student, err := s.students.FindActiveByAdmissionNumber(ctx, admission)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrContactStaff, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	first := tokens[0]
	last := tokens[len(tokens)-1]
	middle := strings.Join(tokens[1:len(tokens)-1], " ")

	if !strings.EqualFold(first, student.FirstName) || !strings.EqualFold(last, student.LastName) {
		return nil, appErrors.Clone(appErrors.ErrContactStaff, "")
	}
	// A supplied middle name must match; an omitted one is not compared.
	if middle != "" {
		stored := ""
		if student.MiddleName != nil {
			stored = *student.MiddleName
		}
		if !strings.EqualFold(middle, stored) {
			return nil, appErrors.Clone(appErrors.ErrContactStaff, "")
		}
	}

	return student, nil
}

func (s *StudentAuthService) generateSessionToken(student *models.Student) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.SessionTTL)
	claims := &models.StudentClaims{
		StudentID:       student.ID,
		AdmissionNumber: student.AdmissionNumber,
		FullName:        student.FullName(),
		Form:            student.Form,
		Stream:          student.Stream,
		Role:            models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   student.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func studentInfo(student *models.Student) models.StudentInfo {
	return models.StudentInfo{
		ID:              student.ID,
		AdmissionNumber: student.AdmissionNumber,
		FullName:        student.FullName(),
		Form:            student.Form,
		Stream:          student.Stream,
	}
}
