package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, admission_number, first_name, middle_name, last_name, form, stream,
        guardian_name, guardian_phone, email, status, created_at, updated_at`

// FindActiveByAdmissionNumber fetches an active student by admission number.
func (r *StudentRepository) FindActiveByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE admission_number = $1 AND status = $2`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, admissionNumber, models.StudentStatusActive); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindActiveByID fetches an active student by ID.
func (r *StudentRepository) FindActiveByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1 AND status = $2`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id, models.StudentStatusActive); err != nil {
		return nil, err
	}
	return &student, nil
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students s"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Form != "" {
		conditions = append(conditions, fmt.Sprintf("s.form = $%d", len(args)+1))
		args = append(args, filter.Form)
	}
	if filter.Stream != "" {
		conditions = append(conditions, fmt.Sprintf("s.stream = $%d", len(args)+1))
		args = append(args, filter.Stream)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		idx := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.first_name || ' ' || s.last_name) LIKE $%d OR UPPER(s.admission_number) LIKE UPPER($%d))", idx, idx))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"admission_number": "s.admission_number",
		"last_name":        "s.last_name",
		"form":             "s.form",
		"created_at":       "s.created_at",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "s.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.admission_number, s.first_name, s.middle_name, s.last_name, s.form, s.stream,
        s.guardian_name, s.guardian_phone, s.email, s.status, s.created_at, s.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ExistsByAdmissionNumber checks if a student with the given admission number
// exists, optionally excluding an ID.
func (r *StudentRepository) ExistsByAdmissionNumber(ctx context.Context, admissionNumber, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE admission_number = $1"
	args := []interface{}{admissionNumber}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check admission number: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, admission_number, first_name, middle_name, last_name, form, stream,
        guardian_name, guardian_phone, email, status, created_at, updated_at)
        VALUES (:id, :admission_number, :first_name, :middle_name, :last_name, :form, :stream,
        :guardian_name, :guardian_phone, :email, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET first_name = :first_name, middle_name = :middle_name, last_name = :last_name,
        form = :form, stream = :stream, guardian_name = :guardian_name, guardian_phone = :guardian_phone,
        email = :email, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Deactivate marks a student as having left the school.
func (r *StudentRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE students SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.StudentStatusLeft, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	return nil
}

// CountActive returns the number of active students.
func (r *StudentRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students WHERE status = $1", models.StudentStatusActive); err != nil {
		return 0, fmt.Errorf("count active students: %w", err)
	}
	return total, nil
}

// CountByForm returns active student counts keyed by form.
func (r *StudentRepository) CountByForm(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT form, COUNT(*) AS total FROM students WHERE status = $1 GROUP BY form", models.StudentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("count students by form: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	counts := make(map[string]int)
	for rows.Next() {
		var form string
		var total int
		if err := rows.Scan(&form, &total); err != nil {
			return nil, fmt.Errorf("scan form count: %w", err)
		}
		counts[form] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate form counts: %w", err)
	}
	return counts, nil
}
