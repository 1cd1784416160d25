package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	middle := "Mwende"
	return sqlmock.NewRows([]string{"id", "admission_number", "first_name", "middle_name", "last_name", "form", "stream",
		"guardian_name", "guardian_phone", "email", "status", "created_at", "updated_at"}).
		AddRow("s1", "KTW001", "Faith", middle, "Mutua", "Form 3", "North", "Jane Mutua", "0700000000", "", "active", time.Now(), time.Now())
}

func TestStudentRepositoryFindActiveByAdmissionNumber(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM students WHERE admission_number = \\$1 AND status = \\$2").
		WithArgs("KTW001", models.StudentStatusActive).
		WillReturnRows(studentRows())

	student, err := repo.FindActiveByAdmissionNumber(context.Background(), "KTW001")
	require.NoError(t, err)
	assert.Equal(t, "Faith", student.FirstName)
	assert.Equal(t, "Faith Mwende Mutua", student.FullName())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindActiveByAdmissionNumberNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM students WHERE admission_number = \\$1 AND status = \\$2").
		WithArgs("MISSING", models.StudentStatusActive).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActiveByAdmissionNumber(context.Background(), "MISSING")
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT s.id, s.admission_number(.+)FROM students s WHERE 1=1 ORDER BY s.created_at DESC LIMIT 20 OFFSET 0").
		WillReturnRows(studentRows())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students s WHERE 1=1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.Student{
		AdmissionNumber: "KTW002",
		FirstName:       "Brian",
		LastName:        "Kioko",
		Form:            "Form 1",
		Status:          models.StudentStatusActive,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCountByForm(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT form, COUNT\\(\\*\\) AS total FROM students WHERE status = \\$1 GROUP BY form").
		WithArgs(models.StudentStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"form", "total"}).AddRow("Form 1", 40).AddRow("Form 2", 35))

	counts, err := repo.CountByForm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Form 1": 40, "Form 2": 35}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
