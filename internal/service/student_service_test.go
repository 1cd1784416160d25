package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	appErrors "github.com/Emmanuel10701/katwanyaa-api/pkg/errors"
)

type mockStudentAdminRepo struct {
	students    map[string]models.Student
	deactivated []string
}

func (m *mockStudentAdminRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var result []models.Student
	for _, st := range m.students {
		result = append(result, st)
	}
	return result, len(result), nil
}

func (m *mockStudentAdminRepo) FindActiveByID(ctx context.Context, id string) (*models.Student, error) {
	st, ok := m.students[id]
	if !ok || st.Status != models.StudentStatusActive {
		return nil, sql.ErrNoRows
	}
	copied := st
	return &copied, nil
}

func (m *mockStudentAdminRepo) ExistsByAdmissionNumber(ctx context.Context, admissionNumber, excludeID string) (bool, error) {
	for _, st := range m.students {
		if st.AdmissionNumber == admissionNumber && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentAdminRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	if student.ID == "" {
		student.ID = "generated"
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentAdminRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentAdminRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	st := m.students[id]
	st.Status = models.StudentStatusLeft
	m.students[id] = st
	return nil
}

func TestStudentCreateUppercasesAdmission(t *testing.T) {
	repo := &mockStudentAdminRepo{}
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Create(context.Background(), models.CreateStudentRequest{
		AdmissionNumber: " adm042 ",
		FirstName:       "Peter",
		LastName:        "Mutua",
		Form:            "Form 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ADM042", student.AdmissionNumber)
	assert.Equal(t, models.StudentStatusActive, student.Status)
}

func TestStudentCreateDuplicateAdmission(t *testing.T) {
	repo := &mockStudentAdminRepo{students: map[string]models.Student{
		"st-1": {ID: "st-1", AdmissionNumber: "ADM042", Status: models.StudentStatusActive},
	}}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateStudentRequest{
		AdmissionNumber: "adm042",
		FirstName:       "Peter",
		LastName:        "Mutua",
		Form:            "Form 1",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict.Code))
}

func TestStudentUpdateMergesFields(t *testing.T) {
	repo := &mockStudentAdminRepo{students: map[string]models.Student{
		"st-1": {
			ID: "st-1", AdmissionNumber: "ADM001", FirstName: "Mary", LastName: "Kamau",
			Form: "Form 2", Stream: "East", Status: models.StudentStatusActive,
		},
	}}
	svc := NewStudentService(repo, nil, nil)

	form := "Form 3"
	student, err := svc.Update(context.Background(), "st-1", models.UpdateStudentRequest{Form: &form})
	require.NoError(t, err)
	assert.Equal(t, "Form 3", student.Form)
	assert.Equal(t, "Mary", student.FirstName, "unsupplied fields are untouched")
	assert.Equal(t, "East", student.Stream)
}

func TestStudentDeactivateUnknown(t *testing.T) {
	svc := NewStudentService(&mockStudentAdminRepo{}, nil, nil)

	err := svc.Deactivate(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))
}

func TestStudentExportCSV(t *testing.T) {
	repo := &mockStudentAdminRepo{students: map[string]models.Student{
		"st-1": {
			ID: "st-1", AdmissionNumber: "ADM001", FirstName: "Mary", LastName: "Kamau",
			Form: "Form 3", Stream: "East", Status: models.StudentStatusActive,
		},
	}}
	svc := NewStudentService(repo, nil, nil)

	data, contentType, err := svc.Export(context.Background(), models.StudentFilter{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(data)
	assert.True(t, strings.HasPrefix(body, "Admission No,Name,Form,Stream,Guardian,Phone,Status"))
	assert.Contains(t, body, "ADM001")
	assert.Contains(t, body, "Mary Kamau")
}

func TestStudentExportUnknownFormat(t *testing.T) {
	svc := NewStudentService(&mockStudentAdminRepo{}, nil, nil)

	_, _, err := svc.Export(context.Background(), models.StudentFilter{}, "xlsx")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
}
