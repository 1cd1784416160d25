package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ExamResult is one published exam-results document keyed by exam name.
type ExamResult struct {
	DocumentPath string `json:"document_path,omitempty"`
	Year         *int   `json:"year,omitempty"`
}

// AdditionalFile is a free-form downloadable entry attached to the profile.
// Either URL (absolute) or Path (bucket-relative) identifies the asset.
type AdditionalFile struct {
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Path        string `json:"path,omitempty"`
	Year        *int   `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
	Size        *int64 `json:"size,omitempty"`
}

// ExamResultMap stores exam results as a JSONB column.
type ExamResultMap map[string]ExamResult

// Value implements driver.Valuer.
func (m ExamResultMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *ExamResultMap) Scan(src interface{}) error {
	return scanJSON(src, m, "exam results")
}

// AdditionalFileList stores additional files as a JSONB column.
type AdditionalFileList []AdditionalFile

// Value implements driver.Valuer.
func (l AdditionalFileList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *AdditionalFileList) Scan(src interface{}) error {
	return scanJSON(src, l, "additional files")
}

func scanJSON(src, dest interface{}, what string) error {
	if src == nil {
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported %s column type %T", what, src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

// SchoolProfile is the single record describing the school's public content.
// The file-bearing fields are all optional; a nil field simply means the
// document has not been uploaded yet.
type SchoolProfile struct {
	ID                       string             `db:"id" json:"id"`
	Name                     string             `db:"name" json:"name"`
	Motto                    string             `db:"motto" json:"motto,omitempty"`
	CurriculumDocPath        *string            `db:"curriculum_doc_path" json:"curriculum_doc_path,omitempty"`
	FeeStructureDayPath      *string            `db:"fee_structure_day_path" json:"fee_structure_day_path,omitempty"`
	FeeStructureBoardingPath *string            `db:"fee_structure_boarding_path" json:"fee_structure_boarding_path,omitempty"`
	AdmissionFeeDocPath      *string            `db:"admission_fee_doc_path" json:"admission_fee_doc_path,omitempty"`
	VideoTourURL             *string            `db:"video_tour_url" json:"video_tour_url,omitempty"`
	ExamResults              ExamResultMap      `db:"exam_results" json:"exam_results,omitempty"`
	AdditionalFiles          AdditionalFileList `db:"additional_files" json:"additional_files,omitempty"`
	UpdatedAt                time.Time          `db:"updated_at" json:"updated_at"`
}
