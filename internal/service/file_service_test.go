package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	"github.com/Emmanuel10701/katwanyaa-api/pkg/storage"
)

type stubProber struct {
	sizes map[string]int64
}

func (s *stubProber) Head(ctx context.Context, key string) (int64, error) {
	size, ok := s.sizes[key]
	if !ok {
		return 0, assert.AnError
	}
	return size, nil
}

func newFileFixture(prober sizeProber) *FileService {
	resolver := storage.NewURLResolver("https://cdn.example.com", "katwanyaa-files")
	svc := NewFileService(resolver, prober, nil, nil, FileServiceConfig{})
	svc.sleep = func(time.Duration) {}
	return svc
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestAggregateSkipsUnsetFields(t *testing.T) {
	svc := newFileFixture(nil)

	video := "https://www.youtube.com/watch?v=abc123"
	profile := &models.SchoolProfile{
		ID:           "sch-1",
		Name:         "Katwanyaa High",
		VideoTourURL: &video,
		ExamResults: models.ExamResultMap{
			"KCSE 2023": {DocumentPath: "exams/kcse-2023.pdf", Year: intPtr(2023)},
		},
	}

	files := svc.Aggregate(context.Background(), profile)
	require.Len(t, files, 2, "only populated fields yield descriptors")

	assert.Equal(t, "video-tour", files[0].ID)
	assert.Equal(t, models.MediaYouTube, files[0].Type)
	assert.Equal(t, video, files[0].URL, "absolute URLs pass through untouched")

	assert.Equal(t, "exam-KCSE 2023", files[1].ID)
	assert.Equal(t, models.CategoryExam, files[1].Category)
	require.NotNil(t, files[1].Year)
	assert.Equal(t, 2023, *files[1].Year)
	assert.Equal(t, "https://cdn.example.com/katwanyaa-files/exams/kcse-2023.pdf", files[1].URL)
}

func TestAggregateNilProfile(t *testing.T) {
	svc := newFileFixture(nil)
	assert.Nil(t, svc.Aggregate(context.Background(), nil))
}

func TestAggregateOrderAndSizes(t *testing.T) {
	svc := newFileFixture(&stubProber{sizes: map[string]int64{
		"docs/curriculum.pdf": 1024,
		"docs/fees-day.pdf":   2048,
	}})

	curriculum := "docs/curriculum.pdf"
	feesDay := "docs/fees-day.pdf"
	profile := &models.SchoolProfile{
		ID:                  "sch-1",
		Name:                "Katwanyaa High",
		CurriculumDocPath:   &curriculum,
		FeeStructureDayPath: &feesDay,
		AdditionalFiles: models.AdditionalFileList{
			{Name: "Newsletter", Path: "docs/newsletter.pdf", Year: intPtr(2024)},
		},
	}

	files := svc.Aggregate(context.Background(), profile)
	require.Len(t, files, 3)

	assert.Equal(t, []string{"curriculum", "fees-day", "additional-0"},
		[]string{files[0].ID, files[1].ID, files[2].ID}, "builder order is fixed")

	require.NotNil(t, files[0].Size)
	assert.Equal(t, int64(1024), *files[0].Size)
	require.NotNil(t, files[1].Size)
	assert.Equal(t, int64(2048), *files[1].Size)
	assert.Nil(t, files[2].Size, "probe failures leave size unknown")
}

func TestQueryFilterAndSort(t *testing.T) {
	svc := newFileFixture(nil)

	files := []models.FileDescriptor{
		{ID: "a", Name: "Zebra Handbook", Category: models.CategoryAdditional, Year: intPtr(2021)},
		{ID: "b", Name: "Admission Fee", Category: models.CategoryAdmission},
		{ID: "c", Name: "KCSE Results", Category: models.CategoryExam, Year: intPtr(2023), Description: "exam archive"},
	}

	byCategory := svc.Query(files, models.FileQuery{Category: models.CategoryExam})
	require.Len(t, byCategory, 1)
	assert.Equal(t, "c", byCategory[0].ID)

	bySearch := svc.Query(files, models.FileQuery{Search: "ARCHIVE"})
	require.Len(t, bySearch, 1)
	assert.Equal(t, "c", bySearch[0].ID)

	byName := svc.Query(files, models.FileQuery{SortBy: models.FileSortName})
	assert.Equal(t, "b", byName[0].ID)
	assert.Equal(t, "a", byName[2].ID)

	byYear := svc.Query(files, models.FileQuery{SortBy: models.FileSortYear})
	assert.Equal(t, "c", byYear[0].ID, "newest first")
	assert.Equal(t, "b", byYear[2].ID, "undated files sort last")

	// The input order is untouched.
	assert.Equal(t, "a", files[0].ID)
}

func TestQuerySizeSort(t *testing.T) {
	svc := newFileFixture(nil)

	files := []models.FileDescriptor{
		{ID: "small", Size: int64Ptr(10)},
		{ID: "unknown"},
		{ID: "big", Size: int64Ptr(9999)},
	}

	sorted := svc.Query(files, models.FileQuery{SortBy: models.FileSortSize})
	assert.Equal(t, "big", sorted[0].ID)
	assert.Equal(t, "small", sorted[1].ID)
	assert.Equal(t, "unknown", sorted[2].ID)
}

func TestDownloadYouTubeIsDirect(t *testing.T) {
	svc := newFileFixture(nil)

	payload, err := svc.Download(context.Background(), models.FileDescriptor{
		ID:   "video-tour",
		URL:  "https://youtu.be/abc123",
		Type: models.MediaYouTube,
	})
	require.NoError(t, err)
	assert.True(t, payload.Direct)
	assert.Equal(t, "https://youtu.be/abc123", payload.URL)
	assert.Empty(t, payload.Data)
}

func TestDownloadFetchesBinary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 test"))
	}))
	defer server.Close()

	svc := newFileFixture(nil)
	payload, err := svc.Download(context.Background(), models.FileDescriptor{
		ID:   "curriculum",
		Name: "Curriculum",
		URL:  server.URL + "/curriculum.pdf",
		Type: models.MediaDocument,
	})
	require.NoError(t, err)
	assert.False(t, payload.Direct)
	assert.Equal(t, "application/pdf", payload.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 test"), payload.Data)
}

func TestDownloadAllToleratesFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken.pdf" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	svc := newFileFixture(nil)
	var pauses int
	svc.sleep = func(time.Duration) { pauses++ }

	files := []models.FileDescriptor{
		{ID: "a", Name: "First", URL: server.URL + "/a.pdf"},
		{ID: "b", Name: "Broken", URL: server.URL + "/broken.pdf"},
		{ID: "c", Name: "Last", URL: server.URL + "/c.pdf"},
	}

	summary := svc.DownloadAll(context.Background(), files)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 3)
	assert.True(t, summary.Results[0].Success)
	assert.False(t, summary.Results[1].Success)
	assert.NotEmpty(t, summary.Results[1].Error)
	assert.True(t, summary.Results[2].Success, "a failure never aborts the batch")
	assert.Equal(t, 2, pauses, "pause between files, not before the first")
}

func TestMediaTypeDetection(t *testing.T) {
	cases := []struct {
		url  string
		want models.MediaType
	}{
		{"https://www.youtube.com/watch?v=x", models.MediaYouTube},
		{"https://youtu.be/x", models.MediaYouTube},
		{"https://cdn.example.com/b/photo.JPG", models.MediaImage},
		{"https://cdn.example.com/b/tour.mp4?sig=abc", models.MediaVideo},
		{"https://cdn.example.com/b/doc.pdf", models.MediaDocument},
		{"https://cdn.example.com/b/no-extension", models.MediaDocument},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mediaTypeFor(tc.url), tc.url)
	}
}
