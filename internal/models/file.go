package models

// FileCategory tags a descriptor with the profile field it came from.
type FileCategory string

const (
	CategoryCurriculum FileCategory = "curriculum"
	CategoryFees       FileCategory = "fees"
	CategoryAdmission  FileCategory = "admission"
	CategoryVideo      FileCategory = "video"
	CategoryExam       FileCategory = "exam"
	CategoryAdditional FileCategory = "additional"
)

// MediaType describes how a descriptor should be previewed or downloaded.
type MediaType string

const (
	MediaDocument MediaType = "document"
	MediaYouTube  MediaType = "youtube"
	MediaVideo    MediaType = "video"
	MediaImage    MediaType = "image"
)

// FileDescriptor is a transient view over one retrievable school asset.
// It is rebuilt from the profile on every listing and never persisted.
// The URL is always fully resolved and encoded before the descriptor is
// handed out.
type FileDescriptor struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	URL         string       `json:"url"`
	Category    FileCategory `json:"category"`
	Type        MediaType    `json:"type"`
	Year        *int         `json:"year,omitempty"`
	Description string       `json:"description,omitempty"`
	Size        *int64       `json:"size,omitempty"`
}

// FileQuery collects listing parameters.
type FileQuery struct {
	Search   string
	Category FileCategory
	SortBy   string
}

// Sort keys accepted by the file listing.
const (
	FileSortName     = "name"
	FileSortYear     = "year"
	FileSortSize     = "size"
	FileSortCategory = "category"
)

// FileDownloadResult reports one file's outcome within a batch download.
type FileDownloadResult struct {
	FileID  string `json:"file_id"`
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BatchDownloadSummary aggregates per-file outcomes.
type BatchDownloadSummary struct {
	Total     int                  `json:"total"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Results   []FileDownloadResult `json:"results"`
}
