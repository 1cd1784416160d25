package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	appErrors "github.com/Emmanuel10701/katwanyaa-api/pkg/errors"
	"github.com/Emmanuel10701/katwanyaa-api/pkg/storage"
)

type sizeProber interface {
	Head(ctx context.Context, key string) (int64, error)
}

// FileServiceConfig tunes download behaviour.
type FileServiceConfig struct {
	InterFileDelay time.Duration
	FetchTimeout   time.Duration
}

// FileService builds the downloadable-file view over the school profile and
// drives search, sort and download operations against it. Descriptors are
// transient: rebuilt from the profile on every call, never persisted.
type FileService struct {
	resolver *storage.URLResolver
	prober   sizeProber
	client   *http.Client
	metrics  *MetricsService
	logger   *zap.Logger
	config   FileServiceConfig
	sleep    func(time.Duration)
}

// NewFileService constructs a FileService. The prober is optional; when nil,
// descriptor sizes stay unknown unless the profile carries them.
func NewFileService(resolver *storage.URLResolver, prober sizeProber, metrics *MetricsService, logger *zap.Logger, config FileServiceConfig) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.InterFileDelay <= 0 {
		config.InterFileDelay = 500 * time.Millisecond
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = 30 * time.Second
	}
	return &FileService{
		resolver: resolver,
		prober:   prober,
		client:   &http.Client{Timeout: config.FetchTimeout},
		metrics:  metrics,
		logger:   logger,
		config:   config,
		sleep:    time.Sleep,
	}
}

// Aggregate walks the profile's file-bearing fields in a fixed order and
// produces one descriptor per populated field. Unset fields are skipped
// entirely; no placeholders are emitted.
func (s *FileService) Aggregate(ctx context.Context, profile *models.SchoolProfile) []models.FileDescriptor {
	if profile == nil {
		return nil
	}

	builders := []func(context.Context, *models.SchoolProfile) []models.FileDescriptor{
		s.curriculumFiles,
		s.feeFiles,
		s.admissionFiles,
		s.videoFiles,
		s.examFiles,
		s.additionalFiles,
	}

	var files []models.FileDescriptor
	for _, build := range builders {
		files = append(files, build(ctx, profile)...)
	}
	return files
}

func (s *FileService) curriculumFiles(ctx context.Context, p *models.SchoolProfile) []models.FileDescriptor {
	if p.CurriculumDocPath == nil || *p.CurriculumDocPath == "" {
		return nil
	}
	return []models.FileDescriptor{s.document(ctx, "curriculum", "Curriculum", *p.CurriculumDocPath, models.CategoryCurriculum)}
}

func (s *FileService) feeFiles(ctx context.Context, p *models.SchoolProfile) []models.FileDescriptor {
	var files []models.FileDescriptor
	if p.FeeStructureDayPath != nil && *p.FeeStructureDayPath != "" {
		files = append(files, s.document(ctx, "fees-day", "Fee Structure (Day)", *p.FeeStructureDayPath, models.CategoryFees))
	}
	if p.FeeStructureBoardingPath != nil && *p.FeeStructureBoardingPath != "" {
		files = append(files, s.document(ctx, "fees-boarding", "Fee Structure (Boarding)", *p.FeeStructureBoardingPath, models.CategoryFees))
	}
	return files
}

func (s *FileService) admissionFiles(ctx context.Context, p *models.SchoolProfile) []models.FileDescriptor {
	if p.AdmissionFeeDocPath == nil || *p.AdmissionFeeDocPath == "" {
		return nil
	}
	return []models.FileDescriptor{s.document(ctx, "admission-fee", "Admission Fee", *p.AdmissionFeeDocPath, models.CategoryAdmission)}
}

func (s *FileService) videoFiles(_ context.Context, p *models.SchoolProfile) []models.FileDescriptor {
	if p.VideoTourURL == nil || *p.VideoTourURL == "" {
		return nil
	}
	url := s.resolver.Resolve(*p.VideoTourURL)
	return []models.FileDescriptor{{
		ID:       "video-tour",
		Name:     "School Video Tour",
		URL:      url,
		Category: models.CategoryVideo,
		Type:     videoMediaType(url),
	}}
}

func (s *FileService) examFiles(ctx context.Context, p *models.SchoolProfile) []models.FileDescriptor {
	if len(p.ExamResults) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p.ExamResults))
	for key := range p.ExamResults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var files []models.FileDescriptor
	for _, key := range keys {
		result := p.ExamResults[key]
		if result.DocumentPath == "" {
			continue
		}
		fd := s.document(ctx, "exam-"+key, key, result.DocumentPath, models.CategoryExam)
		fd.Year = result.Year
		files = append(files, fd)
	}
	return files
}

func (s *FileService) additionalFiles(ctx context.Context, p *models.SchoolProfile) []models.FileDescriptor {
	var files []models.FileDescriptor
	for i, entry := range p.AdditionalFiles {
		source := entry.URL
		if source == "" {
			source = entry.Path
		}
		if source == "" {
			continue
		}
		url := s.resolver.Resolve(source)
		fd := models.FileDescriptor{
			ID:          fmt.Sprintf("additional-%d", i),
			Name:        entry.Name,
			URL:         url,
			Category:    models.CategoryAdditional,
			Type:        mediaTypeFor(url),
			Year:        entry.Year,
			Description: entry.Description,
			Size:        entry.Size,
		}
		if fd.Name == "" {
			fd.Name = lastSegment(source)
		}
		if fd.Size == nil && entry.Path != "" {
			fd.Size = s.probeSize(ctx, entry.Path)
		}
		files = append(files, fd)
	}
	return files
}

func (s *FileService) document(ctx context.Context, id, name, path string, category models.FileCategory) models.FileDescriptor {
	fd := models.FileDescriptor{
		ID:       id,
		Name:     name,
		URL:      s.resolver.Resolve(path),
		Category: category,
		Type:     models.MediaDocument,
	}
	if !storage.IsAbsolute(path) {
		fd.Size = s.probeSize(ctx, path)
	}
	return fd
}

// probeSize asks the object store for the file size. Probe failures leave
// the size unknown rather than dropping the descriptor.
func (s *FileService) probeSize(ctx context.Context, key string) *int64 {
	if s.prober == nil {
		return nil
	}
	size, err := s.prober.Head(ctx, key)
	if err != nil {
		s.logger.Debug("size probe failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &size
}

// Query applies search, category filtering and sorting. Pure: the input
// slice is not mutated.
func (s *FileService) Query(files []models.FileDescriptor, query models.FileQuery) []models.FileDescriptor {
	out := make([]models.FileDescriptor, 0, len(files))
	search := strings.ToLower(strings.TrimSpace(query.Search))
	for _, fd := range files {
		if query.Category != "" && fd.Category != query.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(fd.Name), search) &&
			!strings.Contains(strings.ToLower(fd.Description), search) {
			continue
		}
		out = append(out, fd)
	}
	sortFiles(out, query.SortBy)
	return out
}

func sortFiles(files []models.FileDescriptor, sortBy string) {
	switch sortBy {
	case models.FileSortName:
		sort.SliceStable(files, func(i, j int) bool {
			return strings.ToLower(files[i].Name) < strings.ToLower(files[j].Name)
		})
	case models.FileSortYear:
		// Descending; files without a year sort after all dated files.
		sort.SliceStable(files, func(i, j int) bool {
			yi, yj := files[i].Year, files[j].Year
			if yi == nil {
				return false
			}
			if yj == nil {
				return true
			}
			return *yi > *yj
		})
	case models.FileSortSize:
		sort.SliceStable(files, func(i, j int) bool {
			si, sj := files[i].Size, files[j].Size
			if si == nil {
				return false
			}
			if sj == nil {
				return true
			}
			return *si > *sj
		})
	case models.FileSortCategory:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].Category < files[j].Category
		})
	}
}

// DownloadPayload is the result of fetching one descriptor. Direct payloads
// carry no bytes: the client opens the URL itself (youtube embeds).
type DownloadPayload struct {
	Direct      bool
	URL         string
	Data        []byte
	ContentType string
}

// Download fetches the descriptor's resolved URL as binary. YouTube media is
// never fetched; the caller is redirected to the URL instead.
func (s *FileService) Download(ctx context.Context, fd models.FileDescriptor) (*DownloadPayload, error) {
	if fd.Type == models.MediaYouTube {
		return &DownloadPayload{Direct: true, URL: fd.URL}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fd.URL, nil)
	if err != nil {
		s.metrics.RecordFileDownload(false)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build download request")
	}

	res, err := s.client.Do(req)
	if err != nil {
		s.metrics.RecordFileDownload(false)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to fetch %s", fd.Name))
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode >= http.StatusBadRequest {
		s.metrics.RecordFileDownload(false)
		return nil, appErrors.New(appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("fetch %s: status %d", fd.Name, res.StatusCode))
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		s.metrics.RecordFileDownload(false)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to read %s", fd.Name))
	}

	s.metrics.RecordFileDownload(true)
	return &DownloadPayload{Data: data, ContentType: res.Header.Get("Content-Type")}, nil
}

// DownloadAll fetches each file in sequence with a fixed pause between
// files. One failure never aborts the remaining downloads; the summary
// carries per-file outcomes.
func (s *FileService) DownloadAll(ctx context.Context, files []models.FileDescriptor) models.BatchDownloadSummary {
	summary := models.BatchDownloadSummary{Total: len(files)}
	for i, fd := range files {
		if i > 0 {
			s.sleep(s.config.InterFileDelay)
		}
		result := models.FileDownloadResult{FileID: fd.ID, Name: fd.Name}
		if _, err := s.Download(ctx, fd); err != nil {
			result.Error = appErrors.FromError(err).Message
			summary.Failed++
			s.logger.Warn("batch download item failed", zap.String("file", fd.Name), zap.Error(err))
		} else {
			result.Success = true
			summary.Succeeded++
		}
		summary.Results = append(summary.Results, result)
	}
	return summary
}

func videoMediaType(url string) models.MediaType {
	if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
		return models.MediaYouTube
	}
	return models.MediaVideo
}

func mediaTypeFor(url string) models.MediaType {
	if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
		return models.MediaYouTube
	}
	trimmed := url
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	switch strings.ToLower(lastDot(trimmed)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return models.MediaImage
	case ".mp4", ".webm", ".mov":
		return models.MediaVideo
	default:
		return models.MediaDocument
	}
}

func lastDot(s string) string {
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		return s[idx:]
	}
	return ""
}

func lastSegment(s string) string {
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}
