// Package app orchestrates the Load → Analyze → Compose pipeline behind
// the service boundary.
package app

import (
	"context"
	"io"
	"os"

	"github.com/Ivanfun/ivan-excel-type-checker/adapters/excel"
	"github.com/Ivanfun/ivan-excel-type-checker/domain/consistency"
	"github.com/Ivanfun/ivan-excel-type-checker/internal"
	"github.com/Ivanfun/ivan-excel-type-checker/internal/errors"
	"github.com/Ivanfun/ivan-excel-type-checker/internal/storage"
)

// ReportService turns one uploaded spreadsheet into a downloadable
// consistency report. Each call is synchronous, owns its transient
// working storage, and releases it on every exit path.
type ReportService struct {
	loader   *excel.Loader
	composer *excel.Composer
	store    *storage.OutputStore
	logger   *internal.Logger
}

// NewReportService creates the service around an output store.
func NewReportService(store *storage.OutputStore, logger *internal.Logger) *ReportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportService{
		loader:   excel.NewLoader(logger),
		composer: excel.NewComposer(logger),
		store:    store,
		logger:   logger,
	}
}

// AnalyzeAndReport processes the input stream and returns the filename
// the finished report was published under. Classified failures come
// back as-is; anything unanticipated is logged in full and surfaced as
// a generic internal failure. No partial report is ever published.
func (s *ReportService) AnalyzeAndReport(ctx context.Context, input io.Reader, formatHint, filename string) (outputFilename string, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("[ReportService] panic while processing %s: %v", filename, r)
			outputFilename = ""
			err = errors.InternalFailure("internal error while processing document")
		}
	}()

	outputFilename, err = s.process(ctx, input, formatHint, filename)
	if err != nil {
		if errors.IsUserFacing(err) {
			s.logger.Warn("[ReportService] rejected %s: %v", filename, err)
			return "", err
		}
		s.logger.Error("[ReportService] processing %s failed: %v", filename, err)
		return "", errors.InternalFailure("internal error while processing document")
	}
	return outputFilename, nil
}

func (s *ReportService) process(ctx context.Context, input io.Reader, formatHint, filename string) (string, error) {
	format, err := excel.ParseFormat(formatHint)
	if err != nil {
		return "", err
	}

	workDir, err := storage.NewScopedDir()
	if err != nil {
		return "", err
	}
	defer func() {
		if releaseErr := workDir.Release(); releaseErr != nil {
			s.logger.Error("[ReportService] failed to release working directory %s: %v",
				workDir.Path(), releaseErr)
		}
	}()

	inputPath := workDir.Join(filename)
	if err := writeStream(inputPath, input); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "request cancelled")
	}

	ds, err := s.loader.Load(inputPath, format)
	if err != nil {
		return "", err
	}

	result := consistency.Analyze(ds)
	s.logger.Info("[ReportService] %s analyzed: %d names with inconsistent types, %d rows flagged",
		filename, result.FlaggedNames, result.FlaggedRows)

	outputName := excel.OutputFilename(filename, format)
	composePath := workDir.Join(outputName)
	if err := s.composer.Compose(ds, result, format, inputPath, composePath); err != nil {
		return "", err
	}

	published, err := s.store.Publish(composePath, outputName)
	if err != nil {
		return "", err
	}
	return published, nil
}

// writeStream copies the uploaded stream into the scoped working dir.
func writeStream(path string, input io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stage upload at %s", path)
	}
	if _, err := io.Copy(f, input); err != nil {
		f.Close()
		return errors.Wrap(err, "failed to stage uploaded document")
	}
	return f.Close()
}
