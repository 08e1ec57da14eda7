package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bft-labs/txnload/internal/domain"
)

// ReportFileRepository implements ports.ReportRepository using a JSON file.
type ReportFileRepository struct {
	path string
}

// NewReportFileRepository creates a repository that writes to path.
func NewReportFileRepository(path string) *ReportFileRepository {
	return &ReportFileRepository{path: path}
}

// Load retrieves the last saved report from disk.
// Returns an empty report and nil error if no report file exists.
func (r *ReportFileRepository) Load(ctx context.Context) (domain.RunReport, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.RunReport{}, nil
		}
		return domain.RunReport{}, err
	}

	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return domain.RunReport{}, err
	}

	return report, nil
}

// Save persists the report atomically.
// Uses atomic write (write to temp file, then rename) to prevent corruption.
func (r *ReportFileRepository) Save(ctx context.Context, report domain.RunReport) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}

	tmp := r.path + ".tmp"

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, r.path)
}
