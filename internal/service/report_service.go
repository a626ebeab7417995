package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/storepulse/storepulse/internal/catalog"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/domain"
	"github.com/storepulse/storepulse/internal/report"
	"github.com/storepulse/storepulse/internal/storage"
)

// Uploaded exports live under one key prefix so they can be listed and
// fetched back without knowing the exact filename.
const exportKeyPrefix = "reports/"

// ReportService computes financial summaries. Summaries depend on a
// moving window, so the service never caches them; every call walks the
// ledger fresh.
type ReportService struct {
	store    catalog.Store
	cfg      config.ReportConfig
	loc      *time.Location
	uploader storage.ObjectStorage
}

// NewReportService wires the report pipeline. uploader may be nil when
// no object store is configured; exports then stay local.
func NewReportService(store catalog.Store, cfg config.ReportConfig, loc *time.Location, uploader storage.ObjectStorage) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{store: store, cfg: cfg, loc: loc, uploader: uploader}
}

// ReportParams are the per-request knobs; zero values fall back to the
// configured defaults.
type ReportParams struct {
	Month            int
	Year             int
	TopK             int
	IncludeZeroSales bool
	Currency         string
	Export           bool
	Upload           bool
}

// Financial computes the summary for the requested period. When Export
// is set the summary is also written to the report directory; a failed
// export (or upload) still returns the computed summary alongside the
// error so callers can render it.
func (s *ReportService) Financial(ctx context.Context, params ReportParams) (domain.FinancialSummary, string, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return domain.FinancialSummary{}, "", fmt.Errorf("failed to load products: %w", err)
	}
	transactions, err := s.store.Transactions(ctx)
	if err != nil {
		return domain.FinancialSummary{}, "", fmt.Errorf("failed to load transactions: %w", err)
	}

	currency := params.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}
	topK := params.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	summary, err := report.Compute(products, transactions, report.Options{
		Month:            params.Month,
		Year:             params.Year,
		TopK:             topK,
		IncludeZeroSales: params.IncludeZeroSales,
		Currency:         currency,
		Location:         s.loc,
	})
	if err != nil {
		return domain.FinancialSummary{}, "", err
	}

	if !params.Export {
		return summary, "", nil
	}

	path, err := report.WriteSummaryFile(s.cfg.Dir, summary)
	if err != nil {
		return summary, "", fmt.Errorf("failed to export summary: %w", err)
	}

	if params.Upload {
		if s.uploader == nil {
			return summary, path, fmt.Errorf("no object storage configured for upload")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return summary, path, fmt.Errorf("failed to read export for upload: %w", err)
		}
		key := exportKeyPrefix + filepath.Base(path)
		if err := s.uploader.UploadObject(ctx, key, data); err != nil {
			return summary, path, err
		}
		log.Info().Str("key", key).Msg("financial summary uploaded")
	}
	return summary, path, nil
}

// ListExports returns the report files previously uploaded to object
// storage.
func (s *ReportService) ListExports(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("no object storage configured")
	}
	return s.uploader.ListObjects(ctx, exportKeyPrefix)
}

// FetchExport downloads one uploaded report into dir and returns the
// local path. The filename is taken from the object key.
func (s *ReportService) FetchExport(ctx context.Context, key, dir string) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("no object storage configured")
	}
	dest := filepath.Join(dir, filepath.Base(key))
	if err := s.uploader.DownloadObject(ctx, key, dest); err != nil {
		return "", err
	}
	log.Info().Str("key", key).Str("path", dest).Msg("report export downloaded")
	return dest, nil
}
