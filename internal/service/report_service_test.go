package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepulse/storepulse/internal/catalog"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/domain"
	"github.com/storepulse/storepulse/internal/storage"
)

type stubObjectStorage struct {
	objects      []storage.ObjectInfo
	listedPrefix string
	uploaded     map[string][]byte
	downloaded   map[string]string
}

func newStubObjectStorage() *stubObjectStorage {
	return &stubObjectStorage{
		uploaded:   map[string][]byte{},
		downloaded: map[string]string{},
	}
}

func (s *stubObjectStorage) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	s.listedPrefix = prefix
	return s.objects, nil
}

func (s *stubObjectStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	s.downloaded[key] = destPath
	return os.WriteFile(destPath, []byte("product_id,name\n"), 0o644)
}

func (s *stubObjectStorage) UploadObject(ctx context.Context, key string, data []byte) error {
	s.uploaded[key] = data
	return nil
}

func newReportFixture(dir string, uploader storage.ObjectStorage) *ReportService {
	store := catalog.NewMemoryStore()
	store.SetProducts([]domain.Product{
		{ProductID: "P001", Name: "Sữa tươi", Category: "Dairy", CostPrice: decimal.NewFromInt(20000), SellPrice: decimal.NewFromInt(30000)},
	})
	store.SetTransactions([]domain.Transaction{
		{ProductID: "P001", Type: domain.TransExport, Quantity: 4, Date: time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC)},
	})
	cfg := config.ReportConfig{Currency: "VND", TopK: 5, Dir: dir}
	return NewReportService(store, cfg, time.UTC, uploader)
}

func TestReportServiceUploadKeyCarriesPrefix(t *testing.T) {
	ctx := context.Background()
	uploader := newStubObjectStorage()
	svc := newReportFixture(t.TempDir(), uploader)

	summary, path, err := svc.Financial(ctx, ReportParams{Month: 10, Year: 2025, Export: true, Upload: true})
	require.NoError(t, err)
	assert.Equal(t, "120000", summary.TotalRevenue.String())
	require.NotEmpty(t, path)

	require.Len(t, uploader.uploaded, 1)
	_, ok := uploader.uploaded["reports/"+filepath.Base(path)]
	assert.True(t, ok, "uploads land under the reports/ prefix")
}

func TestReportServiceListExports(t *testing.T) {
	ctx := context.Background()
	uploader := newStubObjectStorage()
	uploader.objects = []storage.ObjectInfo{
		{Key: "reports/sales_summary_10_2025.csv", Size: 128},
	}
	svc := newReportFixture(t.TempDir(), uploader)

	objects, err := svc.ListExports(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "reports/sales_summary_10_2025.csv", objects[0].Key)
	assert.Equal(t, "reports/", uploader.listedPrefix)
}

func TestReportServiceFetchExport(t *testing.T) {
	ctx := context.Background()
	uploader := newStubObjectStorage()
	dir := t.TempDir()
	svc := newReportFixture(dir, uploader)

	path, err := svc.FetchExport(ctx, "reports/sales_summary_10_2025.csv", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sales_summary_10_2025.csv"), path)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestReportServiceRemoteOpsWithoutStorage(t *testing.T) {
	ctx := context.Background()
	svc := newReportFixture(t.TempDir(), nil)

	_, err := svc.ListExports(ctx)
	assert.Error(t, err)

	_, err = svc.FetchExport(ctx, "reports/sales_summary_10_2025.csv", t.TempDir())
	assert.Error(t, err)
}
