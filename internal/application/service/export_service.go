package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/pkg/apperror"
	"github.com/sangkips/invoicer/pkg/qr"
	"github.com/sangkips/invoicer/pkg/storage"
)

// Upload is a file posted alongside the form.
type Upload struct {
	Name string
	Data []byte
}

// ExportRequest is one "Export PDF" submission.
type ExportRequest struct {
	State entity.FormState
	Logo  *Upload
}

// ExportOptions configures the export service.
type ExportOptions struct {
	// AllowCopy enables copying the finished PDF into FormState.SaveDir.
	AllowCopy bool
	// ScratchDir holds uploaded logos while a render runs. Empty means os.TempDir().
	ScratchDir string
	// TTL is how long exports stay downloadable. Zero keeps them forever.
	TTL time.Duration
	Now func() time.Time
}

// ExportService validates a submitted form, renders it and keeps the
// resulting files for download.
type ExportService struct {
	layout *LayoutService
	render *RenderService
	store  storage.Store
	opts   ExportOptions
	logger *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(layout *LayoutService, render *RenderService, store storage.Store, opts ExportOptions, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ExportService{
		layout: layout,
		render: render,
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// Export renders req and stores invoice.pdf and qr.png under a new export id.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*entity.ExportResult, error) {
	state := req.State

	meta, table, err := s.layout.LayoutForm(state)
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp(s.opts.ScratchDir, "invoice-export-*")
	if err != nil {
		return nil, apperror.NewIOError("failed to create scratch directory", err)
	}
	defer os.RemoveAll(scratch)

	var logoPath string
	if req.Logo != nil && len(req.Logo.Data) > 0 {
		logoPath = filepath.Join(scratch, "logo"+strings.ToLower(filepath.Ext(filepath.Base(req.Logo.Name))))
		if err := os.WriteFile(logoPath, req.Logo.Data, 0o600); err != nil {
			return nil, apperror.NewIOError("failed to save uploaded logo", err)
		}
	}

	var pdfBuf bytes.Buffer
	err = s.render.RenderTo(ctx, &pdfBuf, RenderRequest{
		LogoPath: logoPath,
		QRData:   state.QRData,
		Metadata: meta,
		Layout:   table,
	})
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	result := &entity.ExportResult{
		ID:       id,
		Totals:   table.Totals,
		Currency: meta.Currency,
	}

	if err := s.store.Save(exportKey(id, entity.InvoiceFileName), pdfBuf.Bytes()); err != nil {
		return nil, apperror.NewIOError("failed to store invoice", err)
	}
	result.Files = append(result.Files, entity.InvoiceFileName)

	if qr.HasPayload(state.QRData) {
		png, err := qr.Encode(state.QRData)
		if err != nil {
			return nil, err
		}
		if err := s.store.Save(exportKey(id, entity.QRFileName), png); err != nil {
			return nil, apperror.NewIOError("failed to store QR code", err)
		}
		result.Files = append(result.Files, entity.QRFileName)
	}

	if dir := strings.TrimSpace(state.SaveDir); dir != "" {
		copied, err := s.copyTo(dir, pdfBuf.Bytes())
		if err != nil {
			s.logger.Warn("Failed to copy invoice to save directory", zap.String("dir", dir), zap.Error(err))
			result.CopyError = err.Error()
		} else {
			result.CopiedTo = copied
		}
	}

	s.logger.Info("Invoice exported",
		zap.String("export_id", id.String()),
		zap.String("invoice_number", meta.InvoiceNumber),
		zap.Int("items", len(table.Rows)),
		zap.String("grand_total", table.Totals.GrandTotal().StringFixed(2)),
	)
	return result, nil
}

// Open returns a stored export file and its size.
func (s *ExportService) Open(ctx context.Context, exportID, file string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	id, err := uuid.Parse(exportID)
	if err != nil {
		return nil, 0, apperror.NewNotFoundError("Export")
	}
	if file != entity.InvoiceFileName && file != entity.QRFileName {
		return nil, 0, apperror.NewNotFoundError("Export file")
	}

	rc, size, err := s.store.Open(exportKey(id, file))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, 0, apperror.NewNotFoundError("Export file")
		}
		return nil, 0, apperror.NewIOError("failed to open export file", err)
	}
	return rc, size, nil
}

// PruneExpired removes exports older than the TTL.
func (s *ExportService) PruneExpired() (int, error) {
	if s.opts.TTL <= 0 {
		return 0, nil
	}

	removed, err := s.store.Prune(s.opts.Now().Add(-s.opts.TTL))
	if err != nil {
		s.logger.Warn("Failed to prune expired exports", zap.Int("removed", removed), zap.Error(err))
		return removed, apperror.NewIOError("failed to prune exports", err)
	}
	if removed > 0 {
		s.logger.Info("Pruned expired exports", zap.Int("removed", removed), zap.Duration("ttl", s.opts.TTL))
	}
	return removed, nil
}

// RunCleanup calls PruneExpired every interval until ctx is done. It returns
// at once when there is no TTL or interval.
func (s *ExportService) RunCleanup(ctx context.Context, interval time.Duration) {
	if s.opts.TTL <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.PruneExpired()
		}
	}
}

func (s *ExportService) copyTo(dir string, data []byte) (string, error) {
	if !s.opts.AllowCopy {
		return "", fmt.Errorf("saving to a local directory is disabled on this server")
	}
	return SaveCopy(dir, entity.InvoiceFileName, data)
}

// SaveCopy writes data as dir/name. dir must already exist.
func SaveCopy(dir, name string, data []byte) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("save directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("save directory %s is not a directory", dir)
	}
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return dst, nil
}

func exportKey(id uuid.UUID, file string) string {
	return id.String() + "/" + file
}
