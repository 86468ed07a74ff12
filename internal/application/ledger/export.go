package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"strconv"
	"time"

	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	opDebtArchive = "debt.archive"

	// CSVContentType is the media type of debt exports
	CSVContentType = "text/csv; charset=utf-8"

	csvFlushEvery         = 100
	defaultArchiveLinkTTL = 15 * time.Minute
)

// DebtCSVHeader is the first row of every debt export
var DebtCSVHeader = []string{
	"id", "client_id", "total_amount", "remaining_amount", "paid_amount",
	"due_date", "status", "is_paid", "is_overdue", "created_at",
}

// DebtCSVRecord renders one debt as an export row
func DebtCSVRecord(d DebtResponse) []string {
	return []string{
		d.ID.String(),
		d.ClientID.String(),
		d.TotalAmount.StringFixed(2),
		d.RemainingAmount.StringFixed(2),
		d.PaidAmount.StringFixed(2),
		d.DueDate,
		d.Status,
		strconv.FormatBool(d.IsPaid),
		strconv.FormatBool(d.IsOverdue),
		d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteDebtsCSV writes the header and every row of rows to w and returns
// how many rows were written. The first error of rows stops the export.
func WriteDebtsCSV(w io.Writer, rows iter.Seq2[DebtResponse, error]) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(DebtCSVHeader); err != nil {
		return 0, err
	}
	written := 0
	for row, err := range rows {
		if err != nil {
			cw.Flush()
			return written, err
		}
		if err := cw.Write(DebtCSVRecord(row)); err != nil {
			return written, err
		}
		written++
		if written%csvFlushEvery == 0 {
			cw.Flush()
		}
	}
	cw.Flush()
	return written, cw.Error()
}

// ExportArchive keeps finished exports and hands out time-limited links to
// them
type ExportArchive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// ArchiveResponse describes a stored export
type ArchiveResponse struct {
	Key         string    `json:"key"`
	Rows        int       `json:"rows"`
	Size        int       `json:"size"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ExportService stores debt exports in an archive
type ExportService struct {
	debts   *DebtService
	archive ExportArchive
	guard   *AccessScopeGuard
	linkTTL time.Duration
	opts    serviceOptions
}

// NewExportService creates an ExportService. linkTTL bounds how long a
// download link stays valid; zero uses the default.
func NewExportService(
	debts *DebtService,
	archive ExportArchive,
	guard *AccessScopeGuard,
	linkTTL time.Duration,
	opts ...Option,
) *ExportService {
	if linkTTL <= 0 {
		linkTTL = defaultArchiveLinkTTL
	}
	return &ExportService{
		debts:   debts,
		archive: archive,
		guard:   guard,
		linkTTL: linkTTL,
		opts:    newServiceOptions(opts),
	}
}

// Archive renders the caller's matching debts as CSV, stores the document
// under the company's prefix and returns a download link. Unlike listing,
// archiving needs a company.
func (s *ExportService) Archive(ctx context.Context, p identity.Principal, input ListDebtsInput) (*ArchiveResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "archive",
		attribute.String(telemetry.SpanAttrFilter, input.Filter))
	defer span.End()

	result, err := s.archiveDebts(ctx, p, input)
	return result, s.opts.finish(ctx, span, opDebtArchive, err)
}

func (s *ExportService) archiveDebts(ctx context.Context, p identity.Principal, input ListDebtsInput) (*ArchiveResponse, error) {
	companyID, err := s.guard.RequireCompany(p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	rows, err := WriteDebtsCSV(&buf, s.debts.Stream(ctx, p, input))
	if err != nil {
		return nil, err
	}

	key := s.archiveKey(companyID)
	if err := s.archive.Put(ctx, key, buf.Bytes(), CSVContentType); err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}
	url, expiresAt, err := s.archive.DownloadURL(ctx, key, s.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign export link: %w", err)
	}

	s.opts.logger.Info("Debt export archived",
		zap.String("company_id", companyID.String()),
		zap.String("key", key),
		zap.Int("rows", rows))

	return &ArchiveResponse{
		Key:         key,
		Rows:        rows,
		Size:        buf.Len(),
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *ExportService) archiveKey(companyID uuid.UUID) string {
	stamp := s.opts.clock().UTC().Format("20060102T150405Z")
	return fmt.Sprintf("exports/%s/debts-%s-%s.csv", companyID, stamp, uuid.NewString()[:8])
}
