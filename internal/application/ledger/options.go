package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/debtbook/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Operation names used for spans, profiling labels and rejection metrics
const (
	opDebtCreate   = "debt.create"
	opPaymentApply = "payment.apply"
	opClientCreate = "client.create"
)

const (
	defaultListBatchSize  = 100
	defaultIdempotencyTTL = 24 * time.Hour
	maxIdempotencyKeyLen  = 128
)

// RejectionRecorder counts operations refused with a domain error
type RejectionRecorder interface {
	RecordRejection(ctx context.Context, operation, code string)
}

// Option configures the ledger services
type Option func(*serviceOptions)

type serviceOptions struct {
	clock          func() time.Time
	location       *time.Location
	logger         *zap.Logger
	publisher      shared.EventPublisher
	defaultDueDays int
	listBatchSize  int
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	rejections     RejectionRecorder
}

func newServiceOptions(opts []Option) serviceOptions {
	o := serviceOptions{
		clock:          time.Now,
		location:       time.UTC,
		logger:         zap.NewNop(),
		defaultDueDays: ledger.DefaultDueDays,
		listBatchSize:  defaultListBatchSize,
		idempotencyTTL: defaultIdempotencyTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces the wall clock
func WithClock(clock func() time.Time) Option {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLocation sets the time zone that decides what "today" is
func WithLocation(loc *time.Location) Option {
	return func(o *serviceOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventPublisher publishes domain events after each commit
func WithEventPublisher(publisher shared.EventPublisher) Option {
	return func(o *serviceOptions) {
		o.publisher = publisher
	}
}

// WithDefaultDueDays sets the due date offset for undated debts
func WithDefaultDueDays(days int) Option {
	return func(o *serviceOptions) {
		if days > 0 {
			o.defaultDueDays = days
		}
	}
}

// WithListBatchSize sets how many debts a sequence fetches per query
func WithListBatchSize(size int) Option {
	return func(o *serviceOptions) {
		if size > 0 {
			o.listBatchSize = size
		}
	}
}

// WithIdempotencyStore enables idempotency keys on payment application
func WithIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) Option {
	return func(o *serviceOptions) {
		o.idempotency = store
		if ttl > 0 {
			o.idempotencyTTL = ttl
		}
	}
}

// WithRejectionRecorder reports business-rule rejections, for example to
// the ledger metrics
func WithRejectionRecorder(recorder RejectionRecorder) Option {
	return func(o *serviceOptions) {
		o.rejections = recorder
	}
}

func companyLabel(p identity.Principal) string {
	if p.CompanyID == nil {
		return ""
	}
	return p.CompanyID.String()
}

func (o *serviceOptions) now() time.Time {
	return o.clock().In(o.location)
}

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publish hands pending events to the publisher once the transaction has
// committed. Failures are logged; the write already succeeded.
func (o *serviceOptions) publish(ctx context.Context, sources ...eventSource) {
	for _, src := range sources {
		events := src.GetDomainEvents()
		src.ClearDomainEvents()
		if o.publisher == nil || len(events) == 0 {
			continue
		}
		if err := o.publisher.Publish(ctx, events...); err != nil {
			o.logger.Warn("Failed to publish domain events",
				zap.Int("count", len(events)),
				zap.Error(err))
		}
	}
}

// finish closes out a traced operation: the span is marked with the outcome
// and domain rejections are counted under operation. err is returned as is.
func (o *serviceOptions) finish(ctx context.Context, span trace.Span, operation string, err error) error {
	if err == nil {
		telemetry.SetOK(span)
		return nil
	}
	telemetry.RecordError(span, err)

	var domainErr *shared.DomainError
	if o.rejections != nil && errors.As(err, &domainErr) {
		o.rejections.RecordRejection(ctx, operation, domainErr.Code)
	}
	return err
}
