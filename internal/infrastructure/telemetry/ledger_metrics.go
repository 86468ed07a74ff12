package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

const statsTimeout = 5 * time.Second

// CompanyLedgerStats is the open position of one company
type CompanyLedgerStats struct {
	CompanyID    uuid.UUID
	Outstanding  decimal.Decimal
	OpenDebts    int64
	OverdueDebts int64
}

// LedgerStatsProvider reports per-company open positions for the
// outstanding-amount gauges
type LedgerStatsProvider interface {
	CompanyLedgerStats(ctx context.Context, today time.Time) ([]CompanyLedgerStats, error)
}

// LedgerMetricsConfig holds configuration for ledger metrics.
type LedgerMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	StatsProvider LedgerStatsProvider
	Clock         func() time.Time
	Location      *time.Location
}

// LedgerMetrics counts ledger activity from domain events and rejected
// requests, and observes outstanding balances on each collection.
type LedgerMetrics struct {
	logger   *zap.Logger
	provider LedgerStatsProvider
	clock    func() time.Time
	location *time.Location

	debtsOpened     *Counter
	debtAmount      *Histogram
	paymentsApplied *Counter
	paymentAmount   *Histogram
	debtsSettled    *Counter
	rejections      *Counter

	registration metric.Registration
}

// NewLedgerMetrics creates the ledger instruments. When a stats provider is
// given, outstanding and overdue gauges are registered as observables.
func NewLedgerMetrics(cfg LedgerMetricsConfig) (*LedgerMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	m := &LedgerMetrics{
		logger:   cfg.Logger,
		provider: cfg.StatsProvider,
		clock:    cfg.Clock,
		location: cfg.Location,
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if m.location == nil {
		m.location = time.UTC
	}

	var err error
	if m.debtsOpened, err = NewCounter(cfg.Meter, "debtbook_debts_opened_total", "Total number of debts opened", "{debt}"); err != nil {
		return nil, err
	}
	if m.debtAmount, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "debtbook_debt_amount",
		Description: "Distribution of opened debt totals",
		Unit:        "{currency}",
		Boundaries:  AmountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.paymentsApplied, err = NewCounter(cfg.Meter, "debtbook_payments_applied_total", "Total number of payments applied", "{payment}"); err != nil {
		return nil, err
	}
	if m.paymentAmount, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "debtbook_payment_amount",
		Description: "Distribution of applied payment amounts",
		Unit:        "{currency}",
		Boundaries:  AmountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.debtsSettled, err = NewCounter(cfg.Meter, "debtbook_debts_settled_total", "Total number of debts fully paid", "{debt}"); err != nil {
		return nil, err
	}
	if m.rejections, err = NewCounter(cfg.Meter, "debtbook_ledger_rejections_total", "Ledger operations rejected by business rules", "{request}"); err != nil {
		return nil, err
	}

	if cfg.StatsProvider != nil {
		if err := m.registerGauges(cfg.Meter); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *LedgerMetrics) registerGauges(meter metric.Meter) error {
	outstanding, err := meter.Float64ObservableGauge("debtbook_outstanding_amount",
		metric.WithDescription("Sum of remaining amounts of unpaid debts"),
		metric.WithUnit("{currency}"))
	if err != nil {
		return err
	}
	openDebts, err := meter.Int64ObservableGauge("debtbook_open_debts",
		metric.WithDescription("Number of unpaid debts"),
		metric.WithUnit("{debt}"))
	if err != nil {
		return err
	}
	overdue, err := meter.Int64ObservableGauge("debtbook_overdue_debts",
		metric.WithDescription("Number of unpaid debts past their due date"),
		metric.WithUnit("{debt}"))
	if err != nil {
		return err
	}

	m.registration, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		ctx, cancel := context.WithTimeout(ctx, statsTimeout)
		defer cancel()

		stats, err := m.provider.CompanyLedgerStats(ctx, m.clock().In(m.location))
		if err != nil {
			m.logger.Warn("Failed to collect ledger stats", zap.Error(err))
			return nil
		}
		for _, s := range stats {
			attrs := metric.WithAttributes(AttrCompanyID.String(s.CompanyID.String()))
			o.ObserveFloat64(outstanding, s.Outstanding.InexactFloat64(), attrs)
			o.ObserveInt64(openDebts, s.OpenDebts, attrs)
			o.ObserveInt64(overdue, s.OverdueDebts, attrs)
		}
		return nil
	}, outstanding, openDebts, overdue)
	return err
}

// EventTypes lists the ledger events the metrics are derived from
func (m *LedgerMetrics) EventTypes() []string {
	return []string{
		ledger.EventTypeDebtOpened,
		ledger.EventTypePaymentApplied,
		ledger.EventTypeDebtSettled,
	}
}

// Handle records one ledger event
func (m *LedgerMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	company := AttrCompanyID.String(event.CompanyID().String())
	switch e := event.(type) {
	case *ledger.DebtOpenedEvent:
		m.debtsOpened.Inc(ctx, company)
		m.debtAmount.Record(ctx, e.TotalAmount.InexactFloat64(), company)
	case *ledger.PaymentAppliedEvent:
		m.paymentsApplied.Inc(ctx, company)
		m.paymentAmount.Record(ctx, e.Amount.InexactFloat64(), company)
	case *ledger.DebtSettledEvent:
		m.debtsSettled.Inc(ctx, company)
	}
	return nil
}

// RecordRejection counts an operation refused with a domain error code
func (m *LedgerMetrics) RecordRejection(ctx context.Context, operation, code string) {
	m.rejections.Inc(ctx, AttrOperation.String(operation), AttrErrorCode.String(code))
}

// Stop unregisters the gauge callback
func (m *LedgerMetrics) Stop() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}

var _ shared.EventHandler = (*LedgerMetrics)(nil)
