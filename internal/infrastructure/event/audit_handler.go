package event

import (
	"context"

	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/debtbook/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditLogHandler writes one structured log line per ledger event, tagged
// with the request and trace that caused it
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates an audit handler logging under the "audit" name
func NewAuditLogHandler(base *zap.Logger) *AuditLogHandler {
	if base == nil {
		base = zap.NewNop()
	}
	return &AuditLogHandler{logger: base.Named("audit")}
}

// EventTypes subscribes to every event
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("company_id", event.CompanyID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	fields = append(fields, eventFields(event)...)

	logger.L(ctx, h.logger).Info("Ledger event", fields...)
	return nil
}

func eventFields(event shared.DomainEvent) []zap.Field {
	switch e := event.(type) {
	case *ledger.ClientRegisteredEvent:
		return []zap.Field{zap.String("client_id", e.ClientID.String()), zap.String("name", e.Name)}
	case *ledger.ClientBalanceChangedEvent:
		return []zap.Field{
			zap.String("client_id", e.ClientID.String()),
			zap.String("old_balance", e.OldBalance.StringFixed(2)),
			zap.String("new_balance", e.NewBalance.StringFixed(2)),
			zap.String("reason", e.Reason),
		}
	case *ledger.DebtOpenedEvent:
		return []zap.Field{
			zap.String("client_id", e.ClientID.String()),
			zap.String("total_amount", e.TotalAmount.StringFixed(2)),
			zap.String("due_date", e.DueDate.Format("2006-01-02")),
		}
	case *ledger.PaymentAppliedEvent:
		return []zap.Field{
			zap.String("payment_id", e.PaymentID.String()),
			zap.String("amount", e.Amount.StringFixed(2)),
			zap.String("remaining_amount", e.RemainingAmount.StringFixed(2)),
			zap.String("recorded_by", e.RecordedBy.String()),
		}
	case *ledger.DebtSettledEvent:
		return []zap.Field{
			zap.String("client_id", e.ClientID.String()),
			zap.String("total_amount", e.TotalAmount.StringFixed(2)),
		}
	default:
		return nil
	}
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
