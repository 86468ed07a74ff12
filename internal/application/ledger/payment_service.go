package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/debtbook/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PaymentService applies payments to debts and answers payment queries
type PaymentService struct {
	payments ledger.PaymentRepository
	txScope  TransactionScope
	guard    *AccessScopeGuard
	opts     serviceOptions
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	payments ledger.PaymentRepository,
	txScope TransactionScope,
	guard *AccessScopeGuard,
	opts ...Option,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		txScope:  txScope,
		guard:    guard,
		opts:     newServiceOptions(opts),
	}
}

// Apply records a payment against a debt of the caller's company.
//
// The debt and then its client are locked for the rest of the transaction,
// so the remaining-amount check and the decrement cannot interleave with
// another payment on the same debt. Payment, debt and client are written in
// that order and commit together.
func (s *PaymentService) Apply(ctx context.Context, p identity.Principal, input ApplyPaymentInput) (*PaymentResultResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "apply",
		attribute.String(telemetry.SpanAttrDebtID, input.DebtID.String()),
		attribute.String(telemetry.SpanAttrAmount, input.Amount.StringFixed(2)))
	defer span.End()

	var (
		result *PaymentResultResponse
		err    error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels(opPaymentApply, companyLabel(p)), func(ctx context.Context) {
		result, err = s.apply(ctx, p, input)
	})
	if err == nil {
		telemetry.SetAttributes(span,
			telemetry.SpanAttrPaymentID, result.Payment.ID,
			telemetry.SpanAttrRemaining, result.Debt.RemainingAmount,
			telemetry.SpanAttrIsPaid, result.Debt.IsPaid)
	}
	return result, s.opts.finish(ctx, span, opPaymentApply, err)
}

func (s *PaymentService) apply(ctx context.Context, p identity.Principal, input ApplyPaymentInput) (*PaymentResultResponse, error) {
	companyID, err := s.guard.RequireCompany(p)
	if err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, shared.NewValidationError("payment amount must be positive")
	}

	release, err := s.claim(ctx, companyID, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	var (
		payment *ledger.Payment
		debt    *ledger.Debt
		client  *ledger.Client
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		debt, err = repos.Debts().FindByIDForUpdate(ctx, companyID, input.DebtID)
		if err != nil {
			return err
		}
		client, err = repos.Clients().FindByIDForUpdate(ctx, companyID, debt.ClientID)
		if err != nil {
			return err
		}
		if err := s.guard.EnsureClient(companyID, client); err != nil {
			return err
		}

		payment, err = ledger.ApplyPayment(debt, client, input.Amount, p.UserID, now)
		if err != nil {
			return err
		}

		if err := repos.Payments().Create(ctx, payment); err != nil {
			return err
		}
		if err := repos.Debts().Save(ctx, debt); err != nil {
			return err
		}
		return repos.Clients().Save(ctx, client)
	})
	if err != nil {
		release()
		return nil, err
	}

	s.opts.logger.Info("Payment applied",
		zap.String("payment_id", payment.ID.String()),
		zap.String("debt_id", debt.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("remaining_amount", debt.RemainingAmount.String()),
		zap.Bool("debt_paid", debt.IsPaid))
	s.opts.publish(ctx, debt, client)

	return &PaymentResultResponse{
		Payment: ToPaymentResponse(payment),
		Debt:    ToDebtResponse(debt, now),
		Client:  ToClientResponse(client),
	}, nil
}

// GetByID returns one payment of the caller's company
func (s *PaymentService) GetByID(ctx context.Context, p identity.Principal, id uuid.UUID) (*PaymentResponse, error) {
	companyID, err := s.guard.RequireReadScope(p)
	if err != nil {
		return nil, err
	}
	payment, err := s.payments.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// List returns a page of the caller's payments, newest first
func (s *PaymentService) List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[PaymentResponse], error) {
	filter = filter.Normalize()
	companyID, ok, err := s.guard.ReadScope(p)
	if err != nil {
		return nil, err
	}
	if !ok {
		page := shared.NewPaginated[PaymentResponse](nil, 0, filter.Page, filter.PageSize)
		return &page, nil
	}

	payments, total, err := s.payments.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToPaymentResponses(payments), total, filter.Page, filter.PageSize)
	return &page, nil
}

// claim takes the idempotency key for this request. The returned func gives
// the key back after a failed attempt so the caller can retry with it.
func (s *PaymentService) claim(ctx context.Context, companyID uuid.UUID, key string) (func(), error) {
	noop := func() {}
	key = strings.TrimSpace(key)
	if key == "" || s.opts.idempotency == nil {
		return noop, nil
	}
	if len(key) > maxIdempotencyKeyLen {
		return nil, shared.NewValidationError("idempotency key is too long")
	}

	scoped := fmt.Sprintf("payment:%s:%s", companyID, key)
	claimed, err := s.opts.idempotency.MarkProcessed(ctx, scoped, s.opts.idempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("claim idempotency key: %w", err)
	}
	if !claimed {
		return nil, shared.ErrDuplicateRequest
	}

	return func() {
		if err := s.opts.idempotency.Release(context.WithoutCancel(ctx), scoped); err != nil {
			s.opts.logger.Warn("Failed to release idempotency key",
				zap.String("key", scoped),
				zap.Error(err))
		}
	}, nil
}
