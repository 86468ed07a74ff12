package ledger

import (
	"context"
	"iter"

	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/debtbook/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DebtService opens debts and answers debt queries
type DebtService struct {
	debts    ledger.DebtRepository
	payments ledger.PaymentRepository
	txScope  TransactionScope
	guard    *AccessScopeGuard
	opts     serviceOptions
}

// NewDebtService creates a new DebtService
func NewDebtService(
	debts ledger.DebtRepository,
	payments ledger.PaymentRepository,
	txScope TransactionScope,
	guard *AccessScopeGuard,
	opts ...Option,
) *DebtService {
	return &DebtService{
		debts:    debts,
		payments: payments,
		txScope:  txScope,
		guard:    guard,
		opts:     newServiceOptions(opts),
	}
}

// Create opens a debt for a client of the caller's company and raises the
// client's balance by its total, in one transaction.
func (s *DebtService) Create(ctx context.Context, p identity.Principal, input CreateDebtInput) (*DebtResultResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "debt", "create",
		attribute.String(telemetry.SpanAttrClientID, input.ClientID.String()),
		attribute.String(telemetry.SpanAttrAmount, input.TotalAmount.StringFixed(2)))
	defer span.End()

	var (
		result *DebtResultResponse
		err    error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels(opDebtCreate, companyLabel(p)), func(ctx context.Context) {
		result, err = s.create(ctx, p, input)
	})
	if err == nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrDebtID, result.Debt.ID)
	}
	return result, s.opts.finish(ctx, span, opDebtCreate, err)
}

func (s *DebtService) create(ctx context.Context, p identity.Principal, input CreateDebtInput) (*DebtResultResponse, error) {
	companyID, err := s.guard.RequireCompany(p)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	var (
		client *ledger.Client
		debt   *ledger.Debt
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		client, err = repos.Clients().FindByIDForUpdate(ctx, companyID, input.ClientID)
		if err != nil {
			return err
		}
		if err := s.guard.EnsureClient(companyID, client); err != nil {
			return err
		}

		debt, err = ledger.OpenDebt(client, input.TotalAmount, input.DueDate, now,
			ledger.WithDefaultDueDays(s.opts.defaultDueDays))
		if err != nil {
			return err
		}

		if err := repos.Debts().Create(ctx, debt); err != nil {
			return err
		}
		return repos.Clients().Save(ctx, client)
	})
	if err != nil {
		return nil, err
	}

	s.opts.logger.Info("Debt opened",
		zap.String("debt_id", debt.ID.String()),
		zap.String("client_id", client.ID.String()),
		zap.String("total_amount", debt.TotalAmount.String()),
		zap.String("client_balance", client.Balance.String()))
	s.opts.publish(ctx, debt, client)

	return &DebtResultResponse{
		Debt:   ToDebtResponse(debt, now),
		Client: ToClientResponse(client),
	}, nil
}

// GetByID returns one debt of the caller's company
func (s *DebtService) GetByID(ctx context.Context, p identity.Principal, id uuid.UUID) (*DebtResponse, error) {
	companyID, err := s.guard.RequireReadScope(p)
	if err != nil {
		return nil, err
	}
	debt, err := s.debts.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	response := ToDebtResponse(debt, s.opts.now())
	return &response, nil
}

// List returns one page of the caller's debts, either all of them or only
// the overdue ones. A caller without a company sees an empty page.
func (s *DebtService) List(ctx context.Context, p identity.Principal, input ListDebtsInput) (*shared.Paginated[DebtResponse], error) {
	filter, err := s.buildFilter(input)
	if err != nil {
		return nil, err
	}
	companyID, ok, err := s.guard.ReadScope(p)
	if err != nil {
		return nil, err
	}
	if !ok {
		page := shared.NewPaginated[DebtResponse](nil, 0, filter.Page, filter.PageSize)
		return &page, nil
	}

	debts, total, err := s.debts.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToDebtResponses(debts, filter.Today), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Sequence returns the caller's debts as a lazy sequence. Each range over it
// queries storage again in batches, so the sequence can be restarted. A
// failing query is yielded once as the error and ends the sequence.
func (s *DebtService) Sequence(ctx context.Context, p identity.Principal, input ListDebtsInput) iter.Seq2[*ledger.Debt, error] {
	return func(yield func(*ledger.Debt, error) bool) {
		filter, err := s.buildFilter(input)
		if err != nil {
			yield(nil, err)
			return
		}
		companyID, ok, err := s.guard.ReadScope(p)
		if err != nil {
			yield(nil, err)
			return
		}
		if !ok {
			return
		}

		filter.PageSize = s.opts.listBatchSize
		for filter.Page = 1; ; filter.Page++ {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			batch, _, err := s.debts.FindAllForCompany(ctx, companyID, filter)
			if err != nil {
				yield(nil, err)
				return
			}
			for i := range batch {
				if !yield(&batch[i], nil) {
					return
				}
			}
			if len(batch) < filter.PageSize {
				return
			}
		}
	}
}

// Stream is Sequence rendered as responses. Overdue is decided once, when
// Stream is called.
func (s *DebtService) Stream(ctx context.Context, p identity.Principal, input ListDebtsInput) iter.Seq2[DebtResponse, error] {
	now := s.opts.now()
	return func(yield func(DebtResponse, error) bool) {
		for d, err := range s.Sequence(ctx, p, input) {
			if err != nil {
				yield(DebtResponse{}, err)
				return
			}
			if !yield(ToDebtResponse(d, now), nil) {
				return
			}
		}
	}
}

// Payments returns every payment recorded against a debt of the caller's
// company
func (s *DebtService) Payments(ctx context.Context, p identity.Principal, debtID uuid.UUID) ([]PaymentResponse, error) {
	companyID, err := s.guard.RequireReadScope(p)
	if err != nil {
		return nil, err
	}
	if _, err := s.debts.FindByIDForCompany(ctx, companyID, debtID); err != nil {
		return nil, err
	}
	payments, err := s.payments.FindByDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

func (s *DebtService) buildFilter(input ListDebtsInput) (ledger.DebtFilter, error) {
	kind, err := ledger.ParseDebtFilterKind(input.Filter)
	if err != nil {
		return ledger.DebtFilter{}, err
	}
	return ledger.DebtFilter{
		Filter:   shared.Filter{Page: input.Page, PageSize: input.PageSize}.Normalize(),
		Kind:     kind,
		ClientID: input.ClientID,
		Today:    ledger.DateOf(s.opts.now()),
	}, nil
}
