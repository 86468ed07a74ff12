package ledger

import (
	"context"

	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/debtbook/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService manages a company's clients
type ClientService struct {
	clients ledger.ClientRepository
	debts   ledger.DebtRepository
	txScope TransactionScope
	guard   *AccessScopeGuard
	opts    serviceOptions
}

// NewClientService creates a new ClientService
func NewClientService(
	clients ledger.ClientRepository,
	debts ledger.DebtRepository,
	txScope TransactionScope,
	guard *AccessScopeGuard,
	opts ...Option,
) *ClientService {
	return &ClientService{
		clients: clients,
		debts:   debts,
		txScope: txScope,
		guard:   guard,
		opts:    newServiceOptions(opts),
	}
}

// Create registers a new client in the caller's company
func (s *ClientService) Create(ctx context.Context, p identity.Principal, input CreateClientInput) (*ClientResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "client", "create")
	defer span.End()

	response, err := s.create(ctx, p, input)
	return response, s.opts.finish(ctx, span, opClientCreate, err)
}

func (s *ClientService) create(ctx context.Context, p identity.Principal, input CreateClientInput) (*ClientResponse, error) {
	companyID, err := s.guard.RequireCompany(p)
	if err != nil {
		return nil, err
	}

	client, err := ledger.NewClient(companyID, input.Name, input.Phone, s.opts.now())
	if err != nil {
		return nil, err
	}
	client.SetCreatedBy(p.UserID)

	exists, err := s.clients.ExistsByName(ctx, companyID, client.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "client with this name already exists")
	}
	exists, err = s.clients.ExistsByPhone(ctx, companyID, client.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "client with this phone already exists")
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	s.opts.logger.Info("Client registered",
		zap.String("client_id", client.ID.String()),
		zap.String("company_id", companyID.String()))
	s.opts.publish(ctx, client)

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID returns one client of the caller's company
func (s *ClientService) GetByID(ctx context.Context, p identity.Principal, id uuid.UUID) (*ClientResponse, error) {
	companyID, err := s.guard.RequireReadScope(p)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.EnsureClient(companyID, client); err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List returns a page of the caller's clients
func (s *ClientService) List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[ClientResponse], error) {
	filter = filter.Normalize()
	companyID, ok, err := s.guard.ReadScope(p)
	if err != nil {
		return nil, err
	}
	if !ok {
		page := shared.NewPaginated[ClientResponse](nil, 0, filter.Page, filter.PageSize)
		return &page, nil
	}

	clients, total, err := s.clients.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ClientResponse, len(clients))
	for i := range clients {
		items[i] = ToClientResponse(&clients[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetWithDebts returns a client together with all of its debts as one
// consistent view: the client row is locked for the length of the read, and
// debt creation and payments lock it before they commit, so the balance always
// equals the sum of the returned remaining amounts.
func (s *ClientService) GetWithDebts(ctx context.Context, p identity.Principal, id uuid.UUID) (*ClientDebtsResponse, error) {
	companyID, err := s.guard.RequireReadScope(p)
	if err != nil {
		return nil, err
	}

	var (
		client *ledger.Client
		debts  []ledger.Debt
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		client, err = repos.Clients().FindByIDForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if err := s.guard.EnsureClient(companyID, client); err != nil {
			return err
		}
		debts, err = repos.Debts().FindByClient(ctx, client.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &ClientDebtsResponse{
		Client: ToClientResponse(client),
		Debts:  ToDebtResponses(debts, s.opts.now()),
	}, nil
}
