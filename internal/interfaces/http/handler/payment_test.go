package handler

import (
	"net/http"
	"testing"

	appledger "github.com/debtbook/backend/internal/application/ledger"
	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentHandler(t *testing.T) {
	api := newTestAPI(t)
	p := seller(uuid.New())
	client := api.createClient(t, p, "Ali", "+998901111111")
	first := api.openDebt(t, p, client.ID, map[string]any{"total_amount": "70"}).Debt
	second := api.openDebt(t, p, client.ID, map[string]any{"total_amount": "30"}).Debt

	w := api.do(t, &p, http.MethodPost, "/api/v1/payments", map[string]any{"debt_id": first.ID, "amount": "25"})
	requireStatus(t, w, http.StatusCreated)
	applied := decode[appledger.PaymentResultResponse](t, w).Data
	assert.Equal(t, "45", applied.Debt.RemainingAmount.String())
	assert.Equal(t, "75", applied.Client.Balance.String())

	w = api.do(t, &p, http.MethodPost, "/api/v1/payments", map[string]any{"debt_id": second.ID, "amount": "30"})
	requireStatus(t, w, http.StatusCreated)

	t.Run("debt id is required", func(t *testing.T) {
		w := api.do(t, &p, http.MethodPost, "/api/v1/payments", map[string]any{"amount": "1"})
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})

	t.Run("debt id must be a uuid", func(t *testing.T) {
		w := api.do(t, &p, http.MethodPost, "/api/v1/payments", map[string]any{"debt_id": "42", "amount": "1"})
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})

	t.Run("unknown debt", func(t *testing.T) {
		w := api.do(t, &p, http.MethodPost, "/api/v1/payments", map[string]any{"debt_id": uuid.New(), "amount": "1"})
		requireStatus(t, w, http.StatusNotFound)
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
	})

	t.Run("caller without a company", func(t *testing.T) {
		d := drifter()
		w := api.do(t, &d, http.MethodPost, "/api/v1/payments", map[string]any{"debt_id": first.ID, "amount": "1"})
		requireStatus(t, w, http.StatusForbidden)
		assert.Equal(t, dto.ErrCodeNoCompany, errorCode(t, w))
	})

	t.Run("get by id", func(t *testing.T) {
		w := api.do(t, &p, http.MethodGet, "/api/v1/payments/"+applied.Payment.ID.String(), nil)
		requireStatus(t, w, http.StatusOK)
		got := decode[appledger.PaymentResponse](t, w).Data
		assert.Equal(t, first.ID, got.DebtID)
		assert.Equal(t, "25", got.Amount.String())

		other := seller(uuid.New())
		w = api.do(t, &other, http.MethodGet, "/api/v1/payments/"+applied.Payment.ID.String(), nil)
		requireStatus(t, w, http.StatusNotFound)
	})

	t.Run("list", func(t *testing.T) {
		w := api.do(t, &p, http.MethodGet, "/api/v1/payments?page_size=1", nil)
		requireStatus(t, w, http.StatusOK)
		env := decode[[]appledger.PaymentResponse](t, w)
		require.Len(t, env.Data, 1)
		assert.Equal(t, dto.Meta{Total: 2, Page: 1, PageSize: 1, TotalPages: 2}, *env.Meta)

		other := seller(uuid.New())
		w = api.do(t, &other, http.MethodGet, "/api/v1/payments", nil)
		requireStatus(t, w, http.StatusOK)
		assert.Empty(t, decode[[]appledger.PaymentResponse](t, w).Data)
	})
}
