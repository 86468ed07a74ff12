package handler

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	appledger "github.com/debtbook/backend/internal/application/ledger"
	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHandler_Archive(t *testing.T) {
	api := newTestAPI(t)
	companyID := uuid.New()
	p := seller(companyID)
	client := api.createClient(t, p, "Ali", "+998901111111")
	for range 3 {
		api.openDebt(t, p, client.ID, map[string]any{"total_amount": "20"})
	}

	w := api.do(t, &p, http.MethodPost, "/api/v1/debts/export/archive", nil)
	requireStatus(t, w, http.StatusCreated)
	env := decode[appledger.ArchiveResponse](t, w)

	assert.Equal(t, 3, env.Data.Rows)
	assert.True(t, strings.HasPrefix(env.Data.Key, "exports/"+companyID.String()+"/"))
	assert.True(t, strings.HasPrefix(env.Data.DownloadURL, api.archive.BaseURL+"/"+env.Data.Key))

	data, contentType, ok := api.archive.Get(env.Data.Key)
	require.True(t, ok)
	assert.Equal(t, appledger.CSVContentType, contentType)
	assert.Equal(t, len(data), env.Data.Size)
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 4)

	t.Run("overdue filter", func(t *testing.T) {
		w := api.do(t, &p, http.MethodPost, "/api/v1/debts/export/archive?filter=overdue", nil)
		requireStatus(t, w, http.StatusCreated)
		assert.Zero(t, decode[appledger.ArchiveResponse](t, w).Data.Rows)
	})

	t.Run("bad filter", func(t *testing.T) {
		w := api.do(t, &p, http.MethodPost, "/api/v1/debts/export/archive?filter=late", nil)
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})

	t.Run("no company", func(t *testing.T) {
		d := drifter()
		before := api.archive.Len()
		w := api.do(t, &d, http.MethodPost, "/api/v1/debts/export/archive", nil)
		requireStatus(t, w, http.StatusForbidden)
		assert.Equal(t, dto.ErrCodeNoCompany, errorCode(t, w))
		assert.Equal(t, before, api.archive.Len())
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := api.do(t, nil, http.MethodPost, "/api/v1/debts/export/archive", nil)
		requireStatus(t, w, http.StatusUnauthorized)
	})
}
