package identity

import (
	"testing"

	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleManager, ParseRole(" Manager "))
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleSeller, ParseRole("seller"))
	assert.Equal(t, RoleSeller, ParseRole(""))
	assert.Equal(t, RoleSeller, ParseRole("owner"))
}

func TestPrincipal_Company(t *testing.T) {
	t.Run("returns bound company", func(t *testing.T) {
		companyID := uuid.New()
		p := NewPrincipal(uuid.New(), "alice", &companyID, RoleSeller)

		got, err := p.Company()
		require.NoError(t, err)
		assert.Equal(t, companyID, got)
		assert.True(t, p.HasCompany())
	})

	t.Run("nil company yields no associated company", func(t *testing.T) {
		p := NewPrincipal(uuid.New(), "bob", nil, RoleManager)

		_, err := p.Company()
		assert.ErrorIs(t, err, shared.ErrNoCompany)
		assert.False(t, p.HasCompany())
	})

	t.Run("zero uuid counts as no company", func(t *testing.T) {
		zero := uuid.Nil
		p := NewPrincipal(uuid.New(), "carol", &zero, RoleSeller)
		assert.False(t, p.HasCompany())
	})

	t.Run("principal does not alias caller pointer", func(t *testing.T) {
		companyID := uuid.New()
		p := NewPrincipal(uuid.New(), "dave", &companyID, RoleSeller)
		companyID = uuid.New()

		got, err := p.Company()
		require.NoError(t, err)
		assert.NotEqual(t, companyID, got)
	})
}
