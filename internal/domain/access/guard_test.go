package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
)

func TestListCompany(t *testing.T) {
	id, err := access.ListCompany(superadmin(), "")
	require.NoError(t, err)
	assert.Empty(t, id, "superadmin sin filtro")

	id, err = access.ListCompany(superadmin(), " "+companyB+" ")
	require.NoError(t, err)
	assert.Equal(t, companyB, id)

	id, err = access.ListCompany(member(entity.RoleUser, companyA), "")
	require.NoError(t, err)
	assert.Equal(t, companyA, id)

	_, err = access.ListCompany(member(entity.RoleAdmin, companyA), companyB)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = access.ListCompany(nil, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTargetCompany(t *testing.T) {
	_, err := access.TargetCompany(superadmin(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	id, err := access.TargetCompany(superadmin(), companyA)
	require.NoError(t, err)
	assert.Equal(t, companyA, id)

	id, err = access.TargetCompany(member(entity.RoleUser, companyA), "")
	require.NoError(t, err)
	assert.Equal(t, companyA, id)
}

func TestValidateOwnership(t *testing.T) {
	assert.NoError(t, access.ValidateOwnership(superadmin(), companyB))
	assert.NoError(t, access.ValidateOwnership(member(entity.RoleUser, companyA), companyA))
	assert.ErrorIs(t, access.ValidateOwnership(member(entity.RoleUser, companyA), companyB), domain.ErrForbidden)
	assert.ErrorIs(t, access.ValidateOwnership(&access.Principal{}, companyA), domain.ErrUnauthorized)
	assert.ErrorIs(t, access.RequireSession(nil), domain.ErrUnauthorized)
}
