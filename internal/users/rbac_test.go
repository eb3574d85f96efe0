package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleMatrix(t *testing.T) {
	want := map[Role][]Section{
		RoleAdmin:   Sections,
		RoleManager: {SectionInventory, SectionOrders, SectionClients},
		RoleAnalyst: {SectionOracle, SectionOrders, SectionClients, SectionRevenue, SectionSettings},
	}
	for role, sections := range want {
		assert.Equal(t, sections, Visible(role, nil), "role %s", role)
	}
}

func TestExplicitPermissionsExtendTheRole(t *testing.T) {
	assert.False(t, Allowed(RoleManager, nil, SectionRevenue))
	assert.True(t, Allowed(RoleManager, []string{"revenue"}, SectionRevenue))
	assert.False(t, Allowed(RoleManager, []string{"revenue"}, SectionAudit))
	assert.False(t, Allowed("", nil, SectionOrders), "unknown role gets nothing by default")
}

func TestCheckPermissions(t *testing.T) {
	got, err := checkPermissions([]string{"audit", "revenue", "audit"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"audit", "revenue"}, got)

	_, err = checkPermissions([]string{"billing"})
	assert.ErrorIs(t, err, ErrUnknownSection)

	got, err = checkPermissions(nil)
	assert.NoError(t, err)
	assert.NotNil(t, got)
}
