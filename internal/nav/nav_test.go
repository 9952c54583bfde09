package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"farmmarket/console/internal/models"
)

func names(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func TestItems(t *testing.T) {
	tests := []struct {
		role models.Role
		want []string
	}{
		{models.RoleBuyer, []string{"Dashboard", "Products", "My Orders", "Track Delivery"}},
		{models.RoleFarmer, []string{"Dashboard", "Products", "Orders", "Inventory", "Deliveries"}},
		{models.RoleAdmin, []string{"Dashboard", "Products", "All Orders", "Inventory", "Deliveries"}},
		{"", []string{"Dashboard", "Products"}},
		{"GUEST", []string{"Dashboard", "Products"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, names(Items(tt.role)))
		})
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	items := Items(models.RoleBuyer)
	items[0].Name = "Changed"

	assert.Equal(t, "Dashboard", Items(models.RoleBuyer)[0].Name)
	assert.Equal(t, "Dashboard", Items("")[0].Name)
}

func TestCan(t *testing.T) {
	assert.True(t, Can(models.RoleFarmer, ManageProducts))
	assert.False(t, Can(models.RoleAdmin, ManageProducts))
	assert.True(t, Can(models.RoleBuyer, PlaceOrders))
	assert.False(t, Can(models.RoleBuyer, UpdateOrderStatus))
	assert.True(t, Can(models.RoleAdmin, SyncInventory))
	assert.False(t, Can(models.RoleFarmer, SyncInventory))
	assert.False(t, Can("", PlaceOrders))

	assert.Equal(t, []Capability{PlaceOrders}, Capabilities(models.RoleBuyer))
	assert.Empty(t, Capabilities("OTHER"))
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(ViewProducts, models.RoleBuyer))
	assert.True(t, Allowed(ViewDashboard, "ANY"))
	assert.True(t, Allowed(ViewTracking, models.RoleBuyer))
	assert.False(t, Allowed(ViewTracking, models.RoleFarmer))
	assert.True(t, Allowed(ViewInventory, models.RoleAdmin))
	assert.False(t, Allowed(ViewInventory, models.RoleBuyer))
	assert.False(t, Allowed(ViewAdminOrders, models.RoleFarmer))
	assert.False(t, Allowed("unknown", models.RoleAdmin))
}
