package nav

import "farmmarket/console/internal/models"

type View string

const (
	ViewDashboard      View = "dashboard"
	ViewProducts       View = "products"
	ViewProduct        View = "product"
	ViewOrders         View = "orders"
	ViewTracking       View = "tracking"
	ViewFarmerOrders   View = "farmer-orders"
	ViewAdminOrders    View = "admin-orders"
	ViewInventory      View = "inventory"
	ViewFarmerDelivery View = "farmer-delivery"
)

const (
	EntryPath   = "/"
	DefaultPath = "/dashboard"
)

// nil means any signed-in role.
var viewRoles = map[View][]models.Role{
	ViewDashboard:      nil,
	ViewProducts:       nil,
	ViewProduct:        nil,
	ViewOrders:         {models.RoleBuyer},
	ViewTracking:       {models.RoleBuyer},
	ViewFarmerOrders:   {models.RoleFarmer},
	ViewAdminOrders:    {models.RoleAdmin},
	ViewInventory:      {models.RoleFarmer, models.RoleAdmin},
	ViewFarmerDelivery: {models.RoleFarmer, models.RoleAdmin},
}

func Allowed(view View, role models.Role) bool {
	roles, ok := viewRoles[view]
	if !ok {
		return false
	}
	if roles == nil {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
