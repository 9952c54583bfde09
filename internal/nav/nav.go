// Package nav holds the role lookup tables that drive navigation, feature
// visibility and per-view access.
package nav

import "farmmarket/console/internal/models"

type Item struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

var baseItems = []Item{
	{Name: "Dashboard", Path: "/dashboard"},
	{Name: "Products", Path: "/products"},
}

var roleItems = map[models.Role][]Item{
	models.RoleBuyer: {
		{Name: "My Orders", Path: "/orders"},
		{Name: "Track Delivery", Path: "/tracking"},
	},
	models.RoleFarmer: {
		{Name: "Orders", Path: "/farmer-orders"},
		{Name: "Inventory", Path: "/inventory"},
		{Name: "Deliveries", Path: "/farmer-delivery"},
	},
	models.RoleAdmin: {
		{Name: "All Orders", Path: "/admin-orders"},
		{Name: "Inventory", Path: "/inventory"},
		{Name: "Deliveries", Path: "/farmer-delivery"},
	},
}

// Items returns the ordered navigation entries for role. Unknown roles get
// the base entries only. The result is safe to modify.
func Items(role models.Role) []Item {
	extra := roleItems[role]
	items := make([]Item, 0, len(baseItems)+len(extra))
	items = append(items, baseItems...)
	return append(items, extra...)
}
