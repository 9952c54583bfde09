package nav

import "farmmarket/console/internal/models"

type Capability string

const (
	ManageProducts    Capability = "manage_products"
	PlaceOrders       Capability = "place_orders"
	UpdateOrderStatus Capability = "update_order_status"
	DeleteOrders      Capability = "delete_orders"
	UpdateInventory   Capability = "update_inventory"
	SyncInventory     Capability = "sync_inventory"
	UpdateDeliveries  Capability = "update_deliveries"
)

var capabilities = map[models.Role]map[Capability]struct{}{
	models.RoleBuyer: set(PlaceOrders),
	models.RoleFarmer: set(
		ManageProducts,
		UpdateOrderStatus,
		UpdateInventory,
		UpdateDeliveries,
	),
	models.RoleAdmin: set(
		UpdateOrderStatus,
		DeleteOrders,
		UpdateInventory,
		SyncInventory,
		UpdateDeliveries,
	),
}

func set(caps ...Capability) map[Capability]struct{} {
	out := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		out[c] = struct{}{}
	}
	return out
}

func Can(role models.Role, capability Capability) bool {
	_, ok := capabilities[role][capability]
	return ok
}

// Capabilities lists what role may do, in declaration order.
func Capabilities(role models.Role) []Capability {
	all := []Capability{
		ManageProducts,
		PlaceOrders,
		UpdateOrderStatus,
		DeleteOrders,
		UpdateInventory,
		SyncInventory,
		UpdateDeliveries,
	}
	var out []Capability
	for _, c := range all {
		if Can(role, c) {
			out = append(out, c)
		}
	}
	return out
}
