package service

import (
	"context"
	"sync"

	"farmmarket/console/internal/models"
)

type fakeOrders struct {
	mu        sync.Mutex
	orders    []models.Order
	updateErr error
	// emptyReply makes UpdateOrderStatus answer with no body.
	emptyReply bool
	calls      []string
	// during is called while UpdateOrderStatus is in flight.
	during func()
}

func (f *fakeOrders) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeOrders) ListOrders(context.Context) ([]models.Order, error) {
	f.record("all")
	return f.orders, nil
}

func (f *fakeOrders) ListBuyerOrders(context.Context, int64) ([]models.Order, error) {
	f.record("buyer")
	return f.orders, nil
}

func (f *fakeOrders) ListFarmerOrders(context.Context, int64) ([]models.Order, error) {
	f.record("farmer")
	return f.orders, nil
}

func (f *fakeOrders) PlaceOrder(_ context.Context, in models.OrderInput) (models.Order, error) {
	f.record("place")
	return models.Order{ID: 99, ProductID: in.ProductID, Quantity: in.Quantity, Status: models.OrderPending}, nil
}

func (f *fakeOrders) UpdateOrderStatus(_ context.Context, id int64, s models.OrderStatus) (models.Order, error) {
	f.record("update")
	if f.during != nil {
		f.during()
	}
	if f.updateErr != nil {
		return models.Order{}, f.updateErr
	}
	if f.emptyReply {
		return models.Order{}, nil
	}
	for _, o := range f.orders {
		if o.ID == id {
			o.Status = s
			return o, nil
		}
	}
	return models.Order{}, nil
}

func (f *fakeOrders) DeleteOrder(context.Context, int64) error {
	f.record("delete")
	return nil
}

type fakeInventory struct {
	records []models.InventoryRecord
	updates []models.InventoryUpdate
	err     error
}

func (f *fakeInventory) ListInventory(context.Context) ([]models.InventoryRecord, error) {
	return f.records, f.err
}

func (f *fakeInventory) UpdateInventory(_ context.Context, productID int64, in models.InventoryUpdate) (models.InventoryRecord, error) {
	f.updates = append(f.updates, in)
	return models.InventoryRecord{ProductID: productID, AvailableQuantity: in.Quantity, TotalQuantity: in.Quantity}, nil
}

func (f *fakeInventory) CheckAvailability(_ context.Context, productID int64, quantity int) (models.Availability, error) {
	return models.Availability{ProductID: productID, RequestedQuantity: quantity, Available: quantity <= 5}, nil
}

func (f *fakeInventory) SyncInventory(context.Context, int64) (string, error) {
	return "synced", nil
}

type fakeDeliveries struct {
	list    []models.Delivery
	updates []models.DeliveryUpdate
	farmer  int64
}

func (f *fakeDeliveries) ListDeliveries(context.Context) ([]models.Delivery, error) {
	return f.list, nil
}

func (f *fakeDeliveries) ListFarmerDeliveries(_ context.Context, farmerID int64) ([]models.Delivery, error) {
	f.farmer = farmerID
	return f.list, nil
}

func (f *fakeDeliveries) UpdateDeliveryStatus(_ context.Context, orderID int64, in models.DeliveryUpdate) (models.Delivery, error) {
	f.updates = append(f.updates, in)
	return models.Delivery{OrderID: orderID, DeliveryStatus: in.Status, TrackingLocation: in.TrackingLocation}, nil
}
