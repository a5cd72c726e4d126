package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopez/internal/models"
	"shopez/internal/store"
)

// fakeWorld backs the coordinator interfaces with maps and replicates the
// store-level guarantees the coordinator relies on: the unique cartItemId
// constraint and transactional rollback of the per-item pair.
type fakeWorld struct {
	cart      map[primitive.ObjectID]models.CartItem
	orders    map[primitive.ObjectID]models.Order
	insertErr map[primitive.ObjectID]error
	removeErr map[primitive.ObjectID]error
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		cart:      map[primitive.ObjectID]models.CartItem{},
		orders:    map[primitive.ObjectID]models.Order{},
		insertErr: map[primitive.ObjectID]error{},
		removeErr: map[primitive.ObjectID]error{},
	}
}

func (w *fakeWorld) addCartItem(userID primitive.ObjectID, title string, quantity int, price float64) models.CartItem {
	item := models.CartItem{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		ProductSnapshot: models.ProductSnapshot{
			Title:    title,
			Size:     "M",
			Price:    price,
			Discount: 10,
		},
		Quantity: quantity,
	}
	w.cart[item.ID] = item
	return item
}

func (w *fakeWorld) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	items := []models.CartItem{}
	for _, item := range w.cart {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (w *fakeWorld) Remove(_ context.Context, id primitive.ObjectID) error {
	if err := w.removeErr[id]; err != nil {
		return err
	}
	if _, ok := w.cart[id]; !ok {
		return store.ErrNotFound
	}
	delete(w.cart, id)
	return nil
}

func (w *fakeWorld) Insert(_ context.Context, order models.Order) (primitive.ObjectID, error) {
	if order.CartItemID != nil {
		if err := w.insertErr[*order.CartItemID]; err != nil {
			return primitive.NilObjectID, err
		}
		for _, existing := range w.orders {
			if existing.CartItemID != nil && *existing.CartItemID == *order.CartItemID {
				return primitive.NilObjectID, errors.New("duplicate key: cartItemId_unique")
			}
		}
	}
	order.ID = primitive.NewObjectID()
	w.orders[order.ID] = order
	return order.ID, nil
}

func (w *fakeWorld) ExistsForCartItem(_ context.Context, cartItemID primitive.ObjectID) (bool, error) {
	for _, order := range w.orders {
		if order.CartItemID != nil && *order.CartItemID == cartItemID {
			return true, nil
		}
	}
	return false, nil
}

func (w *fakeWorld) SetStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	order, ok := w.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	if order.OrderStatus.Terminal() && order.OrderStatus != status {
		return store.ValidationError{Reason: fmt.Sprintf("order is already %s", order.OrderStatus)}
	}
	order.OrderStatus = status
	w.orders[id] = order
	return nil
}

func (w *fakeWorld) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	cartBefore := make(map[primitive.ObjectID]models.CartItem, len(w.cart))
	for k, v := range w.cart {
		cartBefore[k] = v
	}
	ordersBefore := make(map[primitive.ObjectID]models.Order, len(w.orders))
	for k, v := range w.orders {
		ordersBefore[k] = v
	}

	if err := fn(ctx); err != nil {
		w.cart = cartBefore
		w.orders = ordersBefore
		return err
	}
	return nil
}

func validBuyer(userID primitive.ObjectID) BuyerInfo {
	return BuyerInfo{
		UserID:        userID,
		Name:          "Asha Rao",
		Email:         "asha@example.com",
		Mobile:        "9876543210",
		Address:       "14 Lake View Road",
		Pincode:       "560001",
		PaymentMethod: "cod",
	}
}

func TestPlaceCartOrderConvertsEveryLine(t *testing.T) {
	world := newFakeWorld()
	userID := primitive.NewObjectID()
	first := world.addCartItem(userID, "Denim Jacket", 2, 1999)
	second := world.addCartItem(userID, "Canvas Shoes", 3, 899)

	coord := New(world, world, world)
	report, err := coord.PlaceCartOrder(context.Background(), validBuyer(userID))
	if err != nil {
		t.Fatalf("PlaceCartOrder returned error: %v", err)
	}
	if report.Placed != 2 || report.Skipped != 0 {
		t.Fatalf("expected 2 placed, got %+v", report)
	}
	if len(world.cart) != 0 {
		t.Fatalf("expected empty cart, %d items remain", len(world.cart))
	}
	if len(world.orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(world.orders))
	}

	byTitle := map[string]models.Order{}
	for _, order := range world.orders {
		byTitle[order.Title] = order
	}
	for _, want := range []models.CartItem{first, second} {
		got, ok := byTitle[want.Title]
		if !ok {
			t.Fatalf("no order for cart item %q", want.Title)
		}
		if got.Quantity != want.Quantity {
			t.Fatalf("order %q quantity = %d, want %d", want.Title, got.Quantity, want.Quantity)
		}
		if got.ProductSnapshot != want.ProductSnapshot {
			t.Fatalf("order %q snapshot = %+v, want %+v", want.Title, got.ProductSnapshot, want.ProductSnapshot)
		}
		if got.OrderStatus != models.StatusPlaced {
			t.Fatalf("order %q status = %s, want placed", want.Title, got.OrderStatus)
		}
		if got.CartItemID == nil || *got.CartItemID != want.ID {
			t.Fatalf("order %q does not reference its cart item", want.Title)
		}
		if got.Name != "Asha Rao" || got.PaymentMethod != "cod" {
			t.Fatalf("order %q missing buyer fields: %+v", want.Title, got)
		}
	}
}

func TestPlaceCartOrderEmptyCart(t *testing.T) {
	world := newFakeWorld()
	coord := New(world, world, world)

	_, err := coord.PlaceCartOrder(context.Background(), validBuyer(primitive.NewObjectID()))
	if !store.IsValidation(err) {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
	if len(world.orders) != 0 {
		t.Fatalf("empty-cart checkout created %d orders", len(world.orders))
	}
}

func TestPlaceCartOrderMissingBuyerField(t *testing.T) {
	world := newFakeWorld()
	userID := primitive.NewObjectID()
	world.addCartItem(userID, "Denim Jacket", 1, 1999)
	coord := New(world, world, world)

	buyer := validBuyer(userID)
	buyer.Address = ""
	if _, err := coord.PlaceCartOrder(context.Background(), buyer); !store.IsValidation(err) {
		t.Fatalf("expected validation error for missing address, got %v", err)
	}
	if len(world.cart) != 1 || len(world.orders) != 0 {
		t.Fatal("invalid checkout must not touch cart or orders")
	}
}

func TestPlaceCartOrderPartialFailureKeepsItem(t *testing.T) {
	world := newFakeWorld()
	userID := primitive.NewObjectID()
	world.addCartItem(userID, "Denim Jacket", 2, 1999)
	broken := world.addCartItem(userID, "Canvas Shoes", 3, 899)
	world.insertErr[broken.ID] = errors.New("write conflict")

	coord := New(world, world, world)
	_, err := coord.PlaceCartOrder(context.Background(), validBuyer(userID))

	var partial *PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialError, got %v", err)
	}
	if partial.Report.Placed != 1 || len(partial.Report.Failed) != 1 {
		t.Fatalf("unexpected report: %+v", partial.Report)
	}
	if _, ok := world.cart[broken.ID]; !ok {
		t.Fatal("failed item must stay in the cart")
	}
	if len(world.orders) != 1 {
		t.Fatalf("expected 1 order after partial failure, got %d", len(world.orders))
	}

	// Retry after the fault clears: only the leftover item is placed.
	delete(world.insertErr, broken.ID)
	report, err := coord.PlaceCartOrder(context.Background(), validBuyer(userID))
	if err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if report.Placed != 1 {
		t.Fatalf("retry placed %d items, want 1", report.Placed)
	}
	if len(world.orders) != 2 || len(world.cart) != 0 {
		t.Fatalf("after retry: %d orders, %d cart items", len(world.orders), len(world.cart))
	}
}

func TestPlaceCartOrderRetrySkipsConsumedItem(t *testing.T) {
	world := newFakeWorld()
	userID := primitive.NewObjectID()
	fresh := world.addCartItem(userID, "Denim Jacket", 2, 1999)
	stale := world.addCartItem(userID, "Canvas Shoes", 3, 899)

	// Simulate a crash between the order insert and the cart delete: the
	// order exists but the cart line was never removed.
	staleID := stale.ID
	world.orders[primitive.NewObjectID()] = models.Order{
		UserID:          userID,
		ProductSnapshot: stale.ProductSnapshot,
		Quantity:        stale.Quantity,
		OrderStatus:     models.StatusPlaced,
		CartItemID:      &staleID,
	}

	coord := New(world, world, world)
	report, err := coord.PlaceCartOrder(context.Background(), validBuyer(userID))
	if err != nil {
		t.Fatalf("PlaceCartOrder returned error: %v", err)
	}
	if report.Placed != 1 || report.Skipped != 1 {
		t.Fatalf("expected 1 placed and 1 skipped, got %+v", report)
	}
	if len(world.cart) != 0 {
		t.Fatal("stale cart line should have been cleaned up")
	}
	if len(world.orders) != 2 {
		t.Fatalf("expected 2 orders total, got %d", len(world.orders))
	}

	freshOrders := 0
	for _, order := range world.orders {
		if order.CartItemID != nil && *order.CartItemID == fresh.ID {
			freshOrders++
		}
	}
	if freshOrders != 1 {
		t.Fatalf("expected exactly one order for the fresh item, got %d", freshOrders)
	}
}

func TestPlaceCartOrderRollsBackWhenRemoveFails(t *testing.T) {
	world := newFakeWorld()
	userID := primitive.NewObjectID()
	item := world.addCartItem(userID, "Denim Jacket", 1, 1999)
	world.removeErr[item.ID] = errors.New("network timeout")

	coord := New(world, world, world)
	_, err := coord.PlaceCartOrder(context.Background(), validBuyer(userID))

	var partial *PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialError, got %v", err)
	}
	if len(world.orders) != 0 {
		t.Fatal("order insert must be rolled back when the cart delete fails")
	}
	if _, ok := world.cart[item.ID]; !ok {
		t.Fatal("cart item must survive a rolled-back conversion")
	}
}

func TestBuyProductCreatesOneOrderWithoutCart(t *testing.T) {
	world := newFakeWorld()
	userID := primitive.NewObjectID()
	world.addCartItem(userID, "Unrelated Item", 1, 500)

	coord := New(world, world, world)
	in := DirectPurchase{
		BuyerInfo: validBuyer(userID),
		ProductSnapshot: models.ProductSnapshot{
			Title: "Leather Belt",
			Price: 699,
		},
		Quantity: 1,
	}
	in.OrderDate = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	id, err := coord.BuyProduct(context.Background(), in)
	if err != nil {
		t.Fatalf("BuyProduct returned error: %v", err)
	}

	order, ok := world.orders[id]
	if !ok {
		t.Fatal("order was not stored")
	}
	if order.CartItemID != nil {
		t.Fatal("direct purchase must not reference a cart item")
	}
	if !order.OrderDate.Equal(in.OrderDate) {
		t.Fatalf("order date = %v, want %v", order.OrderDate, in.OrderDate)
	}
	if len(world.cart) != 1 {
		t.Fatal("direct purchase must not touch the cart")
	}
}

func TestBuyProductValidation(t *testing.T) {
	world := newFakeWorld()
	coord := New(world, world, world)

	tests := []struct {
		name   string
		mutate func(*DirectPurchase)
	}{
		{"missing userId", func(p *DirectPurchase) { p.UserID = primitive.NilObjectID }},
		{"missing name", func(p *DirectPurchase) { p.Name = "" }},
		{"missing mobile", func(p *DirectPurchase) { p.Mobile = "" }},
		{"missing title", func(p *DirectPurchase) { p.Title = "" }},
		{"zero quantity", func(p *DirectPurchase) { p.Quantity = 0 }},
		{"missing price", func(p *DirectPurchase) { p.Price = 0 }},
		{"missing paymentMethod", func(p *DirectPurchase) { p.PaymentMethod = "" }},
	}

	for _, tc := range tests {
		in := DirectPurchase{
			BuyerInfo:       validBuyer(primitive.NewObjectID()),
			ProductSnapshot: models.ProductSnapshot{Title: "Leather Belt", Price: 699},
			Quantity:        1,
		}
		tc.mutate(&in)
		if _, err := coord.BuyProduct(context.Background(), in); !store.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
	if len(world.orders) != 0 {
		t.Fatalf("invalid purchases created %d orders", len(world.orders))
	}
}

func TestCancelOrder(t *testing.T) {
	world := newFakeWorld()
	coord := New(world, world, world)

	orderID := primitive.NewObjectID()
	world.orders[orderID] = models.Order{OrderStatus: models.StatusPlaced}

	if err := coord.Cancel(context.Background(), orderID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if world.orders[orderID].OrderStatus != models.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", world.orders[orderID].OrderStatus)
	}
}

func TestCancelMissingOrderLeavesStoreUnchanged(t *testing.T) {
	world := newFakeWorld()
	world.orders[primitive.NewObjectID()] = models.Order{OrderStatus: models.StatusPlaced}
	coord := New(world, world, world)

	if err := coord.Cancel(context.Background(), primitive.NewObjectID()); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	for _, order := range world.orders {
		if order.OrderStatus != models.StatusPlaced {
			t.Fatal("existing orders must be untouched")
		}
	}
}

func TestUpdateStatusRejectsUnknownString(t *testing.T) {
	world := newFakeWorld()
	coord := New(world, world, world)

	orderID := primitive.NewObjectID()
	world.orders[orderID] = models.Order{OrderStatus: models.StatusPlaced}

	if err := coord.UpdateStatus(context.Background(), orderID, "teleported"); !store.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if world.orders[orderID].OrderStatus != models.StatusPlaced {
		t.Fatal("unknown status must not be persisted")
	}
}

func TestUpdateStatusTerminalGuard(t *testing.T) {
	world := newFakeWorld()
	coord := New(world, world, world)

	orderID := primitive.NewObjectID()
	world.orders[orderID] = models.Order{OrderStatus: models.StatusDelivered}

	if err := coord.UpdateStatus(context.Background(), orderID, "shipped"); !store.IsValidation(err) {
		t.Fatalf("expected validation error for delivered order, got %v", err)
	}
}
