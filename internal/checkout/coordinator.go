// Package checkout converts cart line items and direct purchase payloads into
// durable order records.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopez/internal/models"
	"shopez/internal/store"
)

// CartStore is the slice of the cart store the coordinator consumes.
type CartStore interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
}

// OrderStore is the slice of the order store the coordinator consumes.
type OrderStore interface {
	Insert(ctx context.Context, order models.Order) (primitive.ObjectID, error)
	ExistsForCartItem(ctx context.Context, cartItemID primitive.ObjectID) (bool, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
}

// TxnRunner executes a callback atomically with respect to the stores.
type TxnRunner interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Coordinator struct {
	cart   CartStore
	orders OrderStore
	txn    TxnRunner
}

func New(cart CartStore, orders OrderStore, txn TxnRunner) *Coordinator {
	return &Coordinator{cart: cart, orders: orders, txn: txn}
}

// BuyerInfo carries the contact and payment fields supplied at checkout.
type BuyerInfo struct {
	UserID        primitive.ObjectID
	Name          string
	Email         string
	Mobile        string
	Address       string
	Pincode       string
	PaymentMethod string
	OrderDate     time.Time
}

func (b BuyerInfo) validate() error {
	switch {
	case b.UserID.IsZero():
		return store.ValidationError{Reason: "userId is required"}
	case strings.TrimSpace(b.Name) == "":
		return store.ValidationError{Reason: "name is required"}
	case strings.TrimSpace(b.Email) == "":
		return store.ValidationError{Reason: "email is required"}
	case strings.TrimSpace(b.Mobile) == "":
		return store.ValidationError{Reason: "mobile is required"}
	case strings.TrimSpace(b.Address) == "":
		return store.ValidationError{Reason: "address is required"}
	case strings.TrimSpace(b.PaymentMethod) == "":
		return store.ValidationError{Reason: "paymentMethod is required"}
	}
	return nil
}

func (b BuyerInfo) orderDate() time.Time {
	if b.OrderDate.IsZero() {
		return time.Now()
	}
	return b.OrderDate
}

// DirectPurchase is the single-product buy-now payload.
type DirectPurchase struct {
	BuyerInfo
	models.ProductSnapshot
	Quantity int
}

func (p DirectPurchase) validate() error {
	if err := p.BuyerInfo.validate(); err != nil {
		return err
	}
	switch {
	case strings.TrimSpace(p.Title) == "":
		return store.ValidationError{Reason: "title is required"}
	case p.Quantity <= 0:
		return store.ValidationError{Reason: "quantity is required"}
	case p.Price <= 0:
		return store.ValidationError{Reason: "price is required"}
	}
	return nil
}

// BuyProduct creates one order from a full payload. The cart is not touched.
func (c *Coordinator) BuyProduct(ctx context.Context, in DirectPurchase) (primitive.ObjectID, error) {
	if err := in.validate(); err != nil {
		return primitive.NilObjectID, err
	}

	order := models.Order{
		UserID: in.UserID,
		OrderBuyer: models.OrderBuyer{
			Name:    strings.TrimSpace(in.Name),
			Email:   strings.TrimSpace(in.Email),
			Mobile:  strings.TrimSpace(in.Mobile),
			Address: strings.TrimSpace(in.Address),
			Pincode: strings.TrimSpace(in.Pincode),
		},
		ProductSnapshot: in.ProductSnapshot,
		Quantity:        in.Quantity,
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		OrderDate:       in.orderDate(),
		OrderStatus:     models.StatusPlaced,
	}

	return c.orders.Insert(ctx, order)
}

// ItemFailure records one cart line that could not be converted.
type ItemFailure struct {
	CartItemID primitive.ObjectID
	Err        error
}

// Report summarizes a cart checkout. Skipped counts lines that already had an
// order from an earlier attempt and were only removed from the cart.
type Report struct {
	Total   int
	Placed  int
	Skipped int
	Failed  []ItemFailure
}

// PartialError is returned when some cart lines failed to convert. Lines that
// did convert are durable; retrying the checkout resumes with the rest.
type PartialError struct {
	Report Report
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("placed %d of %d cart items", e.Report.Placed+e.Report.Skipped, e.Report.Total)
}

// PlaceCartOrder converts every line item in the user's cart into one order
// each, deleting each consumed line. Each (insert order, delete line) pair
// runs inside one transaction, and orders carry the consumed line's id under
// a unique index, so no interleaving or retry can lose or duplicate a line.
func (c *Coordinator) PlaceCartOrder(ctx context.Context, buyer BuyerInfo) (Report, error) {
	if err := buyer.validate(); err != nil {
		return Report{}, err
	}

	items, err := c.cart.ListByUser(ctx, buyer.UserID)
	if err != nil {
		return Report{}, err
	}
	if len(items) == 0 {
		return Report{}, store.ValidationError{Reason: "cart is empty"}
	}

	report := Report{Total: len(items)}
	for _, item := range items {
		consumed, err := c.orders.ExistsForCartItem(ctx, item.ID)
		if err != nil {
			report.Failed = append(report.Failed, ItemFailure{CartItemID: item.ID, Err: err})
			continue
		}
		if consumed {
			// A previous attempt crashed between the insert and the
			// delete; finish the delete and move on.
			if err := c.cart.Remove(ctx, item.ID); err != nil && err != store.ErrNotFound {
				report.Failed = append(report.Failed, ItemFailure{CartItemID: item.ID, Err: err})
				continue
			}
			report.Skipped++
			continue
		}

		order := orderFromItem(buyer, item)
		err = c.txn.InTransaction(ctx, func(txCtx context.Context) error {
			if _, err := c.orders.Insert(txCtx, order); err != nil {
				return err
			}
			return c.cart.Remove(txCtx, item.ID)
		})
		if err != nil {
			report.Failed = append(report.Failed, ItemFailure{CartItemID: item.ID, Err: err})
			continue
		}
		report.Placed++
	}

	if len(report.Failed) > 0 {
		return report, &PartialError{Report: report}
	}
	return report, nil
}

func orderFromItem(buyer BuyerInfo, item models.CartItem) models.Order {
	itemID := item.ID
	return models.Order{
		UserID: buyer.UserID,
		OrderBuyer: models.OrderBuyer{
			Name:    strings.TrimSpace(buyer.Name),
			Email:   strings.TrimSpace(buyer.Email),
			Mobile:  strings.TrimSpace(buyer.Mobile),
			Address: strings.TrimSpace(buyer.Address),
			Pincode: strings.TrimSpace(buyer.Pincode),
		},
		ProductSnapshot: item.ProductSnapshot,
		Quantity:        item.Quantity,
		PaymentMethod:   strings.TrimSpace(buyer.PaymentMethod),
		OrderDate:       buyer.orderDate(),
		OrderStatus:     models.StatusPlaced,
		CartItemID:      &itemID,
	}
}

// Cancel moves an order to cancelled.
func (c *Coordinator) Cancel(ctx context.Context, orderID primitive.ObjectID) error {
	return c.orders.SetStatus(ctx, orderID, models.StatusCancelled)
}

// UpdateStatus parses the caller-supplied status against the closed set
// before applying it.
func (c *Coordinator) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, raw string) error {
	status, err := models.ParseOrderStatus(raw)
	if err != nil {
		return store.ValidationError{Reason: err.Error()}
	}
	return c.orders.SetStatus(ctx, orderID, status)
}
