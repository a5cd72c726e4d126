package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPlaced    OrderStatus = "placed"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var knownStatuses = map[OrderStatus]bool{
	StatusPlaced:    true,
	StatusConfirmed: true,
	StatusShipped:   true,
	StatusDelivered: true,
	StatusCancelled: true,
}

// ParseOrderStatus validates a caller-supplied status string against the
// closed set. Matching is case-insensitive; the canonical lowercase form is
// returned.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !knownStatuses[status] {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

// Terminal reports whether an order in this status can no longer change.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// OrderBuyer carries the contact fields supplied at checkout.
type OrderBuyer struct {
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Mobile  string `bson:"mobile" json:"mobile"`
	Address string `bson:"address" json:"address"`
	Pincode string `bson:"pincode,omitempty" json:"pincode,omitempty"`
}

// Order is a finalized purchase record. The embedded product snapshot is a
// frozen copy; orders are never deleted and mutate only via status changes.
// CartItemID links the order back to the consumed cart line and is covered by
// a unique sparse index, which is what deduplicates checkout retries.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	OrderBuyer      `bson:",inline"`
	ProductSnapshot `bson:",inline"`
	Quantity        int                 `bson:"quantity" json:"quantity"`
	PaymentMethod   string              `bson:"paymentMethod" json:"paymentMethod"`
	OrderDate       time.Time           `bson:"orderDate" json:"orderDate"`
	OrderStatus     OrderStatus         `bson:"orderStatus" json:"orderStatus"`
	CartItemID      *primitive.ObjectID `bson:"cartItemId,omitempty" json:"cartItemId,omitempty"`
}
