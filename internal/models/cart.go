package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one cart line: a product snapshot plus a chosen size and
// quantity, owned by exactly one user. Persisted quantity is always >= 1; a
// mutation that would reach zero deletes the document instead.
type CartItem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ProductSnapshot `bson:",inline"`
	Quantity        int       `bson:"quantity" json:"quantity"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}
