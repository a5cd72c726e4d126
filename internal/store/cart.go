package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shopez/internal/models"
)

// Cart is the per-user line item store.
type Cart struct {
	col *mongo.Collection
}

func NewCart(db *mongo.Database) *Cart {
	return &Cart{col: db.Collection("cart")}
}

// AddItemInput carries the product snapshot and quantity for a new line item.
type AddItemInput struct {
	UserID      primitive.ObjectID
	Title       string
	Description string
	MainImg     string
	Size        string
	Quantity    int
	Price       float64
	Discount    float64
}

// Validate enforces the add-to-cart required fields. A zero quantity defaults
// to one; negative quantities are rejected.
func (in AddItemInput) Validate() error {
	if in.UserID.IsZero() {
		return ValidationError{Reason: "userId is required"}
	}
	if strings.TrimSpace(in.Title) == "" {
		return ValidationError{Reason: "title is required"}
	}
	if in.Quantity < 0 {
		return ValidationError{Reason: "quantity must be positive"}
	}
	if in.Price <= 0 {
		return ValidationError{Reason: "price is required"}
	}
	return nil
}

// Add creates a new line item. Lines are never merged: adding the same
// product and size twice yields two documents, matching the storefront's
// duplicate-line behavior.
func (c *Cart) Add(ctx context.Context, in AddItemInput) (models.CartItem, error) {
	if err := in.Validate(); err != nil {
		return models.CartItem{}, err
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item := models.CartItem{
		UserID: in.UserID,
		ProductSnapshot: models.ProductSnapshot{
			Title:       strings.TrimSpace(in.Title),
			Description: in.Description,
			MainImg:     in.MainImg,
			Size:        in.Size,
			Price:       in.Price,
			Discount:    in.Discount,
		},
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}

	res, err := c.col.InsertOne(ctx, item)
	if err != nil {
		return models.CartItem{}, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = id
	}
	return item, nil
}

// Increase bumps the quantity by one as a single atomic update, so concurrent
// increments never lose writes.
func (c *Cart) Increase(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"quantity": 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// decreaseAttempts bounds the optimistic retry loop in Decrease.
const decreaseAttempts = 3

// nextQuantity computes the decremented quantity and whether the line must be
// deleted instead of updated. A quantity is never persisted at zero or below.
func nextQuantity(current int) (next int, remove bool) {
	next = current - 1
	return next, next <= 0
}

// Decrease lowers the quantity by one. When the observed quantity is one the
// document is deleted instead of persisted at zero, and removed=true is
// reported. Both the update and the delete are conditional on the quantity
// read, so interleaved decrements retry instead of losing updates.
func (c *Cart) Decrease(ctx context.Context, id primitive.ObjectID) (removed bool, err error) {
	for attempt := 0; attempt < decreaseAttempts; attempt++ {
		var item models.CartItem
		if err := c.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
			if err == mongo.ErrNoDocuments {
				return false, ErrNotFound
			}
			return false, err
		}

		next, remove := nextQuantity(item.Quantity)
		if remove {
			res, err := c.col.DeleteOne(ctx, bson.M{"_id": id, "quantity": item.Quantity})
			if err != nil {
				return false, err
			}
			if res.DeletedCount == 1 {
				return true, nil
			}
			continue
		}

		res, err := c.col.UpdateOne(ctx,
			bson.M{"_id": id, "quantity": item.Quantity},
			bson.M{"$set": bson.M{"quantity": next}},
		)
		if err != nil {
			return false, err
		}
		if res.MatchedCount == 1 {
			return false, nil
		}
	}
	return false, fmt.Errorf("cart item %s: too many concurrent quantity changes", id.Hex())
}

// Remove deletes the line item unconditionally. Zero rows affected is
// reported as not found.
func (c *Cart) Remove(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns every line item for the user. Order is not guaranteed.
func (c *Cart) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	cursor, err := c.col.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.CartItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
