package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shopez/internal/models"
)

// Orders is the append-mostly order record store. Records are never deleted;
// only the status field mutates after insert.
type Orders struct {
	col *mongo.Collection
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{col: db.Collection("orders")}
}

func (o *Orders) Insert(ctx context.Context, order models.Order) (primitive.ObjectID, error) {
	res, err := o.col.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// ExistsForCartItem reports whether an order already references the given
// cart line. Used to skip already-consumed items when a checkout is retried.
func (o *Orders) ExistsForCartItem(ctx context.Context, cartItemID primitive.ObjectID) (bool, error) {
	count, err := o.col.CountDocuments(ctx, bson.M{"cartItemId": cartItemID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetStatus moves the order to the given status. Orders in a terminal status
// (delivered, cancelled) are left untouched and the call fails.
func (o *Orders) SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	var current models.Order
	if err := o.col.FindOne(ctx, bson.M{"_id": id}).Decode(&current); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return err
	}

	if current.OrderStatus.Terminal() && current.OrderStatus != status {
		return ValidationError{Reason: fmt.Sprintf("order is already %s", current.OrderStatus)}
	}

	res, err := o.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"orderStatus": status}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every order, most useful for the admin panel.
func (o *Orders) ListAll(ctx context.Context) ([]models.Order, error) {
	cursor, err := o.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
