package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	MainImg     string             `bson:"mainImg,omitempty" json:"mainImg,omitempty"`
	Carousel    StringList         `bson:"carousel,omitempty" json:"carousel,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Sizes       StringList         `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Gender      string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Discount    float64            `bson:"discount" json:"discount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductSnapshot is the value-copy of catalog fields embedded in cart line
// items and orders at creation time. Later catalog edits never touch it.
type ProductSnapshot struct {
	Title       string  `bson:"title" json:"title"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	MainImg     string  `bson:"mainImg,omitempty" json:"mainImg,omitempty"`
	Size        string  `bson:"size,omitempty" json:"size,omitempty"`
	Price       float64 `bson:"price" json:"price"`
	Discount    float64 `bson:"discount" json:"discount"`
}
