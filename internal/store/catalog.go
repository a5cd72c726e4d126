package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopez/internal/models"
)

// Catalog holds the product collection and the admin settings singleton
// (banner plus category list). Cart and checkout only ever read it to copy
// snapshot fields at creation time.
type Catalog struct {
	products *mongo.Collection
	settings *mongo.Collection
}

func NewCatalog(db *mongo.Database) *Catalog {
	return &Catalog{
		products: db.Collection("products"),
		settings: db.Collection("admin"),
	}
}

type ProductInput struct {
	Title       string
	Description string
	MainImg     string
	Carousel    []string
	Category    string
	Sizes       []string
	Gender      string
	Price       float64
	Discount    float64
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ValidationError{Reason: "product name is required"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return ValidationError{Reason: "product description is required"}
	}
	if in.Price <= 0 {
		return ValidationError{Reason: "product price is required"}
	}
	return nil
}

func (c *Catalog) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := in.Validate(); err != nil {
		return models.Product{}, err
	}

	now := time.Now()
	product := models.Product{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		MainImg:     in.MainImg,
		Carousel:    models.StringList(in.Carousel),
		Category:    strings.TrimSpace(in.Category),
		Sizes:       models.StringList(in.Sizes),
		Gender:      in.Gender,
		Price:       in.Price,
		Discount:    in.Discount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := c.products.InsertOne(ctx, product)
	if err != nil {
		return models.Product{}, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return product, nil
}

// UpdateProduct replaces every catalog field, matching the storefront's
// full-form update. Existing cart items and orders keep their snapshots.
func (c *Catalog) UpdateProduct(ctx context.Context, id primitive.ObjectID, in ProductInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	res, err := c.products.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":       strings.TrimSpace(in.Title),
			"description": in.Description,
			"mainImg":     in.MainImg,
			"carousel":    models.StringList(in.Carousel),
			"category":    strings.TrimSpace(in.Category),
			"sizes":       models.StringList(in.Sizes),
			"gender":      in.Gender,
			"price":       in.Price,
			"discount":    in.Discount,
			"updatedAt":   time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Catalog) FetchProducts(ctx context.Context) ([]models.Product, error) {
	cursor, err := c.products.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Catalog) FetchProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := c.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// Settings returns the singleton admin document, creating the empty one on
// first access.
func (c *Catalog) Settings(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	err := c.settings.FindOneAndUpdate(ctx,
		bson.M{},
		bson.M{"$setOnInsert": bson.M{"banner": "", "categories": models.StringList{}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&settings)
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (c *Catalog) UpdateBanner(ctx context.Context, banner string) error {
	_, err := c.settings.UpdateOne(ctx,
		bson.M{},
		bson.M{
			"$set":         bson.M{"banner": banner},
			"$setOnInsert": bson.M{"categories": models.StringList{}},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// EnsureCategory registers a category name into the settings singleton. The
// call is idempotent: registering an existing name changes nothing.
func (c *Catalog) EnsureCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Reason: "category name is required"}
	}

	_, err := c.settings.UpdateOne(ctx,
		bson.M{},
		bson.M{
			"$addToSet":    bson.M{"categories": name},
			"$setOnInsert": bson.M{"banner": ""},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
