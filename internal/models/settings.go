package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Settings is the admin singleton document holding the storefront banner and
// the category list. At most one instance is meaningful.
type Settings struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Banner     string             `bson:"banner" json:"banner"`
	Categories StringList         `bson:"categories" json:"categories"`
}
