package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profession is a freelancer category.
type Profession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	ImageURL    string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`

	// Count is computed at read time, never stored.
	Count int64 `bson:"-" json:"count"`
}
