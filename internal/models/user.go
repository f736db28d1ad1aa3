package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can carry. A successful subscription payment promotes a user
// to RoleFreelancer.
const (
	RoleUser       = "user"
	RoleFreelancer = "freelancer"
	RoleAdmin      = "admin"
)

// User is the local mirror of an identity-provider account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkID      string             `bson:"clerk_id" json:"clerk_id"`
	Username     string             `bson:"username" json:"username"`
	FullName     string             `bson:"fullname" json:"fullname"`
	Email        string             `bson:"email" json:"email"`
	Role         string             `bson:"role" json:"role"`
	ProfileImage string             `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
