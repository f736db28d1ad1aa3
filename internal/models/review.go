package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewReply is the single owner reply embedded on a review.
type ReviewReply struct {
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Review is a client review of a freelancer. Client identity fields are
// computed from the authenticated user's claims, never taken from the body.
type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FreelancerID primitive.ObjectID `bson:"freelancer_id" json:"freelancer_id"`
	ClerkID      string             `bson:"clerk_id" json:"clerk_id"`
	ClientName   string             `bson:"client_name" json:"client_name"`
	ClientAvatar string             `bson:"client_avatar" json:"client_avatar"`
	Rating       int                `bson:"rating" json:"rating"`
	Content      string             `bson:"content" json:"content"`
	HelpfulCount int                `bson:"helpful_count" json:"helpful_count"`
	Reply        *ReviewReply       `bson:"reply,omitempty" json:"reply,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
