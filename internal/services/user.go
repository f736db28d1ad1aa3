package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mygigs/mygigs-backend/internal/models"
)

// IdentityClaims are the verified token claims handed in by the auth layer.
type IdentityClaims struct {
	ClerkID  string
	Email    string
	FullName string
	ImageURL string
	Role     string
}

type UserService struct {
	collection *mongo.Collection
}

func NewUserService(db *mongo.Database) *UserService {
	return &UserService{collection: db.Collection("users")}
}

// GetOrCreateFromClaims resolves the local user for a set of verified
// identity-provider claims, creating one on first sight.
func (s *UserService) GetOrCreateFromClaims(ctx context.Context, claims IdentityClaims) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"clerk_id": claims.ClerkID}).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	role := claims.Role
	if role == "" {
		role = models.RoleUser
	}
	user = models.User{
		ID:           primitive.NewObjectID(),
		ClerkID:      claims.ClerkID,
		Username:     "user_" + claims.ClerkID,
		FullName:     claims.FullName,
		Email:        claims.Email,
		Role:         role,
		ProfileImage: claims.ImageURL,
		CreatedAt:    time.Now(),
	}
	if _, err := s.collection.InsertOne(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByClerkID returns the local user for an identity-provider id.
func (s *UserService) GetByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"clerk_id": clerkID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PromoteToFreelancer sets the user's role to freelancer. This is the
// authoritative local update; the identity-provider mirror is separate and
// best effort.
func (s *UserService) PromoteToFreelancer(ctx context.Context, clerkID string) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"role": models.RoleFreelancer}}

	var user models.User
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"clerk_id": clerkID}, update, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
