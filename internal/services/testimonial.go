package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mygigs/mygigs-backend/internal/models"
)

type TestimonialService struct {
	collection *mongo.Collection
}

func NewTestimonialService(db *mongo.Database) *TestimonialService {
	return &TestimonialService{collection: db.Collection("testimonials")}
}

// List returns testimonials, restricted to approved ones unless the caller
// is moderating.
func (s *TestimonialService) List(ctx context.Context, includeUnapproved bool) ([]models.Testimonial, error) {
	query := bson.M{}
	if !includeUnapproved {
		query["is_approved"] = true
	}

	cur, err := s.collection.Find(ctx, query, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		log.Printf("Failed to fetch testimonials: %v", err)
		return nil, fmt.Errorf("failed to fetch testimonials: %v", err)
	}

	testimonials := []models.Testimonial{}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &testimonials); err != nil {
		return nil, fmt.Errorf("failed to decode testimonials: %v", err)
	}

	return testimonials, nil
}

// Create stores a new testimonial awaiting moderation.
func (s *TestimonialService) Create(ctx context.Context, testimonial *models.Testimonial) (string, error) {
	if testimonial.Name == "" || testimonial.Content == "" {
		return "", fmt.Errorf("%w: name and content are required", ErrInvalidRequest)
	}
	if testimonial.Rating < 1 || testimonial.Rating > 5 {
		return "", fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidRequest)
	}

	testimonial.ID = primitive.NewObjectID()
	testimonial.IsApproved = false
	if testimonial.Avatar == "" {
		testimonial.Avatar = models.Initials(testimonial.Name)
	}
	testimonial.CreatedAt = time.Now()

	result, err := s.collection.InsertOne(ctx, testimonial)
	if err != nil {
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// Approve marks a testimonial as publicly visible.
func (s *TestimonialService) Approve(ctx context.Context, id string) (*models.Testimonial, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid testimonial id", ErrInvalidRequest)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var testimonial models.Testimonial
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"is_approved": true}}, opts).Decode(&testimonial)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &testimonial, nil
}

func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid testimonial id", ErrInvalidRequest)
	}
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
