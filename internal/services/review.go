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

type ReviewService struct {
	collection  *mongo.Collection
	freelancers *FreelancerService
}

func NewReviewService(db *mongo.Database, freelancers *FreelancerService) *ReviewService {
	return &ReviewService{collection: db.Collection("reviews"), freelancers: freelancers}
}

func (s *ReviewService) ListByFreelancer(ctx context.Context, freelancerID string) ([]models.Review, error) {
	objID, err := primitive.ObjectIDFromHex(freelancerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid freelancer id", ErrInvalidRequest)
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := s.collection.Find(ctx, bson.M{"freelancer_id": objID}, opts)
	if err != nil {
		log.Printf("Failed to fetch reviews for freelancer %s: %v", freelancerID, err)
		return nil, fmt.Errorf("failed to fetch reviews: %v", err)
	}

	reviews := []models.Review{}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %v", err)
	}

	return reviews, nil
}

// Create stores a review authored by the authenticated user. Client name and
// initials come from the user record, not the request body. The freelancer's
// rating aggregate is updated afterwards.
func (s *ReviewService) Create(ctx context.Context, freelancerID string, user *models.User, rating int, content string) (*models.Review, error) {
	objID, err := primitive.ObjectIDFromHex(freelancerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid freelancer id", ErrInvalidRequest)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidRequest)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidRequest)
	}

	clientName := user.FullName
	if clientName == "" {
		clientName = user.Username
	}

	review := &models.Review{
		ID:           primitive.NewObjectID(),
		FreelancerID: objID,
		ClerkID:      user.ClerkID,
		ClientName:   clientName,
		ClientAvatar: models.Initials(clientName),
		Rating:       rating,
		Content:      content,
		CreatedAt:    time.Now(),
	}
	if _, err := s.collection.InsertOne(ctx, review); err != nil {
		return nil, err
	}

	if err := s.freelancers.applyReviewAggregate(ctx, objID, rating); err != nil {
		log.Printf("Failed to update rating aggregate for freelancer %s: %v", freelancerID, err)
	}

	return review, nil
}

// MarkHelpful increments the helpful counter and returns the new value.
func (s *ReviewService) MarkHelpful(ctx context.Context, reviewID string) (int, error) {
	objID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid review id", ErrInvalidRequest)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var review models.Review
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"helpful_count": 1}}, opts).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return review.HelpfulCount, nil
}

func (s *ReviewService) GetByID(ctx context.Context, reviewID string) (*models.Review, error) {
	objID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid review id", ErrInvalidRequest)
	}

	var review models.Review
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// AddReply sets the single reply on a review. A second reply is rejected.
func (s *ReviewService) AddReply(ctx context.Context, reviewID, content string) (*models.ReviewReply, error) {
	objID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid review id", ErrInvalidRequest)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidRequest)
	}

	reply := &models.ReviewReply{Content: content, CreatedAt: time.Now()}
	filter := bson.M{"_id": objID, "reply": nil}
	res, err := s.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"reply": reply}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		// Either the review is missing or it already carries a reply.
		if _, err := s.GetByID(ctx, reviewID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: review already has a reply", ErrInvalidRequest)
	}

	return reply, nil
}
