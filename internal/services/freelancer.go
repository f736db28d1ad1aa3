package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mygigs/mygigs-backend/internal/models"
)

const featuredFreelancerLimit = 8

// FreelancerFilter is the query surface for freelancer listings. String
// fields are raw query-parameter values; numeric fields are parsed here so
// handlers stay thin.
type FreelancerFilter struct {
	ProfessionID  string
	County        string
	Constituency  string
	Ward          string
	MinRating     string
	MinExperience string
	Search        string
	FeaturedOnly  bool
}

// query builds the Mongo filter. Location matches are case-insensitive
// exact; search matches name, title, or skills.
func (f FreelancerFilter) query() (bson.M, error) {
	q := bson.M{"is_active": true}

	if f.ProfessionID != "" {
		id, err := primitive.ObjectIDFromHex(f.ProfessionID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid profession id", ErrInvalidRequest)
		}
		q["profession_id"] = id
	}
	for field, value := range map[string]string{
		"county":       f.County,
		"constituency": f.Constituency,
		"ward":         f.Ward,
	} {
		if value != "" {
			q[field] = bson.M{"$regex": "^" + regexp.QuoteMeta(value) + "$", "$options": "i"}
		}
	}
	if f.MinRating != "" {
		min, err := strconv.ParseFloat(f.MinRating, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid min_rating", ErrInvalidRequest)
		}
		q["rating"] = bson.M{"$gte": min}
	}
	if f.MinExperience != "" {
		min, err := strconv.Atoi(f.MinExperience)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid min_experience", ErrInvalidRequest)
		}
		q["years_experience"] = bson.M{"$gte": min}
	}
	if f.Search != "" {
		pattern := regexp.QuoteMeta(f.Search)
		q["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"skills": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if f.FeaturedOnly {
		q["is_featured"] = true
	}

	return q, nil
}

type FreelancerService struct {
	collection *mongo.Collection
}

func NewFreelancerService(db *mongo.Database) *FreelancerService {
	return &FreelancerService{collection: db.Collection("freelancers")}
}

func (s *FreelancerService) List(ctx context.Context, filter FreelancerFilter) ([]models.Freelancer, error) {
	query, err := filter.query()
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if filter.FeaturedOnly {
		opts.SetLimit(featuredFreelancerLimit)
	}

	cur, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		log.Printf("Failed to fetch freelancers: %v", err)
		return nil, fmt.Errorf("failed to fetch freelancers: %v", err)
	}

	freelancers := []models.Freelancer{}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &freelancers); err != nil {
		return nil, fmt.Errorf("failed to decode freelancers: %v", err)
	}

	return freelancers, nil
}

func (s *FreelancerService) GetByID(ctx context.Context, id string) (*models.Freelancer, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid freelancer id", ErrInvalidRequest)
	}

	var freelancer models.Freelancer
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&freelancer)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &freelancer, nil
}

// GetOrCreateByUser returns the user's own profile, creating a blank
// inactive-free one on first access so profile editing can start from
// nothing.
func (s *FreelancerService) GetOrCreateByUser(ctx context.Context, user *models.User) (*models.Freelancer, error) {
	var freelancer models.Freelancer
	err := s.collection.FindOne(ctx, bson.M{"clerk_id": user.ClerkID}).Decode(&freelancer)
	if err == nil {
		return &freelancer, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	freelancer = models.Freelancer{
		ID:        primitive.NewObjectID(),
		ClerkID:   user.ClerkID,
		Name:      user.FullName,
		Skills:    []string{},
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := s.collection.InsertOne(ctx, &freelancer); err != nil {
		return nil, err
	}
	return &freelancer, nil
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *FreelancerService) UpdateProfile(ctx context.Context, clerkID string, set bson.M) (*models.Freelancer, error) {
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidRequest)
	}
	set["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var freelancer models.Freelancer
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"clerk_id": clerkID}, bson.M{"$set": set}, opts).Decode(&freelancer)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &freelancer, nil
}

// CountByProfession backs the profession listing's live counts.
func (s *FreelancerService) CountByProfession(ctx context.Context, professionID primitive.ObjectID) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"profession_id": professionID, "is_active": true})
}

// applyReviewAggregate folds a new rating into the freelancer's stored
// average and review count.
func (s *FreelancerService) applyReviewAggregate(ctx context.Context, freelancerID primitive.ObjectID, rating int) error {
	var freelancer models.Freelancer
	err := s.collection.FindOne(ctx, bson.M{"_id": freelancerID}).Decode(&freelancer)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	count := freelancer.ReviewCount + 1
	avg := (freelancer.Rating*float64(freelancer.ReviewCount) + float64(rating)) / float64(count)

	update := bson.M{"$set": bson.M{
		"rating":       avg,
		"review_count": count,
		"updated_at":   time.Now(),
	}}
	_, err = s.collection.UpdateOne(ctx, bson.M{"_id": freelancerID}, update)
	return err
}
