package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mygigs/mygigs-backend/internal/models"
)

const featuredJobLimit = 4

type JobService struct {
	collection *mongo.Collection
}

func NewJobService(db *mongo.Database) *JobService {
	return &JobService{collection: db.Collection("jobs")}
}

// JobFilter narrows job listings.
type JobFilter struct {
	Type         string
	Search       string
	FeaturedOnly bool
}

func (s *JobService) List(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	query := bson.M{}
	if filter.Type != "" {
		if !models.JobTypes[filter.Type] {
			return nil, fmt.Errorf("%w: invalid job type", ErrInvalidRequest)
		}
		query["type"] = filter.Type
	}
	if filter.Search != "" {
		pattern := regexp.QuoteMeta(filter.Search)
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"company": bson.M{"$regex": pattern, "$options": "i"}},
			{"skills": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if filter.FeaturedOnly {
		query["is_featured"] = true
		opts.SetLimit(featuredJobLimit)
	}

	cur, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		log.Printf("Failed to fetch jobs: %v", err)
		return nil, fmt.Errorf("failed to fetch jobs: %v", err)
	}

	jobs := []models.Job{}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode jobs: %v", err)
	}

	now := time.Now()
	for i := range jobs {
		jobs[i].Posted = jobs[i].PostedAgo(now)
	}

	return jobs, nil
}

func (s *JobService) GetByID(ctx context.Context, id string) (*models.Job, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid job id", ErrInvalidRequest)
	}

	var job models.Job
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	job.Posted = job.PostedAgo(time.Now())
	return &job, nil
}

func (s *JobService) Create(ctx context.Context, job *models.Job) (string, error) {
	if job.Title == "" || job.Company == "" {
		return "", fmt.Errorf("%w: title and company are required", ErrInvalidRequest)
	}
	if !models.JobTypes[job.Type] {
		return "", fmt.Errorf("%w: type must be full-time, part-time, or contract", ErrInvalidRequest)
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	job.ID = primitive.NewObjectID()
	job.CreatedAt = time.Now()

	result, err := s.collection.InsertOne(ctx, job)
	if err != nil {
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *JobService) Update(ctx context.Context, id string, set bson.M) (*models.Job, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid job id", ErrInvalidRequest)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidRequest)
	}
	if t, ok := set["type"].(string); ok && !models.JobTypes[t] {
		return nil, fmt.Errorf("%w: type must be full-time, part-time, or contract", ErrInvalidRequest)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var job models.Job
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	job.Posted = job.PostedAgo(time.Now())
	return &job, nil
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid job id", ErrInvalidRequest)
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
