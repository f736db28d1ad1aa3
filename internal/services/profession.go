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

type ProfessionService struct {
	collection  *mongo.Collection
	freelancers *FreelancerService
}

func NewProfessionService(db *mongo.Database, freelancers *FreelancerService) *ProfessionService {
	return &ProfessionService{collection: db.Collection("professions"), freelancers: freelancers}
}

// List returns all professions with their live freelancer counts.
func (s *ProfessionService) List(ctx context.Context) ([]models.Profession, error) {
	cur, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		log.Printf("Failed to fetch professions: %v", err)
		return nil, fmt.Errorf("failed to fetch professions: %v", err)
	}

	professions := []models.Profession{}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &professions); err != nil {
		return nil, fmt.Errorf("failed to decode professions: %v", err)
	}

	for i := range professions {
		count, err := s.freelancers.CountByProfession(ctx, professions[i].ID)
		if err != nil {
			log.Printf("Failed to count freelancers for profession %s: %v", professions[i].ID.Hex(), err)
			continue
		}
		professions[i].Count = count
	}

	return professions, nil
}

func (s *ProfessionService) GetByID(ctx context.Context, id string) (*models.Profession, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid profession id", ErrInvalidRequest)
	}

	var profession models.Profession
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&profession)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	count, err := s.freelancers.CountByProfession(ctx, profession.ID)
	if err == nil {
		profession.Count = count
	}

	return &profession, nil
}

func (s *ProfessionService) Create(ctx context.Context, profession *models.Profession) (string, error) {
	if profession.Name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	profession.ID = primitive.NewObjectID()
	profession.CreatedAt = time.Now()

	result, err := s.collection.InsertOne(ctx, profession)
	if err != nil {
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *ProfessionService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid profession id", ErrInvalidRequest)
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
