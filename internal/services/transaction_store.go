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

// MongoTransactionStore is the Mongo-backed TransactionStore. Concurrency
// safety is delegated to per-document update atomicity; there is no
// optimistic-concurrency token.
type MongoTransactionStore struct {
	collection *mongo.Collection
}

func NewMongoTransactionStore(db *mongo.Database) *MongoTransactionStore {
	return &MongoTransactionStore{collection: db.Collection("transactions")}
}

// EnsureIndexes creates the unique sparse indexes on the provider request
// ids and the lookup index for client polling.
func (s *MongoTransactionStore) EnsureIndexes(ctx context.Context) error {
	sparse := options.Index().SetUnique(true).SetSparse(true)
	indexModels := []mongo.IndexModel{
		{Keys: bson.M{"checkout_request_id": 1}, Options: sparse},
		{Keys: bson.M{"merchant_request_id": 1}, Options: sparse},
		{Keys: bson.D{{Key: "clerk_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := s.collection.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		log.Printf("Failed to create transaction indexes: %v", err)
		return fmt.Errorf("failed to create transaction indexes: %v", err)
	}
	return nil
}

func (s *MongoTransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt

	_, err := s.collection.InsertOne(ctx, tx)
	return err
}

func (s *MongoTransactionStore) SetAck(ctx context.Context, id primitive.ObjectID, merchantRequestID, checkoutRequestID string) error {
	update := bson.M{"$set": bson.M{
		"merchant_request_id": merchantRequestID,
		"checkout_request_id": checkoutRequestID,
		"updated_at":          time.Now(),
	}}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoTransactionStore) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.collection.FindOne(ctx, filter, opts...).Decode(&tx)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *MongoTransactionStore) FindByCheckoutID(ctx context.Context, checkoutRequestID string) (*models.Transaction, error) {
	return s.findOne(ctx, bson.M{"checkout_request_id": checkoutRequestID})
}

func (s *MongoTransactionStore) FindByMerchantID(ctx context.Context, merchantRequestID string) (*models.Transaction, error) {
	return s.findOne(ctx, bson.M{"merchant_request_id": merchantRequestID})
}

func (s *MongoTransactionStore) LatestByClerkID(ctx context.Context, clerkID string) (*models.Transaction, error) {
	opts := options.FindOne().SetSort(bson.M{"created_at": -1})
	return s.findOne(ctx, bson.M{"clerk_id": clerkID}, opts)
}

func (s *MongoTransactionStore) ApplyResult(ctx context.Context, id primitive.ObjectID, result ResultUpdate) error {
	set := bson.M{
		"result_code": result.ResultCode,
		"result_desc": result.ResultDesc,
		"updated_at":  time.Now(),
	}
	if result.MpesaReceipt != "" {
		set["mpesa_receipt"] = result.MpesaReceipt
	}
	if result.TransactionDate != "" {
		set["transaction_date"] = result.TransactionDate
	}
	if result.PhoneNumber != "" {
		set["phone_number"] = result.PhoneNumber
	}
	if result.Amount > 0 {
		set["amount"] = result.Amount
	}

	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
