package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"archie-core-facebook-layer/internal/domain"
	"archie-core-facebook-layer/internal/infrastructure/repository/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateAccount is returned when an account with the same external id already exists
var ErrDuplicateAccount = errors.New("account already exists")

// ErrAccountNotFound is returned when updating an account that is not stored
var ErrAccountNotFound = errors.New("account not found")

// MongoAccountRepository implements AccountRepository using MongoDB
type MongoAccountRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoAccountRepository creates a new MongoDB account repository
func NewMongoAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{
		collection: db.Collection("accounts"),
		now:        time.Now,
	}
}

// EnsureIndexes creates the unique index on external_id
func (r *MongoAccountRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "external_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("external_id_unique"),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create accounts index: %w", err)
	}
	return nil
}

// GetByExternalID retrieves an account by its remote identifier
func (r *MongoAccountRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.AccountRecord, error) {
	var doc entity.MongoAccountDoc
	filter := bson.M{"external_id": externalID}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account, err := doc.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to decode account %s: %w", externalID, err)
	}
	return account, nil
}

// Create inserts a new account
func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.AccountRecord) (*domain.AccountRecord, error) {
	now := r.now().UTC()
	doc := entity.MongoAccountDocFromDomain(account)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("failed to create account %s: %w", account.ExternalID, ErrDuplicateAccount)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	created := account.Clone()
	created.ID = doc.ID.Hex()
	created.ConnectedAt = now
	created.UpdatedAt = now
	return created, nil
}

// Update overwrites every mutable field of the stored account
func (r *MongoAccountRepository) Update(ctx context.Context, account *domain.AccountRecord) (*domain.AccountRecord, error) {
	objID, err := primitive.ObjectIDFromHex(account.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid account ID: %w", err)
	}

	now := r.now().UTC()
	update := bson.M{
		"$set": bson.M{
			"platform":     account.Platform,
			"kind":         account.Kind,
			"token":        account.Token,
			"external_id":  account.ExternalID,
			"display_name": account.DisplayName,
			"active":       account.Active,
			"metadata":     account.Metadata.ToMap(),
			"updated_at":   now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("failed to update account %s: %w", account.ID, ErrAccountNotFound)
	}

	updated := account.Clone()
	updated.UpdatedAt = now
	return updated, nil
}
