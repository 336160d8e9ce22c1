package entity

import (
	"time"

	"archie-core-facebook-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoAccountDoc represents an ad account in MongoDB
type MongoAccountDoc struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty"`
	Platform    string                 `bson:"platform"`
	Kind        string                 `bson:"kind"`
	Token       string                 `bson:"token"`
	ExternalID  string                 `bson:"external_id"`
	DisplayName string                 `bson:"display_name"`
	Active      bool                   `bson:"active"`
	Metadata    map[string]interface{} `bson:"metadata,omitempty"`
	CreatedAt   time.Time              `bson:"created_at"`
	UpdatedAt   time.Time              `bson:"updated_at"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoAccountDoc) ToDomain() (*domain.AccountRecord, error) {
	metadata, err := domain.MetadataFromMap(d.Metadata)
	if err != nil {
		return nil, err
	}

	return &domain.AccountRecord{
		ID:          d.ID.Hex(),
		Platform:    d.Platform,
		Kind:        d.Kind,
		Token:       d.Token,
		ExternalID:  d.ExternalID,
		DisplayName: d.DisplayName,
		Active:      d.Active,
		Metadata:    metadata,
		ConnectedAt: d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// MongoAccountDocFromDomain converts a domain entity to a MongoDB document
func MongoAccountDocFromDomain(account *domain.AccountRecord) *MongoAccountDoc {
	doc := &MongoAccountDoc{
		Platform:    account.Platform,
		Kind:        account.Kind,
		Token:       account.Token,
		ExternalID:  account.ExternalID,
		DisplayName: account.DisplayName,
		Active:      account.Active,
		Metadata:    account.Metadata.ToMap(),
		CreatedAt:   account.ConnectedAt,
		UpdatedAt:   account.UpdatedAt,
	}

	if account.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(account.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}
