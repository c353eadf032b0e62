package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tavernarpg/storefront/internal/domain"
)

type mongoPendingRepository struct {
	collection *mongo.Collection
}

func NewMongoPendingCheckoutRepository(db *mongo.Database) PendingCheckoutRepository {
	return &mongoPendingRepository{collection: db.Collection("pending_checkouts")}
}

func (m *mongoPendingRepository) Put(ctx context.Context, pending *domain.PendingCheckout) error {
	filter := bson.M{"user_id": pending.UserID, "checkout_id": pending.CheckoutID}
	update := bson.M{"$set": bson.M{
		"checkout_url": pending.CheckoutURL,
		"lines":        pending.Lines,
		"total":        pending.Total,
		"created_at":   pending.CreatedAt,
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to store pending checkout: %w", err)
	}
	return nil
}

func (m *mongoPendingRepository) Get(ctx context.Context, userID, checkoutID string) (*domain.PendingCheckout, error) {
	var pending domain.PendingCheckout

	filter := bson.M{"user_id": userID, "checkout_id": checkoutID}
	err := m.collection.FindOne(ctx, filter).Decode(&pending)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPendingNotFound
		}
		return nil, fmt.Errorf("failed to get pending checkout: %w", err)
	}
	return &pending, nil
}

func (m *mongoPendingRepository) Delete(ctx context.Context, userID, checkoutID string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID, "checkout_id": checkoutID})
	if err != nil {
		return fmt.Errorf("failed to delete pending checkout: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrPendingNotFound
	}
	return nil
}

func (m *mongoPendingRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "checkout_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create pending checkout indexes: %w", err)
	}
	return nil
}
