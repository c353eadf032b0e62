package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tavernarpg/storefront/internal/domain"
)

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{collection: db.Collection("orders")}
}

// UpsertOrder writes an order record keyed on the platform order id when
// known, else the checkout session id. Both reconciliation paths can fire
// for the same purchase; the upsert collapses them into one record. The
// snapshot fields (items, total) are written only on first insert so the
// later writer cannot rewrite history.
func (m *mongoOrderRepository) UpsertOrder(ctx context.Context, order *domain.Order) error {
	var filter bson.M
	switch {
	case order.ShopifyOrderID != "":
		filter = bson.M{"user_id": order.UserID, "shopify_order_id": order.ShopifyOrderID}
	case order.CheckoutID != "":
		filter = bson.M{"user_id": order.UserID, "checkout_id": order.CheckoutID}
	default:
		if _, err := m.collection.InsertOne(ctx, order); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		return nil
	}

	onInsert := bson.M{
		"_id":        order.ID,
		"items":      order.Items,
		"total":      order.Total,
		"created_at": order.CreatedAt,
	}
	if order.CheckoutURL != "" {
		onInsert["checkout_url"] = order.CheckoutURL
	}
	if order.CheckoutID != "" && order.ShopifyOrderID != "" {
		// checkout_id is a filter key only in the fallback branch
		onInsert["checkout_id"] = order.CheckoutID
	}

	set := bson.M{}
	if order.OrderNumber != "" {
		set["order_number"] = order.OrderNumber
	}
	// a completed status always wins; pending only lands on first insert
	if order.Status == domain.OrderStatusCompleted {
		set["status"] = order.Status
	} else {
		onInsert["status"] = order.Status
	}

	update := bson.M{"$setOnInsert": onInsert}
	if len(set) > 0 {
		update["$set"] = set
	}

	opts := options.Update().SetUpsert(true)
	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert order: %w", err)
	}
	return nil
}

func (m *mongoOrderRepository) ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (m *mongoOrderRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "shopify_order_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"shopify_order_id": bson.M{"$type": "string"}}),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}
