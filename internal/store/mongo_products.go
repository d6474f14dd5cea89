package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amrtikande/shoop/internal/domain"
)

type mongoCatalog struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoCatalog creates a CatalogStore backed by the "products" collection.
func NewMongoCatalog(db *mongo.Database) CatalogStore {
	return &mongoCatalog{
		db:         db,
		collection: db.Collection("products"),
	}
}

func (m *mongoCatalog) GetProduct(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var product domain.Product

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

func (m *mongoCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

func (m *mongoCatalog) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	now := time.Now()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Emoji == "" {
		p.Emoji = domain.DefaultEmoji
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return p, nil
}

func (m *mongoCatalog) UpdateProduct(ctx context.Context, id primitive.ObjectID, upd domain.ProductUpdate) (*domain.Product, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
	}
	if upd.Emoji != nil {
		set["emoji"] = *upd.Emoji
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Available != nil {
		set["available"] = *upd.Available
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Product
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &updated, nil
}

func (m *mongoCatalog) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (m *mongoCatalog) CountProducts(ctx context.Context) (int64, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (m *mongoCatalog) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (*domain.Product, error) {
	// The stock guard in the filter makes the read-modify-write indivisible:
	// two racing decrements can both match only if stock covers both.
	filter := bson.M{"_id": id, "stock": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"stock": -qty},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Product
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the product is gone or it lost the race. Look again to tell.
			current, getErr := m.GetProduct(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			return nil, &InsufficientStockError{
				ProductID: id,
				Name:      current.Name,
				Available: current.Stock,
				Requested: qty,
			}
		}
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	if updated.Stock <= 0 && updated.Available {
		// The guard keeps stock non-negative, so only availability needs the flip.
		_, err := m.collection.UpdateOne(ctx,
			bson.M{"_id": id, "stock": bson.M{"$lte": 0}},
			bson.M{"$set": bson.M{"stock": 0, "available": false}})
		if err != nil {
			return nil, fmt.Errorf("failed to flip availability: %w", err)
		}
		updated.Stock = 0
		updated.Available = false
	}

	return &updated, nil
}

func (m *mongoCatalog) RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	update := bson.M{
		"$inc": bson.M{"stock": qty},
		"$set": bson.M{"available": true, "updated_at": time.Now()},
	}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (m *mongoCatalog) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}

// CreateIndexes sets up the catalog indexes. Call once at startup.
func (m *mongoCatalog) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "available", Value: 1}},
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
