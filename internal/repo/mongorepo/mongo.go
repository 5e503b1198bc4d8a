// Package mongorepo stores the catalog, carts and users in MongoDB.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Skotchmaster/quickkart/internal/repo"
)

const (
	productsCollection = "products"
	cartCollection     = "cart_items"
	usersCollection    = "users"
)

type MongoRepo struct {
	DB *mongo.Database
}

func New(db *mongo.Database) *MongoRepo {
	return &MongoRepo{DB: db}
}

// Connect dials uri, pings the primary and ensures the unique indexes exist.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *MongoRepo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	r := New(client.Database(database))
	if err := r.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return client, r, nil
}

func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		productsCollection: {{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "price", Value: 1}, {Key: "imageUrl", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_product_identity"),
		}},
		cartCollection: {{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_product"),
		}},
		usersCollection: {{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_username"),
		}},
	}
	for coll, idx := range indexes {
		if _, err := r.DB.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("mongo indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.DB.Client().Ping(ctx, readpref.Primary())
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repo.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repo.ErrDuplicate
	default:
		return err
	}
}

// now matches the millisecond precision BSON dates keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
