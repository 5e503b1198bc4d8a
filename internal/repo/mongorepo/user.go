package mongorepo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skotchmaster/quickkart/internal/models"
)

func (r *MongoRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now()
	}
	_, err := r.DB.Collection(usersCollection).InsertOne(ctx, userDoc{
		ID:           u.ID.String(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	})
	return translate(err)
}

func (r *MongoRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, bson.M{"username": username})
}

func (r *MongoRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findUser(ctx, bson.M{"_id": id.String()})
}

func (r *MongoRepo) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var d userDoc
	if err := r.DB.Collection(usersCollection).FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, translate(err)
	}
	u := d.model()
	return &u, nil
}
