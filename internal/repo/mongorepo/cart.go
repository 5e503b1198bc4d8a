package mongorepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/quickkart/internal/models"
	"github.com/Skotchmaster/quickkart/internal/repo"
)

func lineFilter(userID, productID uuid.UUID) bson.M {
	return bson.M{"userId": userID.String(), "productId": productID.String()}
}

func (r *MongoRepo) ListCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.DB.Collection(cartCollection).Find(ctx, bson.M{"userId": userID.String()}, opts)
	if err != nil {
		return nil, err
	}
	var docs []cartItemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ProductID)
	}
	products, err := r.productsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0, len(docs))
	for _, d := range docs {
		item := d.model()
		if p, ok := products[d.ProductID]; ok {
			item.Product = &p
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *MongoRepo) CartItemExists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	n, err := r.DB.Collection(cartCollection).CountDocuments(ctx, lineFilter(userID, productID), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoRepo) IncrementCartItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	return r.bump(ctx, lineFilter(userID, productID), 1)
}

func (r *MongoRepo) DecrementCartItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	filter := lineFilter(userID, productID)
	filter["quantity"] = bson.M{"$gt": 1}
	return r.bump(ctx, filter, -1)
}

// bump applies $inc to the single line matching filter and returns it with its product.
func (r *MongoRepo) bump(ctx context.Context, filter bson.M, delta int64) (*models.CartItem, error) {
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updatedAt": now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d cartItemDoc
	if err := r.DB.Collection(cartCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&d); err != nil {
		return nil, translate(err)
	}
	return r.withProduct(ctx, d)
}

func (r *MongoRepo) withProduct(ctx context.Context, d cartItemDoc) (*models.CartItem, error) {
	item := d.model()
	p, err := r.GetProduct(ctx, item.ProductID)
	switch {
	case err == nil:
		item.Product = p
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}
	return &item, nil
}

func (r *MongoRepo) InsertCartItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	ts := now()
	item.CreatedAt, item.UpdatedAt = ts, ts
	_, err := r.DB.Collection(cartCollection).InsertOne(ctx, cartItemDoc{
		ID:        item.ID.String(),
		UserID:    item.UserID.String(),
		ProductID: item.ProductID.String(),
		Quantity:  int64(item.Quantity),
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	return translate(err)
}

func (r *MongoRepo) DeleteLastCartItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	filter := lineFilter(userID, productID)
	filter["quantity"] = bson.M{"$lte": 1}
	res, err := r.DB.Collection(cartCollection).DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
