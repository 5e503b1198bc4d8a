package mongorepo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/quickkart/internal/models"
)

func (r *MongoRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.DB.Collection(productsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.model())
	}
	return products, nil
}

func (r *MongoRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var d productDoc
	if err := r.DB.Collection(productsCollection).FindOne(ctx, bson.M{"_id": id.String()}).Decode(&d); err != nil {
		return nil, translate(err)
	}
	p := d.model()
	return &p, nil
}

func (r *MongoRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	_, err := r.DB.Collection(productsCollection).InsertOne(ctx, productDoc{
		ID:        p.ID.String(),
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	})
	return translate(err)
}

// productsByID resolves the given ids; missing products are simply absent from the map.
func (r *MongoRepo) productsByID(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.DB.Collection(productsCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d.model()
	}
	return out, nil
}
