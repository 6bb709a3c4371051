package repositories

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"product-catalog/models"
)

// productDocument is the stored shape. Records written by older clients
// keep their images under "Image", sometimes as a bare string.
type productDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	models.Product `bson:",inline"`
	LegacyImage    models.StringList `bson:"Image,omitempty"`
}

func (d productDocument) toModel() models.Product {
	p := d.Product
	p.ID = d.ID.Hex()
	if len(p.Images) == 0 && len(d.LegacyImage) > 0 {
		p.Images = d.LegacyImage
	}
	if p.Images == nil {
		p.Images = models.StringList{}
	}
	return p
}

type MongoProductRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoProductRepository(client *mongo.Client, database, collection string) *MongoProductRepository {
	return &MongoProductRepository{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return errors.Wrap(err, "create product indexes")
}

func (r *MongoProductRepository) Insert(ctx context.Context, product *models.Product) error {
	doc := productDocument{ID: primitive.NewObjectID(), Product: *product}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return errors.Wrap(err, "insert product")
	}
	product.ID = doc.ID.Hex()
	return nil
}

func (r *MongoProductRepository) FindAll(ctx context.Context, newestFirst bool) ([]models.Product, error) {
	order := 1
	if newestFirst {
		order = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: order}, {Key: "_id", Value: order}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFoundOr(err, "find product")
	}
	p := doc.toModel()
	return &p, nil
}

func (r *MongoProductRepository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"category": category}, opts)
}

func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	update, err := updateDocument(product)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		return nil, notFoundOr(err, "update product")
	}
	p := doc.toModel()
	return &p, nil
}

// updateDocument sets every modeled field and drops the legacy "Image"
// field. Top-level fields the model does not know are left untouched.
func updateDocument(product *models.Product) (bson.M, error) {
	data, err := bson.Marshal(product)
	if err != nil {
		return nil, errors.Wrap(err, "encode product")
	}
	set := bson.M{}
	if err := bson.Unmarshal(data, &set); err != nil {
		return nil, errors.Wrap(err, "encode product")
	}
	return bson.M{
		"$set":   set,
		"$unset": bson.M{"Image": ""},
	}, nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var doc productDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFoundOr(err, "delete product")
	}
	p := doc.toModel()
	return &p, nil
}

func (r *MongoProductRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *MongoProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find products")
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toModel())
	}
	return products, nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrProductNotFound
	}
	return errors.Wrap(err, msg)
}
