package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/layout"
)

const connectTimeout = 10 * time.Second

// MongoStore keeps layouts in a MongoDB collection, one document per
// layout with the layout ID as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri, verifies the connection and ensures the
// (track, created_at) index exists.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := NewMongoStoreFromClient(client, database, collection)
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "track", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// Save upserts l by ID.
func (s *MongoStore) Save(ctx context.Context, l *layout.Layout) error {
	if err := validateLayout(l); err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, opts); err != nil {
		return fmt.Errorf("save layout %s: %w", l.ID, err)
	}
	return nil
}

// Get returns the layout stored under id.
func (s *MongoStore) Get(ctx context.Context, id string) (*layout.Layout, error) {
	var l layout.Layout
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return nil, getError(id, err)
	}
	return &l, nil
}

// getError maps a driver lookup error onto the store's errors.
func getError(id string, err error) error {
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return notFound(id)
	}
	return fmt.Errorf("get layout %s: %w", id, err)
}

// List returns layouts newest first, using the (track, created_at) index.
func (s *MongoStore) List(ctx context.Context, opts ListOptions) ([]*layout.Layout, error) {
	filter := bson.M{}
	if opts.Track != "" {
		filter["track"] = opts.Track
	}
	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(opts.limit()))

	cur, err := s.coll.Find(ctx, filter, find)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	out := []*layout.Layout{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode layouts: %w", err)
	}
	return out, nil
}

// Delete removes the layout stored under id.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete layout %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
