package library

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/spantree/pkg/graph"
)

// DefaultCollection is the collection used when none is configured.
const DefaultCollection = "graphs"

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps entries as documents. Names are unique, case-insensitive,
// through a collation index.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var nameCollation = &options.Collation{Locale: "en", Strength: 2}

// NewMongoStore connects, pings and ensures the name index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}
	s := &MongoStore{client: client, coll: client.Database(cfg.Database).Collection(collection)}

	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetCollation(nameCollation),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create name index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{"nodes": 0, "edges": 0}).
		SetCollation(nameCollation)
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode graphs: %w", err)
	}
	out := make([]Summary, len(entries))
	for i, e := range entries {
		out[i] = e.Summary()
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Entry, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindByName(ctx context.Context, name string) (*Entry, error) {
	return s.findOne(ctx, bson.M{"name": name}, options.FindOne().SetCollation(nameCollation))
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*Entry, error) {
	var e Entry
	err := s.coll.FindOne(ctx, filter, opts...).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find graph: %w", err)
	}
	return &e, nil
}

func (s *MongoStore) Save(ctx context.Context, data graph.GraphData) (*Entry, error) {
	e, err := prepare(data)
	if err != nil {
		return nil, err
	}
	existing, err := s.FindByName(ctx, e.Name)
	switch {
	case err == nil:
		e.ID = existing.ID
	case errors.Is(err, ErrNotFound):
		e.ID = newID()
	default:
		return nil, err
	}

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, e, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("save graph %q: %w", e.Name, err)
	}
	return &e, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete graph: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
