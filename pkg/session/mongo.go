package session

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults for [MongoConfig].
const (
	DefaultMongoDatabase   = "jsonviz"
	DefaultMongoCollection = "sessions"
)

// Collection is the subset of *mongo.Collection used by [MongoStore].
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps snapshots in a MongoDB collection, one document per
// session keyed by its ID.
type MongoStore struct {
	coll   Collection
	client *mongo.Client
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	return &MongoStore{coll: coll, client: client}, nil
}

// NewMongoStoreWithCollection wraps an existing collection.
func NewMongoStoreWithCollection(coll Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (m *MongoStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	var snap Snapshot
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&snap)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if snap.IsExpired() {
		return nil, nil
	}
	return &snap, nil
}

func (m *MongoStore) Set(ctx context.Context, snap *Snapshot) error {
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": snap.ID}, snap, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (m *MongoStore) Cleanup(ctx context.Context) error {
	_, err := m.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return fmt.Errorf("cleanup sessions: %w", err)
	}
	return nil
}

// Close disconnects the client if the store owns one.
func (m *MongoStore) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
