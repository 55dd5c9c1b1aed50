package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"portfolio/internal/config"
)

// ProfileCollection holds the singleton profile document under _id "profile".
const ProfileCollection = "portfolio"

// Mongo wraps a connected mongo.Client and the portfolio database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, c config.MongoConfig) (*Mongo, error) {
	if c.URI == "" {
		return nil, fmt.Errorf("invalid mongo config: uri is required")
	}

	opts := options.Client().
		ApplyURI(c.URI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	name := c.Database
	if name == "" {
		name = "portfolio"
	}
	return &Mongo{client: client, db: client.Database(name)}, nil
}

// Collection returns a handle to the named collection.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// Ping checks that the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// CreateIndexes creates the createdAt indexes backing the newest-first lists.
func (m *Mongo) CreateIndexes(ctx context.Context) error {
	for _, name := range []string{"projects", "messages"} {
		idx := mongo.IndexModel{Keys: map[string]int{"createdAt": -1}}
		if _, err := m.Collection(name).Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("create %s index: %w", name, err)
		}
	}
	idx := mongo.IndexModel{Keys: map[string]int{"category": 1}}
	if _, err := m.Collection("projects").Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create projects category index: %w", err)
	}
	return nil
}
