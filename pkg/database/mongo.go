package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"edumee-backend/pkg/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const mongoConnectTimeout = 10 * time.Second

// NewMongoConnection connects, pings the primary and returns the configured database.
func NewMongoConnection(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(mongoConnectTimeout))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Printf("[Database] Connected to MongoDB database %q", cfg.MongoDatabase)
	return client, client.Database(cfg.MongoDatabase), nil
}
