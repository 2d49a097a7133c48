// Package questionbank serves interview questions from a curated MongoDB collection.
package questionbank

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

type Client struct{ raw *mongo.Client }

// Connect dials uri and verifies the connection with a ping
func Connect(ctx context.Context, uri string) (*Client, error) {
	if uri == "" {
		return nil, errors.New("MONGO_URI is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, err
	}
	return &Client{raw: c}, nil
}

// Collection returns the named collection, defaulting the database to peerprep
func (c *Client) Collection(dbName, collection string) (*mongo.Collection, error) {
	if c == nil || c.raw == nil {
		return nil, errors.New("mongo client not initialized")
	}
	if dbName == "" {
		dbName = "peerprep"
	}
	if collection == "" {
		collection = "interview_questions"
	}
	return c.raw.Database(dbName).Collection(collection), nil
}

func (c *Client) Disconnect(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Disconnect(ctx)
}
