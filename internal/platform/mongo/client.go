package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
)

// Client wraps the driver client together with the database it serves.
type Client struct {
	*mongo.Client
	Database *mongo.Database
}

// Connect dials the deployment behind uri and pings the primary. The database
// is the one named in uri, else database. The driver
// connects lazily, so the ping is what proves the store is reachable.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout).
		SetAppName("profilr")

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return &Client{Client: client, Database: client.Database(DatabaseName(uri, database))}, nil
}

// DatabaseName returns the database named in the URI path, falling back to
// fallback when the URI names none or cannot be parsed.
func DatabaseName(uri, fallback string) string {
	cs, err := connstring.Parse(uri)
	if err != nil || cs.Database == "" {
		return fallback
	}
	return cs.Database
}

// Close disconnects from the deployment.
func (c *Client) Close(ctx context.Context) error {
	return c.Disconnect(ctx)
}
