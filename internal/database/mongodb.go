package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abacreative/admin-services/internal/config"
)

// ConnectRemote opens a connection to the hosted database and returns the
// client together with the application database handle. Caller should call
// client.Disconnect(ctx). The connection is only attempted when both the
// URI and the access key are configured.
func ConnectRemote(ctx context.Context, cfg config.RemoteConfig) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" || cfg.AccessKey == "" {
		return nil, nil, fmt.Errorf("remote database not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	clientOpts := options.Client().ApplyURI(cfg.URI).SetAppName("aba-admin")
	clientOpts.SetAuth(options.Credential{
		Username: "aba-admin",
		Password: cfg.AccessKey,
	})
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}
