package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Connect はMongoDBに接続し、疎通確認まで行った上でクライアントを返します。
// 接続文字列またはデータベース名が未設定の場合はエラーを返します。
// 起動時に呼び出し、失敗した場合はプロセスを開始してはいけません。
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongodb: connection string is not configured")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongodb: database name is not configured")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}

	// 疎通確認。到達不能な場合はここで失敗させる
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}
	return client, nil
}
