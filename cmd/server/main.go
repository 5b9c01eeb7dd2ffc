package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"stockmarket_backend/internal/app/router"
	"stockmarket_backend/internal/feature/analysis/adapters/alphavantage"
	analysishandler "stockmarket_backend/internal/feature/analysis/transport/handler"
	analysisusecase "stockmarket_backend/internal/feature/analysis/usecase"
	usersadapters "stockmarket_backend/internal/feature/users/adapters"
	usershandler "stockmarket_backend/internal/feature/users/transport/handler"
	usersusecase "stockmarket_backend/internal/feature/users/usecase"
	"stockmarket_backend/internal/platform/cipher"
	platformhttp "stockmarket_backend/internal/platform/http"
	"stockmarket_backend/internal/platform/mongodb"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// 認証情報暗号化の初期化。キー素材の欠落は起動失敗とする
	credCipher, err := cipher.New(cipher.LoadConfig())
	if err != nil {
		log.Fatalf("cipher init failed: %v", err)
	}
	// 起動時のラウンドトリップ自己診断
	probe, err := credCipher.Encrypt("startup-self-check")
	if err != nil {
		log.Fatalf("cipher self-check failed: %v", err)
	}
	if decrypted, err := credCipher.Decrypt(probe); err != nil || decrypted != "startup-self-check" {
		log.Fatalf("cipher self-check failed: round-trip mismatch (err=%v)", err)
	}

	// MongoDB接続。接続文字列の欠落・疎通不能は起動失敗とする
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	mongoCfg := mongodb.LoadConfig()
	client, err := mongodb.Connect(ctx, mongoCfg)
	if err != nil {
		log.Fatalf("mongodb init failed: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Println("[ERROR] Failed to disconnect MongoDB client:", err)
		}
	}()
	usersCollection := client.Database(mongoCfg.Database).Collection(mongoCfg.UsersCollection)

	// マーケットデータプロバイダー
	avCfg := alphavantage.LoadConfig()
	if avCfg.APIKey == "" {
		log.Println("[WARN] ALPHA_VANTAGE_API_KEY is not set. Stock analysis requests will fail.")
	}
	httpClient := platformhttp.NewHTTPClient(avCfg.Timeout)
	market := alphavantage.NewAlphaVantageMarket(avCfg, httpClient)

	// Repository
	userRepo := usersadapters.NewUserMongo(usersCollection)

	// Usecase
	analysisUC := analysisusecase.NewAnalysisUsecase(market)
	userUC := usersusecase.NewUserUsecase(userRepo, credCipher)

	// Handler
	stockH := analysishandler.NewStockHandler(analysisUC)
	userH := usershandler.NewUserHandler(userUC)

	// ルータ生成
	r := router.NewRouter(stockH, userH)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
