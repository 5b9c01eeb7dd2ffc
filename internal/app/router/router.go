package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	analysishandler "stockmarket_backend/internal/feature/analysis/transport/handler"
	usershandler "stockmarket_backend/internal/feature/users/transport/handler"
	"stockmarket_backend/internal/platform/http/handler"
)

// NewRouter は全エンドポイントのルートテーブルを構築します。
func NewRouter(stock *analysishandler.StockHandler, users *usershandler.UserHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/healthz", handler.Health)

	api := r.Group("/api")
	{
		// 株価分析
		api.GET("/stocks/analyze", stock.Analyze)

		// ユーザーアカウント管理
		u := api.Group("/users")
		// 新規ユーザー登録
		u.POST("/register", users.Register)
		// ログイン（ボディでJSONを受け取る）
		u.GET("/login", users.Login)
		// idまたはemailでの検索
		u.GET("/search", users.Search)
		// フィールド単位の部分更新
		u.PUT("/:id", users.Update)
		// ボディのidによる削除
		u.DELETE("", users.Delete)
	}

	return r
}
