// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stockmarket_backend/internal/feature/analysis/domain/entity"
	"stockmarket_backend/internal/feature/analysis/transport/http/dto"
	"stockmarket_backend/internal/feature/analysis/usecase"
)

// AnalysisUsecase は株価分析操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AnalysisUsecase interface {
	// Analyze は購入日と売却日の間の価格変化を計算します。
	Analyze(ctx context.Context, symbol, purchaseDate, sellDate string, mode usecase.PurchaseMode) (*entity.StockAnalysisResult, error)
}

// StockHandler は株価分析のHTTPリクエストを処理します。
type StockHandler struct {
	uc AnalysisUsecase
}

// NewStockHandler は指定されたusecaseでStockHandlerの新しいインスタンスを生成します。
func NewStockHandler(uc AnalysisUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Analyze は株価分析APIエンドポイントを処理します。
//
// エンドポイント例:
// GET /api/stocks/analyze?symbol=AAPL&purchaseDate=2024-01-02&sellDate=2024-06-03&purchasePrice=185.64
//
// purchasePriceは省略可能です。指定された場合は明示的購入価格モード、
// 省略された場合はデュアルルックアップモードで分析します。
func (h *StockHandler) Analyze(c *gin.Context) {
	symbol := c.Query("symbol")
	purchaseDate := c.Query("purchaseDate")
	sellDate := c.Query("sellDate")

	if symbol == "" || purchaseDate == "" || sellDate == "" {
		c.String(http.StatusBadRequest, "symbol, purchaseDate and sellDate are required")
		return
	}
	// 日付形式を検証
	if _, err := time.Parse(entity.DateLayout, purchaseDate); err != nil {
		c.String(http.StatusBadRequest, "invalid purchaseDate: expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse(entity.DateLayout, sellDate); err != nil {
		c.String(http.StatusBadRequest, "invalid sellDate: expected YYYY-MM-DD")
		return
	}

	mode := usecase.DualLookup()
	if raw := c.Query("purchasePrice"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			c.String(http.StatusBadRequest, "invalid purchasePrice: expected a decimal number")
			return
		}
		mode = usecase.ExplicitPurchasePrice(price)
	}

	result, err := h.uc.Analyze(c.Request.Context(), symbol, purchaseDate, sellDate, mode)
	if err != nil {
		// プロバイダーの構成不備は呼び出し元の誤りではないため500を返す
		if errors.Is(err, usecase.ErrProviderMisconfigured) {
			slog.Error("analysis provider misconfigured", "symbol", symbol)
			c.String(http.StatusInternalServerError, "Invalid provider instance.")
			return
		}
		slog.Warn("stock analysis failed", "symbol", symbol, "error", err)
		c.String(http.StatusBadRequest, "Error: %s", err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.AnalyzeResponse{
		Symbol:        result.Symbol,
		PurchasePrice: result.PurchasePrice.InexactFloat64(),
		SalePrice:     result.SalePrice.InexactFloat64(),
		Change:        result.Change.InexactFloat64(),
		ChangePercent: result.ChangePercent.InexactFloat64(),
	})
}
