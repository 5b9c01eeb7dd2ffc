// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"stockmarket_backend/internal/feature/users/domain/entity"
	"stockmarket_backend/internal/feature/users/transport/http/dto"
	"stockmarket_backend/internal/feature/users/usecase"
)

// UserUsecase はユーザーアカウント操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	// Register は新規ユーザーを登録します。既存メールの場合はfalseを返します。
	Register(ctx context.Context, email, password, firstName, lastName, phoneNumber string) (bool, error)
	// Authenticate はユーザーを認証し、失敗時はnilを返します。
	Authenticate(ctx context.Context, email, password string) (*entity.User, error)
	// GetByIdentifier は_idまたはEmailでユーザーを検索します。
	GetByIdentifier(ctx context.Context, field, identifier string) (*entity.User, error)
	// UpdateFields はユーザードキュメントの一部フィールドを更新します。
	UpdateFields(ctx context.Context, id string, updates map[string]string) (bool, error)
	// Delete は識別子でユーザーを削除します。
	Delete(ctx context.Context, id string) (bool, error)
}

// UserHandler はユーザーアカウント操作のHTTPリクエストを処理します。
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からUserUsecaseを注入します。
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをRegisterRequestにバインド
// - ボディ欠落・必須フィールド欠落時は400を返却
// - メール重複時は400を返却（存在の有無は詳細に区別しない）
// - 成功時は200を返却
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "User data is missing")
		return
	}

	ok, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, usecase.ErrMissingFields) {
			c.String(http.StatusBadRequest, "User data is missing")
			return
		}
		slog.Error("user registration failed", "email", req.Email, "error", err)
		c.String(http.StatusBadRequest, "User already exists or registration failed")
		return
	}
	if !ok {
		c.String(http.StatusBadRequest, "User already exists or registration failed")
		return
	}

	slog.Info("user registered", "email", req.Email)
	c.String(http.StatusOK, "User registered successfully")
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - メールアドレスまたはパスワードが空の場合は400を返却
// - 認証失敗時は401を返却（未検出と不一致は呼び出し元から区別できない）
// - 成功時はユーザーJSONを200で返却
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.String(http.StatusBadRequest, "Email and password are required.")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("authentication failed", "email", req.Email, "error", err)
		c.Status(http.StatusUnauthorized)
		return
	}
	if user == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	slog.Info("user login successful", "email", req.Email)
	c.JSON(http.StatusOK, user)
}

// Search はユーザー検索APIエンドポイントを処理します。
//
// エンドポイント例:
// GET /api/users/search?id=...  または  GET /api/users/search?email=...
//
// idが有効なObjectID形式の場合はid検索、そうでなければemail検索にフォールバック
// します。どちらも使えない場合は400を返却します。
func (h *UserHandler) Search(c *gin.Context) {
	id := c.Query("id")
	email := c.Query("email")

	if id == "" && email == "" {
		c.String(http.StatusBadRequest, "You must provide either an Id or an Email to search.")
		return
	}

	var (
		user *entity.User
		err  error
	)
	if _, parseErr := bson.ObjectIDFromHex(id); id != "" && parseErr == nil {
		user, err = h.users.GetByIdentifier(c.Request.Context(), usecase.FieldID, id)
	} else if email != "" {
		user, err = h.users.GetByIdentifier(c.Request.Context(), usecase.FieldEmail, email)
	} else {
		c.String(http.StatusBadRequest, "Invalid search criteria.")
		return
	}
	if err != nil {
		slog.Warn("user search failed", "error", err)
		c.String(http.StatusBadRequest, "Invalid search criteria.")
		return
	}
	if user == nil {
		c.String(http.StatusNotFound, "User not found.")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update はユーザー部分更新APIエンドポイントを処理します。
// - ボディが空の場合は400を返却
// - _idフィールドを含む場合は400を返却
// - 変更されたドキュメントが0件の場合は404を返却
// - 成功時は200を返却
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var updates map[string]string
	if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
		c.String(http.StatusBadRequest, "No fields provided for update.")
		return
	}
	if _, ok := updates[usecase.FieldID]; ok {
		c.String(http.StatusBadRequest, "Cannot update the _id field.")
		return
	}

	ok, err := h.users.UpdateFields(c.Request.Context(), id, updates)
	if err != nil {
		slog.Error("user update failed", "id", id, "error", err)
		c.String(http.StatusNotFound, "User not found.")
		return
	}
	if !ok {
		c.String(http.StatusNotFound, "User not found.")
		return
	}

	slog.Info("user updated", "id", id)
	c.String(http.StatusOK, "User updated successfully.")
}

// Delete はユーザー削除APIエンドポイントを処理します。
// - ボディにidが無い・空の場合は400を返却
// - 削除されたドキュメントが0件の場合は404を返却
// - 成功時は200を返却
func (h *UserHandler) Delete(c *gin.Context) {
	var req dto.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.String(http.StatusBadRequest, "User ID is required.")
		return
	}

	ok, err := h.users.Delete(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, usecase.ErrMissingID) {
			c.String(http.StatusBadRequest, "User ID is required.")
			return
		}
		slog.Error("user delete failed", "id", req.ID, "error", err)
		c.String(http.StatusNotFound, "User not found.")
		return
	}
	if !ok {
		c.String(http.StatusNotFound, "User not found.")
		return
	}

	slog.Info("user deleted", "id", req.ID)
	c.String(http.StatusOK, "User deleted successfully.")
}
