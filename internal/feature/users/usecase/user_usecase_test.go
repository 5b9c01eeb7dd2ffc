package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"stockmarket_backend/internal/feature/users/domain/entity"
	"stockmarket_backend/internal/feature/users/usecase"
)

// ErrStore はモックと期待値の間で共有されるセンチネルエラーです。
var ErrStore = errors.New("store failure")

// mockUserRepository はUserRepositoryインターフェースのモック実装です。
type mockUserRepository struct {
	FindByEmailFunc    func(ctx context.Context, email string, fold bool) (*entity.User, error)
	FindByIDFunc       func(ctx context.Context, id string) (*entity.User, error)
	InsertFunc         func(ctx context.Context, user *entity.User) error
	SetFieldsFunc      func(ctx context.Context, id string, sets map[string]any) (int64, bool, error)
	DeleteFunc         func(ctx context.Context, id string) (int64, bool, error)
	TouchLastLoginFunc func(ctx context.Context, id string, at time.Time) error

	SetFieldsCalls int
	DeleteCalls    int
	TouchCalls     int
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string, fold bool) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email, fold)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserRepository) Insert(ctx context.Context, user *entity.User) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) SetFields(ctx context.Context, id string, sets map[string]any) (int64, bool, error) {
	m.SetFieldsCalls++
	if m.SetFieldsFunc != nil {
		return m.SetFieldsFunc(ctx, id, sets)
	}
	return 1, true, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) (int64, bool, error) {
	m.DeleteCalls++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return 1, true, nil
}

func (m *mockUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	m.TouchCalls++
	if m.TouchLastLoginFunc != nil {
		return m.TouchLastLoginFunc(ctx, id, at)
	}
	return nil
}

// stubCipher はCredentialCipherの可逆なスタブ実装です。
type stubCipher struct{}

func (stubCipher) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (stubCipher) Decrypt(ciphertext string) (string, error) {
	rest, ok := strings.CutPrefix(ciphertext, "enc:")
	if !ok {
		return "", fmt.Errorf("not a stub ciphertext: %q", ciphertext)
	}
	return rest, nil
}

func TestUserUsecase_Register(t *testing.T) {
	t.Parallel()

	t.Run("success: new user is encrypted and stamped", func(t *testing.T) {
		t.Parallel()

		var inserted *entity.User
		mockRepo := &mockUserRepository{
			InsertFunc: func(ctx context.Context, user *entity.User) error {
				inserted = user
				return nil
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		ok, err := uc.Register(context.Background(), "t@e.com", "secret", "Taro", "Yamada", "000-1111")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected true, got false")
		}
		if inserted == nil {
			t.Fatal("expected Insert to be called")
		}
		if inserted.Password != "enc:secret" {
			t.Errorf("expected encrypted password, got %q", inserted.Password)
		}
		if !inserted.IsActive {
			t.Error("expected IsActive to be true")
		}
		if inserted.CreatedAt.IsZero() || inserted.LastLogin.IsZero() || inserted.LastUpdate.IsZero() {
			t.Error("expected createdAt/lastLogin/lastUpdate to be stamped")
		}
	})

	t.Run("failure: duplicate email returns false, not an error", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string, fold bool) (*entity.User, error) {
				// 重複チェックは大文字小文字を区別しない照合で行われる
				if !fold {
					t.Error("expected case-insensitive lookup during registration")
				}
				return &entity.User{Email: "T@E.com"}, nil
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		ok, err := uc.Register(context.Background(), "t@e.com", "secret", "Taro", "Yamada", "000-1111")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Fatal("expected false for duplicate email")
		}
	})

	t.Run("failure: missing required field", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewUserUsecase(&mockUserRepository{}, stubCipher{})

		_, err := uc.Register(context.Background(), "t@e.com", "", "Taro", "Yamada", "000-1111")
		if !errors.Is(err, usecase.ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields, got %v", err)
		}
	})

	t.Run("failure: insert error is wrapped", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			InsertFunc: func(ctx context.Context, user *entity.User) error {
				return ErrStore
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		_, err := uc.Register(context.Background(), "t@e.com", "secret", "Taro", "Yamada", "000-1111")
		if !errors.Is(err, ErrStore) {
			t.Fatalf("expected wrapped store error, got %v", err)
		}
	})
}

func TestUserUsecase_Authenticate(t *testing.T) {
	t.Parallel()

	stored := func() *entity.User {
		return &entity.User{
			ID:       bson.NewObjectID(),
			Email:    "a@b.com",
			Password: "enc:right",
		}
	}

	t.Run("success: matching password touches last login", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string, fold bool) (*entity.User, error) {
				if fold {
					t.Error("expected exact email lookup during authentication")
				}
				return stored(), nil
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		user, err := uc.Authenticate(context.Background(), "a@b.com", "right")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user == nil {
			t.Fatal("expected user, got nil")
		}
		// 返却レコードのパスワードは保存された暗号文のまま
		if user.Password != "enc:right" {
			t.Errorf("expected stored ciphertext to be returned, got %q", user.Password)
		}
		if mockRepo.TouchCalls != 1 {
			t.Errorf("TouchLastLogin was called %d times, expected 1", mockRepo.TouchCalls)
		}
	})

	t.Run("wrong password returns nil, never an error", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string, fold bool) (*entity.User, error) {
				return stored(), nil
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		user, err := uc.Authenticate(context.Background(), "a@b.com", "wrong")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user != nil {
			t.Fatal("expected nil user for wrong password")
		}
		if mockRepo.TouchCalls != 0 {
			t.Errorf("TouchLastLogin was called %d times, expected 0", mockRepo.TouchCalls)
		}
	})

	t.Run("unknown email returns nil", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewUserUsecase(&mockUserRepository{}, stubCipher{})

		user, err := uc.Authenticate(context.Background(), "nobody@b.com", "right")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user != nil {
			t.Fatal("expected nil user")
		}
	})

	t.Run("store fault collapses to nil", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string, fold bool) (*entity.User, error) {
				return nil, ErrStore
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		user, err := uc.Authenticate(context.Background(), "a@b.com", "right")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user != nil {
			t.Fatal("expected nil user")
		}
	})

	t.Run("touch failure does not block the login", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string, fold bool) (*entity.User, error) {
				return stored(), nil
			},
			TouchLastLoginFunc: func(ctx context.Context, id string, at time.Time) error {
				return ErrStore
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		user, err := uc.Authenticate(context.Background(), "a@b.com", "right")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user == nil {
			t.Fatal("expected user despite touch failure")
		}
	})
}

func TestUserUsecase_GetByIdentifier(t *testing.T) {
	t.Parallel()

	t.Run("email lookup decrypts the password before returning", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string, fold bool) (*entity.User, error) {
				return &entity.User{Email: email, Password: "enc:plain"}, nil
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		user, err := uc.GetByIdentifier(context.Background(), usecase.FieldEmail, "t@e.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user == nil {
			t.Fatal("expected user, got nil")
		}
		if user.Password != "plain" {
			t.Errorf("expected decrypted password, got %q", user.Password)
		}
	})

	t.Run("empty stored password is left untouched", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string, fold bool) (*entity.User, error) {
				return &entity.User{Email: email}, nil
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		user, err := uc.GetByIdentifier(context.Background(), usecase.FieldEmail, "t@e.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Password != "" {
			t.Errorf("expected empty password, got %q", user.Password)
		}
	})

	t.Run("unsupported field is a validation error", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewUserUsecase(&mockUserRepository{}, stubCipher{})

		_, err := uc.GetByIdentifier(context.Background(), "PhoneNumber", "000-1111")
		if !errors.Is(err, usecase.ErrInvalidField) {
			t.Fatalf("expected ErrInvalidField, got %v", err)
		}
	})

	t.Run("malformed id collapses to nil", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				return nil, usecase.ErrInvalidID
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		user, err := uc.GetByIdentifier(context.Background(), usecase.FieldID, "not-hex")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user != nil {
			t.Fatal("expected nil user")
		}
	})

	t.Run("store fault collapses to nil", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				return nil, ErrStore
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		user, err := uc.GetByIdentifier(context.Background(), usecase.FieldID, bson.NewObjectID().Hex())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user != nil {
			t.Fatal("expected nil user")
		}
	})
}

func TestUserUsecase_UpdateFields(t *testing.T) {
	t.Parallel()

	id := bson.NewObjectID().Hex()

	t.Run("only _id entry filters down to a no-op", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		ok, err := uc.UpdateFields(context.Background(), id, map[string]string{"_id": "x"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Fatal("expected false for a no-op update")
		}
		if mockRepo.SetFieldsCalls != 0 {
			t.Errorf("SetFields was called %d times, expected 0", mockRepo.SetFieldsCalls)
		}
	})

	t.Run("valid entries are applied with a lastUpdate stamp", func(t *testing.T) {
		t.Parallel()

		var captured map[string]any
		mockRepo := &mockUserRepository{
			SetFieldsFunc: func(ctx context.Context, id string, sets map[string]any) (int64, bool, error) {
				captured = sets
				return 1, true, nil
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		ok, err := uc.UpdateFields(context.Background(), id, map[string]string{
			"FirstName": "Hanako",
			"_ID":       "x",  // 大文字小文字を問わず識別子はスキップ
			"Password":  "np", // 暗号化して設定
			"LastName":  "",   // 空値はスキップ
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected true")
		}

		if captured["FirstName"] != "Hanako" {
			t.Errorf("expected FirstName Hanako, got %v", captured["FirstName"])
		}
		if captured["Password"] != "enc:np" {
			t.Errorf("expected encrypted password, got %v", captured["Password"])
		}
		if _, exists := captured["_ID"]; exists {
			t.Error("identifier entry must not be applied")
		}
		if _, exists := captured["LastName"]; exists {
			t.Error("empty value must not be applied")
		}
		if _, exists := captured["lastUpdate"]; !exists {
			t.Error("expected lastUpdate stamp to be appended")
		}
	})

	t.Run("zero modified documents returns false", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			SetFieldsFunc: func(ctx context.Context, id string, sets map[string]any) (int64, bool, error) {
				return 0, true, nil
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		ok, err := uc.UpdateFields(context.Background(), id, map[string]string{"FirstName": "Hanako"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Fatal("expected false when nothing was modified")
		}
	})

	t.Run("malformed id returns false, not an error", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			SetFieldsFunc: func(ctx context.Context, id string, sets map[string]any) (int64, bool, error) {
				return 0, false, usecase.ErrInvalidID
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		ok, err := uc.UpdateFields(context.Background(), "not-hex", map[string]string{"FirstName": "Hanako"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Fatal("expected false for malformed id")
		}
	})
}

func TestUserUsecase_Delete(t *testing.T) {
	t.Parallel()

	t.Run("empty id is a validation error", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		_, err := uc.Delete(context.Background(), "")
		if !errors.Is(err, usecase.ErrMissingID) {
			t.Fatalf("expected ErrMissingID, got %v", err)
		}
		if mockRepo.DeleteCalls != 0 {
			t.Errorf("Delete was called %d times, expected 0", mockRepo.DeleteCalls)
		}
	})

	t.Run("malformed id returns false without an error", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			DeleteFunc: func(ctx context.Context, id string) (int64, bool, error) {
				return 0, false, usecase.ErrInvalidID
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		ok, err := uc.Delete(context.Background(), "not-a-24-hex-id")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Fatal("expected false for malformed id")
		}
	})

	t.Run("acknowledged delete with nonzero count returns true", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewUserUsecase(&mockUserRepository{}, stubCipher{})

		ok, err := uc.Delete(context.Background(), bson.NewObjectID().Hex())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected true")
		}
	})

	t.Run("zero deleted documents returns false", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			DeleteFunc: func(ctx context.Context, id string) (int64, bool, error) {
				return 0, true, nil
			},
		}
		uc := usecase.NewUserUsecase(mockRepo, stubCipher{})

		ok, err := uc.Delete(context.Background(), bson.NewObjectID().Hex())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Fatal("expected false when nothing was deleted")
		}
	})
}
