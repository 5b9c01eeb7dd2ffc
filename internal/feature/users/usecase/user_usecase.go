package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stockmarket_backend/internal/feature/users/domain/entity"
)

const (
	// FieldID は識別子のストア上のフィールド名です。更新対象から常に除外されます。
	FieldID = "_id"
	// FieldEmail はメールアドレスのストア上のフィールド名です。
	FieldEmail = "Email"
	// fieldPassword はパスワードのストア上のフィールド名です。更新時は再暗号化されます。
	fieldPassword = "Password"
	// fieldLastUpdate は更新成功時に必ずスタンプされるフィールド名です。
	fieldLastUpdate = "lastUpdate"
	// fieldLastLogin は認証成功時にスタンプされるフィールド名です。
	fieldLastLogin = "lastLogin"
)

// UserRepository はユーザードキュメントの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// FindByEmail はメールアドレスでユーザーを検索します。
	// foldがtrueの場合は大文字小文字を区別せずに照合します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string, fold bool) (*entity.User, error)

	// FindByID は識別子でユーザーを検索します。識別子の形式が不正な場合、
	// ストアに問い合わせずにErrInvalidIDを返します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// Insert は新しいユーザードキュメントを永続化します。
	Insert(ctx context.Context, user *entity.User) error

	// SetFields は1つの$set操作でドキュメントの複数フィールドを更新し、
	// 実際に変更されたドキュメント数とストアの承認有無を返します。
	SetFields(ctx context.Context, id string, sets map[string]any) (modified int64, acknowledged bool, err error)

	// Delete は識別子でドキュメントを削除し、削除数とストアの承認有無を返します。
	// 識別子の形式が不正な場合、ストアに問い合わせずにErrInvalidIDを返します。
	Delete(ctx context.Context, id string) (deleted int64, acknowledged bool, err error)

	// TouchLastLogin は最終ログイン日時をスタンプします。
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// CredentialCipher は認証情報の対称暗号化を抽象化します。
type CredentialCipher interface {
	// Encrypt は平文を暗号化しbase64文字列として返します。
	Encrypt(plaintext string) (string, error)
	// Decrypt はbase64の暗号文を復号し平文を返します。
	Decrypt(ciphertext string) (string, error)
}

// userUsecase はユーザーアカウント操作のビジネスロジックを実装します。
type userUsecase struct {
	users  UserRepository
	cipher CredentialCipher
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, cipher CredentialCipher) *userUsecase {
	return &userUsecase{users: users, cipher: cipher}
}

// Register は新規ユーザーを登録します。
//
// 必須フィールドが欠けている場合はErrMissingFieldsを返します。
// 同じメールアドレス（大文字小文字を区別しない）のユーザーが既に存在する場合、
// エラーではなくfalseを返します。登録に成功した場合trueを返します。
func (u *userUsecase) Register(ctx context.Context, email, password, firstName, lastName, phoneNumber string) (bool, error) {
	if email == "" || password == "" || firstName == "" || lastName == "" || phoneNumber == "" {
		return false, ErrMissingFields
	}

	// メールアドレスの重複をチェック
	existing, err := u.users.FindByEmail(ctx, email, true)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return false, fmt.Errorf("error while registering user: %w", err)
	}
	if existing != nil {
		// 既存ユーザーあり。エラーではなく登録失敗として扱う
		return false, nil
	}

	encrypted, err := u.cipher.Encrypt(password)
	if err != nil {
		return false, fmt.Errorf("error while registering user: %w", err)
	}

	now := time.Now().UTC()
	user := &entity.User{
		Email:       email,
		Password:    encrypted,
		FirstName:   firstName,
		LastName:    lastName,
		PhoneNumber: phoneNumber,
		CreatedAt:   now,
		LastLogin:   now,
		LastUpdate:  now,
		IsActive:    true,
	}
	if err := u.users.Insert(ctx, user); err != nil {
		return false, fmt.Errorf("error while registering user: %w", err)
	}
	return true, nil
}

// Authenticate はメールアドレスとパスワードでユーザーを認証します。
//
// 認証に成功した場合、最終ログイン日時をベストエフォートでスタンプし、
// ユーザーを返します。返却レコードのパスワードは保存された暗号文のままです
// （復号値は比較にのみ使用）。ユーザー未検出・パスワード不一致・ストア障害は
// いずれもnilを返し、呼び出し元からは区別できません。
func (u *userUsecase) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	if email == "" || password == "" {
		return nil, nil
	}

	user, err := u.users.FindByEmail(ctx, email, false)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			// ストア障害は記録した上でnot foundと同じ結果に集約する
			slog.Warn("user lookup failed during authentication", "email", email, "error", err)
		}
		return nil, nil
	}

	decrypted, err := u.cipher.Decrypt(user.Password)
	if err != nil {
		slog.Warn("stored password could not be decrypted", "email", email, "error", err)
		return nil, nil
	}
	if decrypted != password {
		return nil, nil
	}

	// ベストエフォート: スタンプ失敗は認証成功を妨げない
	if err := u.users.TouchLastLogin(ctx, user.ID.Hex(), time.Now().UTC()); err != nil {
		slog.Warn("failed to stamp last login", "email", email, "error", err)
	}
	return user, nil
}

// GetByIdentifier は_idまたはEmailフィールドでユーザーを検索します。
//
// それ以外のフィールド名はErrInvalidFieldを返します。検索結果のパスワードが
// 空でない場合、復号した平文に置き換えて返します（レガシー仕様の保持。
// この操作の呼び出し元には保存された認証情報の平文が露出します）。
// ストア障害と未検出はいずれもnilに集約され、障害はログにのみ残ります。
func (u *userUsecase) GetByIdentifier(ctx context.Context, field, identifier string) (*entity.User, error) {
	if identifier == "" {
		return nil, nil
	}

	var (
		user *entity.User
		err  error
	)
	switch field {
	case FieldID:
		user, err = u.users.FindByID(ctx, identifier)
	case FieldEmail:
		user, err = u.users.FindByEmail(ctx, identifier, false)
	default:
		return nil, ErrInvalidField
	}
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrInvalidID) {
			slog.Warn("user lookup failed", "field", field, "error", err)
		}
		return nil, nil
	}

	if user.Password != "" {
		decrypted, err := u.cipher.Decrypt(user.Password)
		if err != nil {
			slog.Warn("stored password could not be decrypted", "field", field, "error", err)
			return nil, nil
		}
		user.Password = decrypted
	}
	return user, nil
}

// UpdateFields はユーザードキュメントの一部フィールドを更新します。
//
// _idエントリと空値のエントリはスキップされます。Passwordフィールドは
// 暗号化してから設定されます。有効な更新が1つも残らない場合はfalseを返します
// （no-opでありエラーではない）。有効な更新がある場合はlastUpdateのスタンプを
// 必ず追加し、ストアが承認し実際に1件以上変更された場合のみtrueを返します。
func (u *userUsecase) UpdateFields(ctx context.Context, id string, updates map[string]string) (bool, error) {
	sets := make(map[string]any, len(updates)+1)
	for field, value := range updates {
		if strings.EqualFold(field, FieldID) {
			continue
		}
		if value == "" {
			continue
		}
		if strings.EqualFold(field, fieldPassword) {
			encrypted, err := u.cipher.Encrypt(value)
			if err != nil {
				return false, fmt.Errorf("error while updating user: %w", err)
			}
			sets[field] = encrypted
			continue
		}
		sets[field] = value
	}

	if len(sets) == 0 {
		// 有効な更新フィールドなし
		return false, nil
	}
	sets[fieldLastUpdate] = time.Now().UTC()

	modified, acknowledged, err := u.users.SetFields(ctx, id, sets)
	if err != nil {
		if errors.Is(err, ErrInvalidID) {
			slog.Warn("invalid ObjectID for update", "id", id)
			return false, nil
		}
		return false, fmt.Errorf("error while updating user: %w", err)
	}
	return acknowledged && modified > 0, nil
}

// Delete は識別子でユーザーを削除します。
//
// 空のidはErrMissingIDを返します。24桁hex形式でないidはストアに問い合わせずに
// falseを返します。ストアが承認し1件以上削除された場合のみtrueを返します。
func (u *userUsecase) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, ErrMissingID
	}

	deleted, acknowledged, err := u.users.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrInvalidID) {
			slog.Warn("invalid ObjectID for delete", "id", id)
			return false, nil
		}
		return false, fmt.Errorf("error while deleting user: %w", err)
	}
	slog.Info("delete operation", "acknowledged", acknowledged, "deleted_count", deleted)
	return acknowledged && deleted > 0, nil
}
