// Package adapters はusersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"stockmarket_backend/internal/feature/users/domain/entity"
	"stockmarket_backend/internal/feature/users/usecase"
)

// userMongo はUserRepositoryインターフェースのMongoDB実装です。
// 単一コレクションに対する原子的な単一ドキュメント操作のみを使用します。
type userMongo struct {
	users *mongo.Collection
}

// userMongoがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo は指定されたコレクションでuserMongoの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewUserMongo(users *mongo.Collection) *userMongo {
	return &userMongo{users: users}
}

// FindByEmail はメールアドレスでユーザーを取得します。
// foldがtrueの場合、アンカー付きの大文字小文字を区別しない正規表現で照合します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userMongo) FindByEmail(ctx context.Context, email string, fold bool) (*entity.User, error) {
	var filter bson.D
	if fold {
		filter = bson.D{{Key: "Email", Value: bson.Regex{
			Pattern: "^" + regexp.QuoteMeta(email) + "$",
			Options: "i",
		}}}
	} else {
		filter = bson.D{{Key: "Email", Value: email}}
	}

	var u entity.User
	if err := r.users.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID は識別子でユーザーを取得します。
// 24桁hex形式でない識別子はストアに問い合わせずusecase.ErrInvalidIDを返します。
func (r *userMongo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, usecase.ErrInvalidID
	}

	var u entity.User
	if err := r.users.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Insert はユーザードキュメントをコレクションに追加します。
func (r *userMongo) Insert(ctx context.Context, user *entity.User) error {
	res, err := r.users.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	// ストアが割り当てた識別子をエンティティに反映
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// SetFields は1つの$set更新でドキュメントの複数フィールドを設定します。
func (r *userMongo) SetFields(ctx context.Context, id string, sets map[string]any) (int64, bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return 0, false, usecase.ErrInvalidID
	}

	doc := make(bson.D, 0, len(sets))
	for field, value := range sets {
		doc = append(doc, bson.E{Key: field, Value: value})
	}

	res, err := r.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: doc}})
	if err != nil {
		return 0, false, err
	}
	return res.ModifiedCount, res.Acknowledged, nil
}

// Delete は識別子でドキュメントを削除します。
// 24桁hex形式でない識別子はストアに問い合わせずusecase.ErrInvalidIDを返します。
func (r *userMongo) Delete(ctx context.Context, id string) (int64, bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return 0, false, usecase.ErrInvalidID
	}

	res, err := r.users.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return 0, false, err
	}
	return res.DeletedCount, res.Acknowledged, nil
}

// TouchLastLogin は最終ログイン日時をスタンプします。
func (r *userMongo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return usecase.ErrInvalidID
	}

	_, err = r.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "lastLogin", Value: at}}}})
	return err
}
