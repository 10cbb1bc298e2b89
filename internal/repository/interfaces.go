// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/segmenter/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成し、採番されたIDをuser.IDに設定する。
	// email一意制約違反の場合はmodel.APIError（DUPLICATE_EMAIL）を返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// ListAll は全ユーザーをID昇順で返す。
	ListAll(ctx context.Context) ([]*model.User, error)

	// ListIDs は全ユーザーのIDをID昇順で返す。
	ListIDs(ctx context.Context) ([]int64, error)

	// FilterExistingIDs は与えられたIDのうち実在するユーザーのIDのみをID昇順で返す。
	FilterExistingIDs(ctx context.Context, ids []int64) ([]int64, error)

	// FindIDsByColumn は指定カラムが指定値と厳密一致するユーザーのIDをID昇順で返す。
	// columnExprは呼び出し側で許可リスト検証済みのカラム式であること。
	FindIDsByColumn(ctx context.Context, columnExpr, value string) ([]int64, error)
}

// SegmentRepository はセグメントデータの永続化インターフェース。
type SegmentRepository interface {
	// Create はセグメントを作成し、採番されたIDをsegment.IDに設定する。
	// name一意制約違反の場合はmodel.APIError（DUPLICATE_SEGMENT_NAME）を返す。
	Create(ctx context.Context, segment *model.Segment) error

	// FindByID は指定IDのセグメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Segment, error)

	// FindByName は名前でセグメントを検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Segment, error)

	// Update はセグメントの名前と説明を更新する。
	// name一意制約違反の場合はmodel.APIError（DUPLICATE_SEGMENT_NAME）を返す。
	Update(ctx context.Context, segment *model.Segment) error

	// Delete は指定IDのセグメントを削除し、削除したかどうかを返す。
	// 関連するuser_segmentsはCASCADE削除される。
	Delete(ctx context.Context, id int64) (bool, error)

	// ListAll は全セグメントをID昇順で返す。
	ListAll(ctx context.Context) ([]*model.Segment, error)

	// ListByUserID は指定ユーザーが属するセグメントをID昇順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Segment, error)
}

// MembershipRepository はユーザーとセグメントの関連の永続化インターフェース。
type MembershipRepository interface {
	// Insert はメンバーシップを条件付きで挿入し、新規に挿入されたかどうかを返す。
	// 既に同一ペアが存在する場合は何もせずfalseを返す（冪等）。
	// 同時実行で同一ペアが衝突しても複合主キーにより高々1件しか作られない。
	Insert(ctx context.Context, userID, segmentID int64) (bool, error)
}
