package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresMembershipRepo はPostgreSQLを使用したメンバーシップリポジトリ。
type PostgresMembershipRepo struct {
	db *sql.DB
}

// NewPostgresMembershipRepo はPostgresMembershipRepoを生成する。
func NewPostgresMembershipRepo(db *sql.DB) *PostgresMembershipRepo {
	return &PostgresMembershipRepo{db: db}
}

// Insert はメンバーシップを条件付きで挿入し、新規に挿入されたかどうかを返す。
// ON CONFLICT DO NOTHINGにより、同時実行で同一ペアが衝突しても
// 複合主キーの保証のもとで高々1件しか作られず、2回目以降はfalseになる。
func (r *PostgresMembershipRepo) Insert(ctx context.Context, userID, segmentID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO user_segments (user_id, segment_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, segment_id) DO NOTHING`,
		userID, segmentID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert membership: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ MembershipRepository = (*PostgresMembershipRepo)(nil)
