package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/segmenter/internal/model"
)

// PostgresSegmentRepo はPostgreSQLを使用したセグメントリポジトリ。
type PostgresSegmentRepo struct {
	db *sql.DB
}

// NewPostgresSegmentRepo はPostgresSegmentRepoを生成する。
func NewPostgresSegmentRepo(db *sql.DB) *PostgresSegmentRepo {
	return &PostgresSegmentRepo{db: db}
}

// Create はセグメントを作成し、採番されたIDをsegment.IDに設定する。
// name一意制約違反はDUPLICATE_SEGMENT_NAMEエラーに変換する。
func (r *PostgresSegmentRepo) Create(ctx context.Context, segment *model.Segment) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO segments (name, description)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		segment.Name, segment.Description,
	).Scan(&segment.ID, &segment.CreatedAt, &segment.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "") {
			return model.NewDuplicateSegmentNameError(segment.Name)
		}
		return fmt.Errorf("failed to insert segment: %w", err)
	}

	return nil
}

// FindByID は指定IDのセグメントを取得する。見つからない場合はnilを返す。
func (r *PostgresSegmentRepo) FindByID(ctx context.Context, id int64) (*model.Segment, error) {
	segment := &model.Segment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM segments WHERE id = $1`,
		id,
	).Scan(&segment.ID, &segment.Name, &segment.Description, &segment.CreatedAt, &segment.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find segment by ID: %w", err)
	}

	return segment, nil
}

// FindByName は名前でセグメントを検索する。見つからない場合はnilを返す。
func (r *PostgresSegmentRepo) FindByName(ctx context.Context, name string) (*model.Segment, error) {
	segment := &model.Segment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM segments WHERE name = $1`,
		name,
	).Scan(&segment.ID, &segment.Name, &segment.Description, &segment.CreatedAt, &segment.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find segment by name: %w", err)
	}

	return segment, nil
}

// Update はセグメントの名前と説明を更新し、updated_atを現在時刻に進める。
func (r *PostgresSegmentRepo) Update(ctx context.Context, segment *model.Segment) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE segments SET name = $1, description = $2, updated_at = now()
		 WHERE id = $3
		 RETURNING updated_at`,
		segment.Name, segment.Description, segment.ID,
	).Scan(&segment.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("segment not found: %d", segment.ID)
	}
	if err != nil {
		if isUniqueViolation(err, "") {
			return model.NewDuplicateSegmentNameError(segment.Name)
		}
		return fmt.Errorf("failed to update segment: %w", err)
	}

	return nil
}

// Delete は指定IDのセグメントを削除し、削除したかどうかを返す。
// 関連するuser_segmentsはCASCADE削除される。
func (r *PostgresSegmentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM segments WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete segment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ListAll は全セグメントをID昇順で返す。
func (r *PostgresSegmentRepo) ListAll(ctx context.Context) ([]*model.Segment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM segments ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	defer rows.Close()

	return scanSegments(rows)
}

// ListByUserID は指定ユーザーが属するセグメントをID昇順で返す。
func (r *PostgresSegmentRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Segment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.name, s.description, s.created_at, s.updated_at
		 FROM segments s
		 JOIN user_segments us ON us.segment_id = s.id
		 WHERE us.user_id = $1
		 ORDER BY s.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments by user: %w", err)
	}
	defer rows.Close()

	return scanSegments(rows)
}

func scanSegments(rows *sql.Rows) ([]*model.Segment, error) {
	var segments []*model.Segment
	for rows.Next() {
		segment := &model.Segment{}
		if err := rows.Scan(&segment.ID, &segment.Name, &segment.Description,
			&segment.CreatedAt, &segment.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan segment row: %w", err)
		}
		segments = append(segments, segment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate segment rows: %w", err)
	}
	return segments, nil
}

// compile-time interface check
var _ SegmentRepository = (*PostgresSegmentRepo)(nil)
