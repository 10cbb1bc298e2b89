package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/segmenter/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// Create はユーザーを作成し、採番されたIDをuser.IDに設定する。
// email一意制約違反はDUPLICATE_EMAILエラーに変換する。
// 事前の重複チェックとINSERTの間に割り込まれた場合の最終防衛線。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, last_name, first_name, middle_name, birth_date, gender)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		user.Email, user.LastName, user.FirstName, user.MiddleName, user.BirthDate, user.Gender,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "") {
			return model.NewDuplicateEmailError(user.Email)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, last_name, first_name, middle_name, birth_date, gender, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.LastName, &user.FirstName,
		&user.MiddleName, &user.BirthDate, &user.Gender, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, last_name, first_name, middle_name, birth_date, gender, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.LastName, &user.FirstName,
		&user.MiddleName, &user.BirthDate, &user.Gender, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return user, nil
}

// ListAll は全ユーザーをID昇順で返す。
func (r *PostgresUserRepo) ListAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, last_name, first_name, middle_name, birth_date, gender, created_at
		 FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.LastName, &user.FirstName,
			&user.MiddleName, &user.BirthDate, &user.Gender, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, nil
}

// ListIDs は全ユーザーのIDをID昇順で返す。
func (r *PostgresUserRepo) ListIDs(ctx context.Context) ([]int64, error) {
	return r.queryIDs(ctx, `SELECT id FROM users ORDER BY id`)
}

// FilterExistingIDs は与えられたIDのうち実在するユーザーのIDのみをID昇順で返す。
func (r *PostgresUserRepo) FilterExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM users WHERE id = ANY($1) ORDER BY id`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to filter user ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// FindIDsByColumn は指定カラムが指定値と厳密一致するユーザーのIDをID昇順で返す。
// columnExprはSQLに直接埋め込まれるため、呼び出し側で許可リスト検証済みであること。
func (r *PostgresUserRepo) FindIDsByColumn(ctx context.Context, columnExpr, value string) ([]int64, error) {
	query := fmt.Sprintf(`SELECT id FROM users WHERE %s = $1 ORDER BY id`, columnExpr)

	rows, err := r.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("failed to find users by column: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (r *PostgresUserRepo) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate id rows: %w", err)
	}
	return ids, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
