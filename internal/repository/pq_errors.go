package repository

import (
	"errors"

	"github.com/lib/pq"
)

// PostgreSQL SQLSTATEコード。
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const pgCodeUniqueViolation = "23505"

// isUniqueViolation はlib/pqのエラーが一意制約違反かどうかを判定する。
// constraintが空でない場合は違反した制約名も一致する必要がある。
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != pgCodeUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
