// Package segment はセグメント管理と一括割り当てのドメインロジックを提供する。
package segment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hitoshi/segmenter/internal/model"
	"github.com/hitoshi/segmenter/internal/repository"
)

// 選択ルールのメトリクス用ラベル。
const (
	RuleByIDs       = "ids"
	RuleByPercent   = "percent"
	RuleByAttribute = "attribute"
)

// attributeColumns は属性割り当てで許可されるユーザー属性名と
// 対応するカラム式の列挙。ここにない属性名は拒否される。
// birth_dateはクライアントのISO文字列と比較するためtextにキャストする。
var attributeColumns = map[string]string{
	"email":       "email",
	"last_name":   "last_name",
	"first_name":  "first_name",
	"middle_name": "middle_name",
	"birth_date":  "birth_date::text",
	"gender":      "gender",
}

// AssignmentMetrics は割り当てエンジンが記録するメトリクスのインターフェース。
type AssignmentMetrics interface {
	// RecordAssignment は一括割り当ての実行を選択ルール別に記録する。
	RecordAssignment(rule string)
	// RecordMembershipsCreated は新規作成されたメンバーシップ数を記録する。
	RecordMembershipsCreated(count int)
}

// Engine はセグメントへの一括割り当てを実行するエンジン。
// 3種類の選択ルール（明示ID、割合サンプリング、属性一致）で対象ユーザーを
// 決定し、冪等なメンバーシップ挿入を行う。
type Engine struct {
	segments    repository.SegmentRepository
	users       repository.UserRepository
	memberships repository.MembershipRepository
	metrics     AssignmentMetrics

	// rngは割合サンプリングの乱数源。rand.Randは並行安全でないためmuで保護する。
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine はEngineを生成する。
// srcがnilの場合は現在時刻でシードした乱数源を使用する。
// テストでは固定シードのrand.Sourceを注入することで選択結果を再現できる。
// metricsはnil可。
func NewEngine(
	segments repository.SegmentRepository,
	users repository.UserRepository,
	memberships repository.MembershipRepository,
	metrics AssignmentMetrics,
	src rand.Source,
) *Engine {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Engine{
		segments:    segments,
		users:       users,
		memberships: memberships,
		metrics:     metrics,
		rng:         rand.New(src),
	}
}

// AssignByIDs は明示されたユーザーIDリストのうち実在するユーザーを
// セグメントに割り当て、新規作成されたメンバーシップ数を返す。
func (e *Engine) AssignByIDs(ctx context.Context, segmentID int64, userIDs []int64) (int, error) {
	if err := e.ensureSegmentExists(ctx, segmentID); err != nil {
		return 0, err
	}

	if len(userIDs) == 0 {
		return 0, model.NewInvalidUserIDsError()
	}

	resolved, err := e.users.FilterExistingIDs(ctx, userIDs)
	if err != nil {
		return 0, fmt.Errorf("対象ユーザーの解決に失敗しました: %w", err)
	}

	return e.assign(ctx, segmentID, resolved, RuleByIDs)
}

// AssignByPercent は全ユーザーからfloor(N×percent/100)人を一様ランダムに
// 非復元抽出してセグメントに割り当て、新規作成されたメンバーシップ数を返す。
// 対象数が0の場合は何もせず成功として0を返す。
func (e *Engine) AssignByPercent(ctx context.Context, segmentID int64, percent float64) (int, error) {
	if err := e.ensureSegmentExists(ctx, segmentID); err != nil {
		return 0, err
	}

	// NaNもこの条件で弾かれる
	if !(percent >= 0 && percent <= 100) {
		return 0, model.NewInvalidPercentError()
	}

	ids, err := e.users.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("ユーザーID一覧の取得に失敗しました: %w", err)
	}

	target := int(float64(len(ids)) * percent / 100.0)
	selected := e.sample(ids, target)

	return e.assign(ctx, segmentID, selected, RuleByPercent)
}

// AssignByAttribute は指定属性が指定値と厳密一致する全ユーザーを
// セグメントに割り当て、新規作成されたメンバーシップ数を返す。
// 属性名は列挙された許可リストに含まれている必要がある。
func (e *Engine) AssignByAttribute(ctx context.Context, segmentID int64, name, value string) (int, error) {
	if err := e.ensureSegmentExists(ctx, segmentID); err != nil {
		return 0, err
	}

	columnExpr, ok := attributeColumns[name]
	if !ok {
		return 0, model.NewUnknownAttributeError(name)
	}

	ids, err := e.users.FindIDsByColumn(ctx, columnExpr, value)
	if err != nil {
		return 0, fmt.Errorf("属性一致ユーザーの検索に失敗しました: %w", err)
	}

	return e.assign(ctx, segmentID, ids, RuleByAttribute)
}

// ensureSegmentExists はセグメントの存在を確認する。
func (e *Engine) ensureSegmentExists(ctx context.Context, segmentID int64) error {
	segment, err := e.segments.FindByID(ctx, segmentID)
	if err != nil {
		return fmt.Errorf("セグメントの取得に失敗しました: %w", err)
	}
	if segment == nil {
		return model.NewSegmentNotFoundError(segmentID)
	}
	return nil
}

// assign は解決済みユーザーそれぞれに条件付き挿入を行い、
// 新規に作られたメンバーシップのみを数える。既存のペアは黙ってスキップされる。
func (e *Engine) assign(ctx context.Context, segmentID int64, userIDs []int64, rule string) (int, error) {
	added := 0
	for _, userID := range userIDs {
		inserted, err := e.memberships.Insert(ctx, userID, segmentID)
		if err != nil {
			return added, fmt.Errorf("メンバーシップの作成に失敗しました: %w", err)
		}
		if inserted {
			added++
		}
	}

	if e.metrics != nil {
		e.metrics.RecordAssignment(rule)
		e.metrics.RecordMembershipsCreated(added)
	}

	return added, nil
}

// sample はidsからn件を一様ランダムに非復元抽出して返す。
// n <= 0 の場合は空、n >= len(ids) の場合は全件を返す。
func (e *Engine) sample(ids []int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	if n >= len(ids) {
		n = len(ids)
	}

	shuffled := make([]int64, len(ids))
	copy(shuffled, ids)

	e.mu.Lock()
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	e.mu.Unlock()

	return shuffled[:n]
}
