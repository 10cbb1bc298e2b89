// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"

	"github.com/hitoshi/segmenter/internal/model"
	"github.com/hitoshi/segmenter/internal/repository"
	"github.com/hitoshi/segmenter/internal/validation"
)

// CreateInput はユーザー作成の入力。
// 任意項目はnilで未指定を表す。
type CreateInput struct {
	Email      string
	LastName   string
	FirstName  string
	MiddleName *string
	BirthDate  *string
	Gender     *string
}

// Service はユーザー管理のサービス層。
// ユーザーは作成後に更新・削除されない。
type Service struct {
	users    repository.UserRepository
	segments repository.SegmentRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(users repository.UserRepository, segments repository.SegmentRepository) *Service {
	return &Service{
		users:    users,
		segments: segments,
	}
}

// Create はユーザーを作成する。
// 入力検証、生年月日の厳密な解析、メールアドレスの重複確認を行う。
// 重複確認とINSERTの競合はストアの一意制約が最終的に防ぐ。
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.User, error) {
	problems := validation.ValidateUser(validation.UserInput{
		Email:     in.Email,
		LastName:  in.LastName,
		FirstName: in.FirstName,
	})
	if len(problems) > 0 {
		return nil, model.NewValidationError(problems)
	}

	user := &model.User{
		Email:      in.Email,
		LastName:   in.LastName,
		FirstName:  in.FirstName,
		MiddleName: in.MiddleName,
		Gender:     in.Gender,
	}

	if in.BirthDate != nil && *in.BirthDate != "" {
		birthDate, err := validation.ParseBirthDate(*in.BirthDate)
		if err != nil {
			return nil, model.NewInvalidBirthDateError(*in.BirthDate)
		}
		user.BirthDate = &birthDate
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("メールアドレスの重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEmailError(in.Email)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get は指定IDのユーザーを取得する。
func (s *Service) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(id)
	}
	return user, nil
}

// ListSegments は指定ユーザーが属するセグメントの一覧を返す。
// ユーザーが存在しない場合はエラーを返す。
func (s *Service) ListSegments(ctx context.Context, userID int64) ([]*model.Segment, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	segments, err := s.segments.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属セグメントの取得に失敗しました: %w", err)
	}

	return segments, nil
}
