package segment

import (
	"context"
	"fmt"

	"github.com/hitoshi/segmenter/internal/model"
	"github.com/hitoshi/segmenter/internal/repository"
	"github.com/hitoshi/segmenter/internal/security"
	"github.com/hitoshi/segmenter/internal/validation"
)

// Service はセグメントCRUDのサービス層。
// 名前の一意性チェックと説明のサニタイズを担う。
type Service struct {
	segments  repository.SegmentRepository
	sanitizer security.DescriptionSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(segments repository.SegmentRepository, sanitizer security.DescriptionSanitizerService) *Service {
	return &Service{
		segments:  segments,
		sanitizer: sanitizer,
	}
}

// Create はセグメントを作成する。
// 名前が空、または既存セグメントと重複する場合はエラーを返す。
func (s *Service) Create(ctx context.Context, name string, description *string) (*model.Segment, error) {
	if problems := validation.ValidateSegmentName(name); len(problems) > 0 {
		return nil, model.NewValidationError(problems)
	}

	existing, err := s.segments.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("セグメント名の重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateSegmentNameError(name)
	}

	segment := &model.Segment{
		Name:        name,
		Description: s.sanitizeDescription(description),
	}
	if err := s.segments.Create(ctx, segment); err != nil {
		return nil, err
	}

	return segment, nil
}

// Get は指定IDのセグメントを取得する。
func (s *Service) Get(ctx context.Context, id int64) (*model.Segment, error) {
	segment, err := s.segments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("セグメントの取得に失敗しました: %w", err)
	}
	if segment == nil {
		return nil, model.NewSegmentNotFoundError(id)
	}
	return segment, nil
}

// Update はセグメントを部分更新する。
// nameとdescriptionはnilの場合に現在の値を維持する。
// nameを変更する場合は自分自身を除いた一意性を確認する。
func (s *Service) Update(ctx context.Context, id int64, name, description *string) (*model.Segment, error) {
	segment, err := s.segments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("セグメントの取得に失敗しました: %w", err)
	}
	if segment == nil {
		return nil, model.NewSegmentNotFoundError(id)
	}

	if name != nil {
		if problems := validation.ValidateSegmentName(*name); len(problems) > 0 {
			return nil, model.NewValidationError(problems)
		}

		other, err := s.segments.FindByName(ctx, *name)
		if err != nil {
			return nil, fmt.Errorf("セグメント名の重複確認に失敗しました: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, model.NewDuplicateSegmentNameError(*name)
		}

		segment.Name = *name
	}

	if description != nil {
		segment.Description = s.sanitizeDescription(description)
	}

	if err := s.segments.Update(ctx, segment); err != nil {
		return nil, err
	}

	return segment, nil
}

// Delete は指定IDのセグメントを削除する。
// 関連するメンバーシップはストア側でカスケード削除される。
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.segments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("セグメントの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewSegmentNotFoundError(id)
	}
	return nil
}

// sanitizeDescription は説明をサニタイズして返す。nilはそのまま通す。
func (s *Service) sanitizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	cleaned := s.sanitizer.Sanitize(*description)
	return &cleaned
}
