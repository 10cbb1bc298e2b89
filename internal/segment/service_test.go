package segment

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/segmenter/internal/model"
)

// mockSanitizer は恒等変換のサニタイザ。呼び出し記録のみ行う。
type mockSanitizer struct {
	called bool
}

func (m *mockSanitizer) Sanitize(raw string) string {
	m.called = true
	return raw
}

func strPtr(s string) *string { return &s }

// TestService_Create はセグメント作成を検証する。
func TestService_Create(t *testing.T) {
	var created *model.Segment
	segRepo := &mockSegmentRepo{
		createFn: func(ctx context.Context, segment *model.Segment) error {
			segment.ID = 1
			created = segment
			return nil
		},
	}
	sanitizer := &mockSanitizer{}
	svc := NewService(segRepo, sanitizer)

	segment, err := svc.Create(context.Background(), "VIP", strPtr("上位顧客"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if segment.ID != 1 {
		t.Errorf("ID = %d, want 1", segment.ID)
	}
	if created == nil || created.Name != "VIP" {
		t.Errorf("created segment = %+v, want name VIP", created)
	}
	if !sanitizer.called {
		t.Error("expected description to be sanitized")
	}
}

// TestService_Create_EmptyName は空の名前が拒否されることを検証する。
func TestService_Create_EmptyName(t *testing.T) {
	svc := NewService(&mockSegmentRepo{}, &mockSanitizer{})

	_, err := svc.Create(context.Background(), "", nil)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
		t.Fatalf("expected VALIDATION_FAILED error, got %v", err)
	}
}

// TestService_Create_DuplicateName は名前の重複が拒否されることを検証する。
func TestService_Create_DuplicateName(t *testing.T) {
	segRepo := &mockSegmentRepo{
		findByNameFn: func(ctx context.Context, name string) (*model.Segment, error) {
			return &model.Segment{ID: 7, Name: name}, nil
		},
	}
	svc := NewService(segRepo, &mockSanitizer{})

	_, err := svc.Create(context.Background(), "VIP", nil)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateSegmentName {
		t.Fatalf("expected DUPLICATE_SEGMENT_NAME error, got %v", err)
	}
}

// TestService_Get_NotFound は存在しないIDの取得が404相当のエラーになることを検証する。
func TestService_Get_NotFound(t *testing.T) {
	segRepo := &mockSegmentRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Segment, error) {
			return nil, nil
		},
	}
	svc := NewService(segRepo, &mockSanitizer{})

	_, err := svc.Get(context.Background(), 42)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSegmentNotFound {
		t.Fatalf("expected SEGMENT_NOT_FOUND error, got %v", err)
	}
}

// TestService_Update_Partial はnilのフィールドが現在の値を維持することを検証する。
func TestService_Update_Partial(t *testing.T) {
	desc := "既存の説明"
	var updated *model.Segment
	segRepo := &mockSegmentRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Segment, error) {
			return &model.Segment{ID: id, Name: "VIP", Description: &desc}, nil
		},
		updateFn: func(ctx context.Context, segment *model.Segment) error {
			updated = segment
			return nil
		},
	}
	svc := NewService(segRepo, &mockSanitizer{})

	// 説明のみ更新
	segment, err := svc.Update(context.Background(), 1, nil, strPtr("新しい説明"))
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if segment.Name != "VIP" {
		t.Errorf("Name = %q, want %q（維持されるべき）", segment.Name, "VIP")
	}
	if updated.Description == nil || *updated.Description != "新しい説明" {
		t.Errorf("Description = %v, want 新しい説明", updated.Description)
	}
}

// TestService_Update_DuplicateNameOfOtherSegment は他セグメントの名前への変更が拒否されることを検証する。
func TestService_Update_DuplicateNameOfOtherSegment(t *testing.T) {
	segRepo := &mockSegmentRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Segment, error) {
			return &model.Segment{ID: id, Name: "VIP"}, nil
		},
		findByNameFn: func(ctx context.Context, name string) (*model.Segment, error) {
			return &model.Segment{ID: 99, Name: name}, nil
		},
	}
	svc := NewService(segRepo, &mockSanitizer{})

	_, err := svc.Update(context.Background(), 1, strPtr("News"), nil)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateSegmentName {
		t.Fatalf("expected DUPLICATE_SEGMENT_NAME error, got %v", err)
	}
}

// TestService_Update_OwnNameUnchanged は自分自身の名前への変更が成功することを検証する。
func TestService_Update_OwnNameUnchanged(t *testing.T) {
	segRepo := &mockSegmentRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Segment, error) {
			return &model.Segment{ID: id, Name: "VIP"}, nil
		},
		findByNameFn: func(ctx context.Context, name string) (*model.Segment, error) {
			// 自分自身がヒットする
			return &model.Segment{ID: 1, Name: name}, nil
		},
	}
	svc := NewService(segRepo, &mockSanitizer{})

	if _, err := svc.Update(context.Background(), 1, strPtr("VIP"), nil); err != nil {
		t.Fatalf("expected success for own unchanged name, got %v", err)
	}
}

// TestService_Update_NotFound は存在しないセグメントの更新が拒否されることを検証する。
func TestService_Update_NotFound(t *testing.T) {
	segRepo := &mockSegmentRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Segment, error) {
			return nil, nil
		},
	}
	svc := NewService(segRepo, &mockSanitizer{})

	_, err := svc.Update(context.Background(), 42, strPtr("X"), nil)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSegmentNotFound {
		t.Fatalf("expected SEGMENT_NOT_FOUND error, got %v", err)
	}
}

// TestService_Delete は削除の成否を検証する。
func TestService_Delete(t *testing.T) {
	segRepo := &mockSegmentRepo{
		deleteFn: func(ctx context.Context, id int64) (bool, error) {
			return id == 1, nil
		},
	}
	svc := NewService(segRepo, &mockSanitizer{})

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Errorf("Delete(1) returned error: %v", err)
	}

	err := svc.Delete(context.Background(), 2)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSegmentNotFound {
		t.Fatalf("expected SEGMENT_NOT_FOUND error, got %v", err)
	}
}
