package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/segmenter/internal/model"
)

// SegmentServiceInterface はセグメントハンドラーが必要とするサービスインターフェース。
type SegmentServiceInterface interface {
	// Create はセグメントを作成する。
	Create(ctx context.Context, name string, description *string) (*model.Segment, error)
	// Get は指定IDのセグメントを取得する。
	Get(ctx context.Context, id int64) (*model.Segment, error)
	// Update はセグメントを部分更新する。nilのフィールドは現在の値を維持する。
	Update(ctx context.Context, id int64, name, description *string) (*model.Segment, error)
	// Delete は指定IDのセグメントを削除する。
	Delete(ctx context.Context, id int64) error
}

// AssignmentEngineInterface は一括割り当てハンドラーが必要とするエンジンインターフェース。
type AssignmentEngineInterface interface {
	// AssignByIDs は明示されたユーザーIDリストをセグメントに割り当てる。
	AssignByIDs(ctx context.Context, segmentID int64, userIDs []int64) (int, error)
	// AssignByPercent は全ユーザーの指定割合をランダムに割り当てる。
	AssignByPercent(ctx context.Context, segmentID int64, percent float64) (int, error)
	// AssignByAttribute は属性値が一致する全ユーザーを割り当てる。
	AssignByAttribute(ctx context.Context, segmentID int64, name, value string) (int, error)
}

// SegmentHandler はセグメント管理と一括割り当てのHTTPハンドラー。
type SegmentHandler struct {
	service SegmentServiceInterface
	engine  AssignmentEngineInterface
}

// NewSegmentHandler はSegmentHandlerを生成する。
func NewSegmentHandler(service SegmentServiceInterface, engine AssignmentEngineInterface) *SegmentHandler {
	return &SegmentHandler{
		service: service,
		engine:  engine,
	}
}

// createSegmentRequest はセグメント作成リクエストのボディ。
type createSegmentRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// updateSegmentRequest はセグメント更新リクエストのボディ。
// 省略されたフィールドはnilとなり、現在の値を維持する。
type updateSegmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// assignByIDsRequest はID指定割り当てリクエストのボディ。
type assignByIDsRequest struct {
	UserIDs []int64 `json:"user_ids"`
}

// assignByPercentRequest は割合指定割り当てリクエストのボディ。
type assignByPercentRequest struct {
	Percent *float64 `json:"percent"`
}

// assignByAttributeRequest は属性指定割り当てリクエストのボディ。
type assignByAttributeRequest struct {
	ParamName  string  `json:"param_name"`
	ParamValue *string `json:"param_value"`
}

// segmentResponse はセグメント情報のAPIレスポンス。
type segmentResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CreateSegment はセグメント作成を処理する。
// POST /segment/add
func (h *SegmentHandler) CreateSegment(w http.ResponseWriter, r *http.Request) {
	var req createSegmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	segment, err := h.service.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{
		"message":    "セグメントを作成しました。",
		"segment_id": segment.ID,
	})
}

// GetSegment はセグメント詳細を取得する。
// GET /segment/{id}
func (h *SegmentHandler) GetSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		writeSegmentNotFound(w)
		return
	}

	segment, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"segment": toSegmentResponse(segment),
	})
}

// UpdateSegment はセグメントの部分更新を処理する。
// PUT /segment/update/{id}（互換パス: PUT /segment/change/{id}）
func (h *SegmentHandler) UpdateSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		writeSegmentNotFound(w)
		return
	}

	var req updateSegmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if _, err := h.service.Update(r.Context(), id, req.Name, req.Description); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"message": "セグメントを更新しました。",
	})
}

// DeleteSegment はセグメント削除を処理する。
// DELETE /segment/delete/{id}
func (h *SegmentHandler) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		writeSegmentNotFound(w)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"message": "セグメントを削除しました。",
	})
}

// AssignByIDs はID指定の一括割り当てを処理する。
// POST /segment/add_users_by_ids/{id}
func (h *SegmentHandler) AssignByIDs(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		writeSegmentNotFound(w)
		return
	}

	var req assignByIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidUserIDsError())
		return
	}

	added, err := h.engine.AssignByIDs(r.Context(), id, req.UserIDs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("セグメント%dを%d人のユーザーに割り当てました。", id, added),
		"added_count": added,
	})
}

// AssignByPercent は割合指定の一括割り当てを処理する。
// POST /segment/add_users_by_percent/{id}
func (h *SegmentHandler) AssignByPercent(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		writeSegmentNotFound(w)
		return
	}

	var req assignByPercentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidPercentError())
		return
	}
	if req.Percent == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidPercentError())
		return
	}

	added, err := h.engine.AssignByPercent(r.Context(), id, *req.Percent)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("セグメント%dを%d人のユーザーにランダムに割り当てました。", id, added),
		"added_count": added,
	})
}

// AssignByAttribute は属性指定の一括割り当てを処理する。
// POST /segment/add_users_by_param/{id}
func (h *SegmentHandler) AssignByAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		writeSegmentNotFound(w)
		return
	}

	var req assignByAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	if req.ParamName == "" || req.ParamValue == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeValidationFailed,
			Message:  "param_nameとparam_valueは必須です。",
			Category: "validation",
			Action:   "param_nameとparam_valueを指定してください。",
		})
		return
	}

	added, err := h.engine.AssignByAttribute(r.Context(), id, req.ParamName, *req.ParamValue)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("セグメント%dを%s=%sの%d人のユーザーに割り当てました。", id, req.ParamName, *req.ParamValue, added),
		"added_count": added,
	})
}

// SetupSegmentRoutes はセグメント管理関連のルーティングを設定したchi.Routerを返す。
// assignMiddleware が nil でない場合、一括割り当てエンドポイントに専用レート制限を適用する。
func SetupSegmentRoutes(service SegmentServiceInterface, engine AssignmentEngineInterface, assignMiddleware func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	h := NewSegmentHandler(service, engine)

	r.Route("/segment", func(r chi.Router) {
		r.Post("/add", h.CreateSegment)
		r.Get("/{id}", h.GetSegment)
		r.Put("/update/{id}", h.UpdateSegment)
		// 旧クライアント互換パス
		r.Put("/change/{id}", h.UpdateSegment)
		r.Delete("/delete/{id}", h.DeleteSegment)

		assign := func(r chi.Router) {
			r.Post("/add_users_by_ids/{id}", h.AssignByIDs)
			r.Post("/add_users_by_percent/{id}", h.AssignByPercent)
			r.Post("/add_users_by_param/{id}", h.AssignByAttribute)
		}
		if assignMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(assignMiddleware)
				assign(r)
			})
		} else {
			assign(r)
		}
	})

	return r
}

// toSegmentResponse はmodel.SegmentからAPIレスポンスに変換する。
func toSegmentResponse(segment *model.Segment) segmentResponse {
	return segmentResponse{
		ID:          segment.ID,
		Name:        segment.Name,
		Description: segment.Description,
	}
}
