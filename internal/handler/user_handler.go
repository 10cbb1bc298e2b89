package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/segmenter/internal/model"
	"github.com/hitoshi/segmenter/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Create はユーザーを作成する。
	Create(ctx context.Context, in user.CreateInput) (*model.User, error)
	// Get は指定IDのユーザーを取得する。
	Get(ctx context.Context, id int64) (*model.User, error)
	// ListSegments は指定ユーザーが属するセグメントの一覧を返す。
	ListSegments(ctx context.Context, userID int64) ([]*model.Segment, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// createUserRequest はユーザー作成リクエストのボディ。
type createUserRequest struct {
	Email      string  `json:"email"`
	LastName   string  `json:"last_name"`
	FirstName  string  `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	BirthDate  *string `json:"birth_date"`
	Gender     *string `json:"gender"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID         int64   `json:"id"`
	Email      string  `json:"email"`
	LastName   string  `json:"last_name"`
	FirstName  string  `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	BirthDate  *string `json:"birth_date"`
	Gender     *string `json:"gender"`
}

// userSegmentResponse はユーザーの所属セグメント一覧の1要素。
type userSegmentResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CreateUser はユーザー作成を処理する。
// POST /user/add
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	created, err := h.service.Create(r.Context(), user.CreateInput{
		Email:      req.Email,
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		BirthDate:  req.BirthDate,
		Gender:     req.Gender,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{
		"message": "ユーザーを作成しました。",
		"user_id": created.ID,
	})
}

// GetUser はユーザー詳細を取得する。
// GET /user/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		writeUserNotFound(w)
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"user": toUserResponse(u),
	})
}

// ListUserSegments はユーザーが属するセグメントの一覧を取得する。
// GET /user/{id}/segments
func (h *UserHandler) ListUserSegments(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		writeUserNotFound(w)
		return
	}

	segments, err := h.service.ListSegments(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 空でも空配列として返す
	items := make([]userSegmentResponse, 0, len(segments))
	for _, seg := range segments {
		items = append(items, userSegmentResponse{
			ID:          seg.ID,
			Name:        seg.Name,
			Description: seg.Description,
		})
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"user_id":  id,
		"segments": items,
	})
}

// SetupUserRoutes はユーザー管理関連のルーティングを設定したchi.Routerを返す。
func SetupUserRoutes(service UserServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewUserHandler(service)

	r.Route("/user", func(r chi.Router) {
		r.Post("/add", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Get("/{id}/segments", h.ListUserSegments)
	})

	return r
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	var birthDate *string
	if u.BirthDate != nil {
		s := u.BirthDate.Format("2006-01-02")
		birthDate = &s
	}

	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		LastName:   u.LastName,
		FirstName:  u.FirstName,
		MiddleName: u.MiddleName,
		BirthDate:  birthDate,
		Gender:     u.Gender,
	}
}
