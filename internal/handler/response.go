// Package handler はHTTPリクエストをドメインサービスに接続する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/segmenter/internal/model"
)

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSONResponse(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUserNotFound, model.ErrCodeSegmentNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationFailed,
		model.ErrCodeInvalidBirthDate,
		model.ErrCodeDuplicateEmail,
		model.ErrCodeDuplicateSegmentName,
		model.ErrCodeInvalidUserIDs,
		model.ErrCodeInvalidPercent,
		model.ErrCodeUnknownAttribute,
		model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// idFromRequest はパスパラメータ{id}を整数として取り出す。
// 整数として解釈できないパスは存在しないリソースとして扱う。
func idFromRequest(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// writeUserNotFound はユーザー未検出の404レスポンスを書き込む。
// パスが整数IDとして解釈できない場合に使う。
func writeUserNotFound(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
		Code:     model.ErrCodeUserNotFound,
		Message:  "指定されたユーザーが見つかりません。",
		Category: "not_found",
		Action:   "ユーザーIDを確認してください。",
	})
}

// writeSegmentNotFound はセグメント未検出の404レスポンスを書き込む。
// パスが整数IDとして解釈できない場合に使う。
func writeSegmentNotFound(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
		Code:     model.ErrCodeSegmentNotFound,
		Message:  "指定されたセグメントが見つかりません。",
		Category: "not_found",
		Action:   "セグメントIDを確認してください。",
	})
}
