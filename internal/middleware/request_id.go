// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader はリクエストIDを受け渡すHTTPヘッダー名。
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// ErrNoRequestID はコンテキストにリクエストIDが存在しないことを示す。
var ErrNoRequestID = errors.New("request id not found in context")

// NewRequestIDMiddleware はリクエストごとにIDを採番するミドルウェアを返す。
// クライアントがX-Request-IDヘッダーを送ってきた場合はそれを引き継ぎ、
// なければUUIDを生成する。IDはレスポンスヘッダーにも反映される。
func NewRequestIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			w.Header().Set(RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext はコンテキストからリクエストIDを取得する。
func RequestIDFromContext(ctx context.Context) (string, error) {
	requestID, ok := ctx.Value(requestIDKey{}).(string)
	if !ok || requestID == "" {
		return "", ErrNoRequestID
	}
	return requestID, nil
}
