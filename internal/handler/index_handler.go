package handler

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/hitoshi/segmenter/internal/model"
)

// UserLister は一覧ページが必要とするユーザー取得インターフェース。
type UserLister interface {
	// ListAll は全ユーザーをID昇順で返す。
	ListAll(ctx context.Context) ([]*model.User, error)
}

// SegmentLister は一覧ページが必要とするセグメント取得インターフェース。
type SegmentLister interface {
	// ListAll は全セグメントをID昇順で返す。
	ListAll(ctx context.Context) ([]*model.Segment, error)
}

// indexTemplate は一覧ページのテンプレート。html/templateの自動エスケープに依存する。
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>ユーザーとセグメント</title>
</head>
<body>
<h1>ユーザー</h1>
<table border="1">
<tr><th>ID</th><th>メール</th><th>姓</th><th>名</th></tr>
{{range .Users}}<tr><td>{{.ID}}</td><td>{{.Email}}</td><td>{{.LastName}}</td><td>{{.FirstName}}</td></tr>
{{end}}</table>
<h1>セグメント</h1>
<table border="1">
<tr><th>ID</th><th>名前</th><th>説明</th></tr>
{{range .Segments}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{if .Description}}{{.Description}}{{end}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// indexPageData はテンプレートに渡すデータ。
type indexPageData struct {
	Users    []*model.User
	Segments []*model.Segment
}

// IndexHandler は全ユーザーと全セグメントを一覧表示するHTMLページのハンドラー。
type IndexHandler struct {
	users    UserLister
	segments SegmentLister
}

// NewIndexHandler はIndexHandlerを生成する。
func NewIndexHandler(users UserLister, segments SegmentLister) *IndexHandler {
	return &IndexHandler{
		users:    users,
		segments: segments,
	}
}

// Index は一覧ページをレンダリングする。
// GET /
func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to list users", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	segments, err := h.segments.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to list segments", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexPageData{Users: users, Segments: segments}); err != nil {
		slog.Error("failed to render index page", slog.String("error", err.Error()))
	}
}
