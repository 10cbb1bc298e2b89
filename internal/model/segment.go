// Package model はドメインモデルを定義する。
package model

import "time"

// Segment はユーザーをタグ付けするための名前付きグループを表す。
// 名前は全セグメントで一意。
type Segment struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
