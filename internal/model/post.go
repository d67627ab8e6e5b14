package model

import "time"

// Post は (Person, Group) の組に紐づく投稿記録を表す。
// 常に新規作成され、更新・削除の経路は持たない。
type Post struct {
	ID          int64
	PersonID    int64
	GroupID     int64
	PostDetails string
	Comments    *string // 改行区切りのリストとしてクライアントが解釈する
	CreatedAt   time.Time
}
