package model

// Submission はフォームから送信される (person, group, post) の組。
type Submission struct {
	Person PersonInput
	Group  GroupInput
	Post   PostInput
}

// PersonInput は送信された人物情報。AgeRawは未変換の文字列のまま保持する。
type PersonInput struct {
	ProfileID   string
	ProfileName string
	PhoneNumber string
	Address     string
	Occupation  string
	AgeRaw      string
}

// GroupInput は送信されたグループ情報。
// IDが指定された場合は既存グループの選択、nilの場合は新規作成を意味する。
type GroupInput struct {
	ID        *int64
	GroupName string
	Note      string
}

// PostInput は送信された投稿情報。
type PostInput struct {
	PostDetails string
	Comments    string
}
