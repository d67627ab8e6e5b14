package model

// Group は人物が所有するグループを表す。
// グループは全体で共有されるものではなく、必ず1人のPersonに属する。
type Group struct {
	ID        int64
	GroupName string
	Note      *string
	PersonID  int64
}
