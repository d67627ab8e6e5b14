package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateProfileID は同じprofile_idの人物が既に存在するため挿入が拒否されたことを表す。
// 同一profile_idに対する並行した送信が競合した場合に、後から書き込んだ側に返る。
var ErrDuplicateProfileID = errors.New("person with the same profile_id already exists")

// pgUniqueViolation はPostgreSQLのunique_violationのSQLSTATE。
const pgUniqueViolation = "23505"

// isUniqueViolation はエラーがユニーク制約違反かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern は部分一致用のLIKEパターンを返す。
// 入力中の % と _ はワイルドカードではなくリテラルとして扱う。
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
