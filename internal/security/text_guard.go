// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextGuard は人物・グループ・投稿の自由記述フィールドを検査し、
// HTMLとして解釈される記述（タグ、コメント、文字参照）を含む入力を拒否する。
// 自由記述は送信されたまま保存するため、内容を書き換えることはしない。
package security

import (
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// ErrMarkup は入力にHTMLとして解釈される記述が含まれる場合のエラー。
var ErrMarkup = errors.New("text contains markup")

// TextGuard は自由記述テキストの検査機能のインターフェースを定義する。
type TextGuard interface {
	// Check はrawをbluemondayのStrictPolicyに通した結果が単純なエスケープと異なる場合、
	// つまりポリシーが何かを除去または解釈した場合にErrMarkupを返す。
	// "a < b" や "1<2" のような平文の不等号は許可される。
	Check(raw string) error
}

// textGuard はTextGuardの実装。bluemondayのポリシーはスレッドセーフ。
type textGuard struct {
	policy *bluemonday.Policy
}

// NewTextGuard はTextGuardの新しいインスタンスを生成する。
func NewTextGuard() *textGuard {
	return &textGuard{
		policy: bluemonday.StrictPolicy(),
	}
}

// トークナイザーは改行をLFに正規化するため、比較前に同じ変換をかける
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Check は入力がマークアップを含む場合にErrMarkupを返す。
func (g *textGuard) Check(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	text := newlines.Replace(raw)
	// StrictPolicyはテキストトークンをhtml.EscapeStringで書き出す
	if g.policy.Sanitize(text) != html.EscapeString(text) {
		return ErrMarkup
	}
	return nil
}

// compile-time interface check
var _ TextGuard = (*textGuard)(nil)
