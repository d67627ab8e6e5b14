// Package model はドメインモデルを定義する。
package model

import (
	"math"
	"strconv"
	"strings"
)

// 年齢として受け付ける範囲。
const (
	MinAge = 1
	MaxAge = 120
)

// Person は情報収集対象の人物を表す。
// ProfileIDは外部から与えられる一意な識別子で、重複判定のキーとなる。
type Person struct {
	ID          int64
	ProfileName string
	ProfileID   string
	PhoneNumber *string
	Address     *string
	Occupation  *string
	Age         *int
}

// CoerceAge はフォームから送られた年齢の文字列を整数に変換する。
// 数値として解釈できない場合や範囲外の場合はnil（未設定）を返し、エラーにはしない。
// "42.7" のような小数は切り捨てる。
func CoerceAge(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return NormalizeAge(int(math.Trunc(f)))
}

// NormalizeAge は範囲外の年齢をnilに落とす。
func NormalizeAge(age int) *int {
	if age < MinAge || age > MaxAge {
		return nil
	}
	return &age
}

// OptionalString は空白のみの文字列をnilとして扱う。
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
