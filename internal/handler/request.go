package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/profilebook/internal/model"
)

// maxRequestBodySize はリクエストボディの上限（1MB）。
const maxRequestBodySize = 1 << 20

var validate = newValidator()

// newValidator はエラーメッセージにJSONのフィールド名を使うvalidatorを生成する。
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// flexID はJSONの数値と数値文字列の両方を受け付けるID。
// フォームクライアントはIDを文字列で送ることがある。
// null、空文字列、フィールドの欠落はいずれも「未指定」として扱う。
type flexID struct {
	set   bool
	value int64
	raw   string
}

// UnmarshalJSON はjson.Unmarshalerを実装する。
func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = flexID{}
		return nil
	}

	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = flexID{}
			return nil
		}
	}

	*f = flexID{set: true, raw: s}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		f.value = v
	}
	return nil
}

// resolve はIDを検証して返す。未指定の場合はnilを返す。
// 指定されているが正の整数でない場合はINVALID_IDエラーを返す。
func (f flexID) resolve(field string) (*int64, error) {
	if !f.set {
		return nil, nil
	}
	if f.value <= 0 {
		return nil, model.NewInvalidIDError(field)
	}
	v := f.value
	return &v, nil
}

// flexString はJSONの文字列と数値の両方を文字列として受け付ける。
// ageや電話番号のように、クライアントによって数値で送られる項目に使う。
type flexString string

// UnmarshalJSON はjson.Unmarshalerを実装する。
func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected string or number: %w", err)
		}
		*f = flexString(n.String())
	}
	return nil
}

// decodeJSON はリクエストボディをvにデコードし、validateタグで検証する。
// 失敗した場合はクライアントに返すAPIErrorを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) *model.APIError {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewInvalidRequestError()
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return model.NewInvalidFieldError(describeFieldError(verrs[0]))
		}
		return model.NewInvalidRequestError()
	}
	return nil
}

// describeFieldError はvalidatorのエラーをクライアント向けメッセージに変換する。
func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), rootNamespace(fe))
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// rootNamespace はNamespaceの先頭の構造体名部分（"saveDataRequest."など）を返す。
func rootNamespace(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[:i+1]
	}
	return ""
}

// queryID はクエリパラメータからIDを読み取る。
// パラメータがない場合はnil、正の整数でない場合はINVALID_IDエラーを返す。
func queryID(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, model.NewInvalidIDError(name)
	}
	return &v, nil
}
