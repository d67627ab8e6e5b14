package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFlexID_UnmarshalAndResolve(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64 // 0は未指定
		wantErr bool
	}{
		{name: "missing", input: `{}`},
		{name: "null", input: `{"id":null}`},
		{name: "empty string", input: `{"id":""}`},
		{name: "blank string", input: `{"id":"  "}`},
		{name: "number", input: `{"id":12}`, want: 12},
		{name: "string", input: `{"id":"12"}`, want: 12},
		{name: "padded string", input: `{"id":" 12 "}`, want: 12},
		{name: "zero", input: `{"id":0}`, wantErr: true},
		{name: "negative", input: `{"id":-1}`, wantErr: true},
		{name: "fraction", input: `{"id":1.5}`, wantErr: true},
		{name: "word", input: `{"id":"abc"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				ID flexID `json:"id"`
			}
			if err := json.Unmarshal([]byte(tt.input), &v); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			got, err := v.ID.resolve("id")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("resolve() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}
			switch {
			case tt.want == 0 && got != nil:
				t.Errorf("resolve() = %d, want nil", *got)
			case tt.want != 0 && (got == nil || *got != tt.want):
				t.Errorf("resolve() = %v, want %d", got, tt.want)
			}
		})
	}
}

func TestFlexString_Unmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{"v":"42"}`, "42"},
		{`{"v":42}`, "42"},
		{`{"v":42.5}`, "42.5"},
		{`{"v":null}`, ""},
		{`{}`, ""},
	}

	for _, tt := range tests {
		var v struct {
			V flexString `json:"v"`
		}
		if err := json.Unmarshal([]byte(tt.input), &v); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
		}
		if string(v.V) != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, v.V, tt.want)
		}
	}

	var v struct {
		V flexString `json:"v"`
	}
	if err := json.Unmarshal([]byte(`{"v":true}`), &v); err == nil {
		t.Error("Unmarshal(bool) should fail")
	}
}

func TestQueryID(t *testing.T) {
	tests := []struct {
		target  string
		want    int64
		wantErr bool
	}{
		{target: "/x"},
		{target: "/x?id="},
		{target: "/x?id=7", want: 7},
		{target: "/x?id=%207%20", want: 7},
		{target: "/x?id=0", wantErr: true},
		{target: "/x?id=-2", wantErr: true},
		{target: "/x?id=abc", wantErr: true},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.target, nil)
		got, err := queryID(r, "id")
		if tt.wantErr {
			if err == nil {
				t.Errorf("queryID(%q) = %v, want error", tt.target, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("queryID(%q) error = %v", tt.target, err)
			continue
		}
		if tt.want == 0 && got != nil {
			t.Errorf("queryID(%q) = %d, want nil", tt.target, *got)
		}
		if tt.want != 0 && (got == nil || *got != tt.want) {
			t.Errorf("queryID(%q) = %v, want %d", tt.target, got, tt.want)
		}
	}
}

func TestDecodeJSON_RejectsOversizedBody(t *testing.T) {
	big := make([]byte, maxRequestBodySize+10)
	for i := range big {
		big[i] = ' '
	}
	body := append([]byte(`{"postDetails":"`), big...)
	body = append(body, []byte(`"}`)...)

	r := postJSON("/api/posts", string(body))
	w := httptest.NewRecorder()

	var req createPostRequest
	apiErr := decodeJSON(w, r, &req)
	if apiErr == nil {
		t.Fatal("decodeJSON() should fail for oversized body")
	}
	if apiErr.Code != "INVALID_REQUEST" {
		t.Errorf("code = %q, want INVALID_REQUEST", apiErr.Code)
	}
}
