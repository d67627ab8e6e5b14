package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/profilebook/internal/model"
)

// --- GET /api/persons テスト ---

func TestPersonHandler_SearchPersons_Success(t *testing.T) {
	var gotQuery string
	svc := &mockQueryService{
		searchPersonsFn: func(ctx context.Context, q string) ([]*model.Person, error) {
			gotQuery = q
			return []*model.Person{
				{
					ID:          1,
					ProfileName: "Anna",
					ProfileID:   "p-anna",
					PhoneNumber: strPtr("555-0101"),
					Address:     strPtr("Tokyo"),
					Occupation:  strPtr("Engineer"),
					Age:         intPtr(31),
				},
				{ID: 2, ProfileName: "Joanna", ProfileID: "p-joanna"},
			}, nil
		},
	}
	h := NewPersonHandler(svc)

	w := httptest.NewRecorder()
	h.SearchPersons(w, httptest.NewRequest(http.MethodGet, "/api/persons?q=ann", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotQuery != "ann" {
		t.Errorf("query = %q, want %q", gotQuery, "ann")
	}
	assertGolden(t, "search_persons", w)
}

func TestPersonHandler_SearchPersons_ShortQueryReturnsEmptyArray(t *testing.T) {
	svc := &mockQueryService{
		searchPersonsFn: func(ctx context.Context, q string) ([]*model.Person, error) {
			return []*model.Person{}, nil
		},
	}
	h := NewPersonHandler(svc)

	w := httptest.NewRecorder()
	h.SearchPersons(w, httptest.NewRequest(http.MethodGet, "/api/persons?q=a", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	persons, ok := body["persons"].([]any)
	if !ok || len(persons) != 0 {
		t.Errorf("persons = %#v, want empty array", body["persons"])
	}
}
