package handler

import (
	"net/http"

	"github.com/hitoshi/profilebook/internal/middleware"
)

// PersonHandler は人物検索のHTTPハンドラー。
type PersonHandler struct {
	queries QueryServiceInterface
}

// NewPersonHandler はPersonHandlerを生成する。
func NewPersonHandler(queries QueryServiceInterface) *PersonHandler {
	return &PersonHandler{queries: queries}
}

// SearchPersons は名前の部分一致で人物を検索する（最大10件）。
// qが2文字未満の場合は空の一覧を返す。
// GET /api/persons?q=
func (h *PersonHandler) SearchPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.queries.SearchPersons(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"persons": toPersonResponses(persons),
	})
}
