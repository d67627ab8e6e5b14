package handler

import (
	"net/http"

	"github.com/hitoshi/profilebook/internal/middleware"
)

// GroupHandler はグループのHTTPハンドラー。
type GroupHandler struct {
	queries QueryServiceInterface
	writer  SubmissionServiceInterface
}

// NewGroupHandler はGroupHandlerを生成する。
func NewGroupHandler(queries QueryServiceInterface, writer SubmissionServiceInterface) *GroupHandler {
	return &GroupHandler{
		queries: queries,
		writer:  writer,
	}
}

// createGroupRequest はグループ作成リクエストのボディ。
type createGroupRequest struct {
	PersonID  flexID `json:"personId"`
	GroupName string `json:"groupName" validate:"max=255"`
	Note      string `json:"note" validate:"max=2000"`
}

// ListGroups は全グループを取得する。
// GET /api/groups
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.queries.ListAllGroups(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"groups":  toGroupResponses(groups),
	})
}

// CreateGroup は既存の人物にグループを作成する。
// POST /api/groups
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	personID, err := req.PersonID.resolve("personId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	var pid int64
	if personID != nil {
		pid = *personID
	}

	group, err := h.writer.CreateGroup(r.Context(), pid, req.GroupName, req.Note)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"group":   toGroupResponse(group),
	})
}

// PersonGroups は人物が所有するグループを取得する。
// personIdが指定されていない場合は空の一覧を返す。
// GET /api/person-groups?personId=
func (h *GroupHandler) PersonGroups(w http.ResponseWriter, r *http.Request) {
	personID, err := queryID(r, "personId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	groups := toGroupResponses(nil)
	if personID != nil {
		found, err := h.queries.GroupsByPerson(r.Context(), *personID)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		groups = toGroupResponses(found)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"groups":  groups,
	})
}
