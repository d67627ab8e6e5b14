package handler

import (
	"net/http"

	"github.com/hitoshi/profilebook/internal/middleware"
	"github.com/hitoshi/profilebook/internal/model"
)

// PostHandler は投稿のHTTPハンドラー。
type PostHandler struct {
	queries QueryServiceInterface
	writer  SubmissionServiceInterface
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(queries QueryServiceInterface, writer SubmissionServiceInterface) *PostHandler {
	return &PostHandler{
		queries: queries,
		writer:  writer,
	}
}

// createPostRequest は投稿作成リクエストのボディ。
type createPostRequest struct {
	PersonID    flexID `json:"personId"`
	GroupID     flexID `json:"groupId"`
	PostDetails string `json:"postDetails" validate:"max=10000"`
	Comments    string `json:"comments" validate:"max=10000"`
}

// ListPosts は (person, group) の投稿を新しい順に取得する。
// GET /api/posts?personId=&groupId=
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	personID, err := queryID(r, "personId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	groupID, err := queryID(r, "groupId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if personID == nil || groupID == nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("Missing personId or groupId"))
		return
	}

	posts, err := h.queries.PostsByPersonAndGroup(r.Context(), *personID, *groupID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"posts":   toPostResponses(posts),
	})
}

// CreatePost は既存の (person, group) に投稿を作成する。
// POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	personID, err := req.PersonID.resolve("personId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	groupID, err := req.GroupID.resolve("groupId")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if personID == nil || groupID == nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("personId, groupId and postDetails are required"))
		return
	}

	post, err := h.writer.CreatePost(r.Context(), *personID, *groupID, req.PostDetails, req.Comments)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"post":    toPostResponse(post),
	})
}
