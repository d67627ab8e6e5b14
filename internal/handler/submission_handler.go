package handler

import (
	"net/http"

	"github.com/hitoshi/profilebook/internal/middleware"
	"github.com/hitoshi/profilebook/internal/model"
)

// SubmissionHandler はフォーム送信（save-data）のHTTPハンドラー。
type SubmissionHandler struct {
	service SubmissionServiceInterface
}

// NewSubmissionHandler はSubmissionHandlerを生成する。
func NewSubmissionHandler(service SubmissionServiceInterface) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// saveDataRequest はフォーム送信リクエストのボディ。
type saveDataRequest struct {
	Person struct {
		ProfileID   flexString `json:"profileId" validate:"max=255"`
		ProfileName string     `json:"profileName" validate:"max=255"`
		PhoneNumber flexString `json:"phoneNumber" validate:"max=50"`
		Address     string     `json:"address" validate:"max=500"`
		Occupation  string     `json:"occupation" validate:"max=255"`
		Age         flexString `json:"age" validate:"max=16"`
	} `json:"person"`
	Group struct {
		ID        flexID `json:"id"`
		GroupName string `json:"groupName" validate:"max=255"`
		Note      string `json:"note" validate:"max=2000"`
	} `json:"group"`
	Post struct {
		PostDetails string `json:"postDetails" validate:"max=10000"`
		Comments    string `json:"comments" validate:"max=10000"`
	} `json:"post"`
}

// toSubmission はリクエストをドメインの送信に変換する。
func (req *saveDataRequest) toSubmission() (model.Submission, error) {
	groupID, err := req.Group.ID.resolve("group.id")
	if err != nil {
		return model.Submission{}, err
	}

	return model.Submission{
		Person: model.PersonInput{
			ProfileID:   string(req.Person.ProfileID),
			ProfileName: req.Person.ProfileName,
			PhoneNumber: string(req.Person.PhoneNumber),
			Address:     req.Person.Address,
			Occupation:  req.Person.Occupation,
			AgeRaw:      string(req.Person.Age),
		},
		Group: model.GroupInput{
			ID:        groupID,
			GroupName: req.Group.GroupName,
			Note:      req.Group.Note,
		},
		Post: model.PostInput{
			PostDetails: req.Post.PostDetails,
			Comments:    req.Post.Comments,
		},
	}, nil
}

// SaveData は人物・グループ・投稿の送信を保存する。
// 人物とグループは既存のものがあれば再利用し、なければ作成する。
// POST /api/save-data
func (h *SubmissionHandler) SaveData(w http.ResponseWriter, r *http.Request) {
	var req saveDataRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	sub, err := req.toSubmission()
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	res, err := h.service.Save(r.Context(), sub)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"personId": res.PersonID,
		"groupId":  res.GroupID,
		"postId":   res.PostID,
	})
}
