package handler

import (
	"time"

	"github.com/samber/lo"

	"github.com/hitoshi/profilebook/internal/model"
)

// personResponse は人物のAPIレスポンス。
type personResponse struct {
	ID          int64   `json:"id"`
	ProfileName string  `json:"profileName"`
	ProfileID   string  `json:"profileId"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
	Occupation  *string `json:"occupation"`
	Age         *int    `json:"age"`
}

// groupResponse はグループのAPIレスポンス。
type groupResponse struct {
	ID        int64   `json:"id"`
	GroupName string  `json:"groupName"`
	Note      *string `json:"note"`
	PersonID  int64   `json:"personId"`
}

// postResponse は投稿のAPIレスポンス。
type postResponse struct {
	ID          int64     `json:"id"`
	PersonID    int64     `json:"personId"`
	GroupID     int64     `json:"groupId"`
	PostDetails string    `json:"postDetails"`
	Comments    *string   `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toPersonResponse(p *model.Person) personResponse {
	return personResponse{
		ID:          p.ID,
		ProfileName: p.ProfileName,
		ProfileID:   p.ProfileID,
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		Occupation:  p.Occupation,
		Age:         p.Age,
	}
}

func toGroupResponse(g *model.Group) groupResponse {
	return groupResponse{
		ID:        g.ID,
		GroupName: g.GroupName,
		Note:      g.Note,
		PersonID:  g.PersonID,
	}
}

func toPostResponse(p *model.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		PersonID:    p.PersonID,
		GroupID:     p.GroupID,
		PostDetails: p.PostDetails,
		Comments:    p.Comments,
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func toPersonResponses(persons []*model.Person) []personResponse {
	return lo.Map(persons, func(p *model.Person, _ int) personResponse {
		return toPersonResponse(p)
	})
}

func toGroupResponses(groups []*model.Group) []groupResponse {
	return lo.Map(groups, func(g *model.Group, _ int) groupResponse {
		return toGroupResponse(g)
	})
}

func toPostResponses(posts []*model.Post) []postResponse {
	return lo.Map(posts, func(p *model.Post, _ int) postResponse {
		return toPostResponse(p)
	})
}
