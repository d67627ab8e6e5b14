// Package submission は (person, group, post) の送信を受け付け、
// 人物とグループの解決（既存再利用または新規作成）と投稿の追加を
// 1つのトランザクションで行うドメインロジックを提供する。
package submission

import (
	"context"
	"fmt"

	"github.com/hitoshi/profilebook/internal/model"
	"github.com/hitoshi/profilebook/internal/repository"
)

// Resolution は人物・グループの解決結果。
type Resolution struct {
	PersonID      int64
	GroupID       int64
	PersonCreated bool
	GroupCreated  bool
}

// Resolver は送信された人物とグループを既存の行に解決し、存在しなければ作成する。
// 状態を持たず、渡されたRepositories（通常はトランザクションに束縛されたもの）のみを操作する。
type Resolver struct{}

// NewResolver はResolverを生成する。
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve は人物、グループの順に解決する。
//
// 人物はprofile_idの完全一致で検索し、見つかればそのまま再利用する（既存の値は更新しない）。
// 見つからなければ新規作成し、その際はprofileNameが必須となる。
//
// グループはIDが指定されていれば解決済みの人物が所有するものに限って再利用する。
// 他人のグループや存在しないIDはInvalidGroupSelectionとなる。
// IDが指定されていなければ常に新しいグループを作成する。名前による照合は行わない。
func (r *Resolver) Resolve(ctx context.Context, repos repository.Repositories, person model.PersonInput, group model.GroupInput) (*Resolution, error) {
	res := &Resolution{}

	personID, created, err := r.resolvePerson(ctx, repos.Persons, person)
	if err != nil {
		return nil, err
	}
	res.PersonID = personID
	res.PersonCreated = created

	groupID, created, err := r.resolveGroup(ctx, repos.Groups, personID, group)
	if err != nil {
		return nil, err
	}
	res.GroupID = groupID
	res.GroupCreated = created

	return res, nil
}

func (r *Resolver) resolvePerson(ctx context.Context, persons repository.PersonRepository, in model.PersonInput) (int64, bool, error) {
	existing, err := persons.FindByProfileID(ctx, in.ProfileID)
	if err != nil {
		return 0, false, fmt.Errorf("人物の検索に失敗しました: %w", err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	if in.ProfileName == "" {
		return 0, false, model.NewMissingFieldsError("profileName is required for a new person")
	}

	p := &model.Person{
		ProfileID:   in.ProfileID,
		ProfileName: in.ProfileName,
		PhoneNumber: model.OptionalString(in.PhoneNumber),
		Address:     model.OptionalString(in.Address),
		Occupation:  model.OptionalString(in.Occupation),
		Age:         model.CoerceAge(in.AgeRaw),
	}
	if err := persons.Create(ctx, p); err != nil {
		return 0, false, fmt.Errorf("人物の作成に失敗しました: %w", err)
	}
	return p.ID, true, nil
}

func (r *Resolver) resolveGroup(ctx context.Context, groups repository.GroupRepository, personID int64, in model.GroupInput) (int64, bool, error) {
	if in.ID != nil {
		g, err := groups.FindByID(ctx, *in.ID, personID)
		if err != nil {
			return 0, false, fmt.Errorf("グループの検索に失敗しました: %w", err)
		}
		if g == nil {
			return 0, false, model.NewInvalidGroupSelectionError()
		}
		return g.ID, false, nil
	}

	g := &model.Group{
		GroupName: in.GroupName,
		Note:      model.OptionalString(in.Note),
		PersonID:  personID,
	}
	if err := groups.Create(ctx, g); err != nil {
		return 0, false, fmt.Errorf("グループの作成に失敗しました: %w", err)
	}
	return g.ID, true, nil
}
