package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/profilebook/internal/metrics"
	"github.com/hitoshi/profilebook/internal/model"
	"github.com/hitoshi/profilebook/internal/repository"
	"github.com/hitoshi/profilebook/internal/security"
)

// Result は送信の保存結果。
type Result struct {
	PersonID      int64
	GroupID       int64
	PostID        int64
	PersonCreated bool
	GroupCreated  bool
}

// Service は送信の保存と、グループ・投稿の直接作成を行うサービス層。
// すべての書き込みはUnitOfWorkのトランザクション内で行う。
type Service struct {
	uow       repository.UnitOfWork
	resolver  *Resolver
	guard     security.TextGuard
	metrics   metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorがnilの場合はメトリクスを記録しない。
func NewService(uow repository.UnitOfWork, guard security.TextGuard, collector metrics.MetricsCollector) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		uow:       uow,
		resolver:  NewResolver(),
		guard:     guard,
		metrics:   collector,
	}
}

// Save は送信を保存する。
// 人物とグループの解決、投稿の作成を1つのトランザクションで行い、
// いずれかが失敗した場合はこの送信で作成した行をすべてロールバックする。
// 必須項目の欠落とマークアップはトランザクションを開始する前に検出する。
func (s *Service) Save(ctx context.Context, sub model.Submission) (*Result, error) {
	sub = trimSubmission(sub)

	if err := s.validateSubmission(sub); err != nil {
		s.metrics.RecordSubmission(metrics.OutcomeInvalid)
		return nil, err
	}

	var (
		res    *Resolution
		postID int64
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		r, err := s.resolver.Resolve(ctx, repos, sub.Person, sub.Group)
		if err != nil {
			return err
		}

		post := &model.Post{
			PersonID:    r.PersonID,
			GroupID:     r.GroupID,
			PostDetails: sub.Post.PostDetails,
			Comments:    model.OptionalString(sub.Post.Comments),
		}
		if err := repos.Posts.Create(ctx, post); err != nil {
			return fmt.Errorf("投稿の作成に失敗しました: %w", err)
		}

		res = r
		postID = post.ID
		return nil
	})
	if err != nil {
		s.metrics.RecordSubmission(outcomeOf(err))
		return nil, err
	}

	s.metrics.RecordSubmission(metrics.OutcomeSaved)
	s.metrics.RecordPersonResolution(res.PersonCreated)
	s.metrics.RecordGroupResolution(res.GroupCreated)
	s.metrics.RecordPostCreated()

	slog.InfoContext(ctx, "送信を保存しました",
		slog.Int64("person_id", res.PersonID),
		slog.Int64("group_id", res.GroupID),
		slog.Int64("post_id", postID),
		slog.Bool("person_created", res.PersonCreated),
		slog.Bool("group_created", res.GroupCreated),
	)

	return &Result{
		PersonID:      res.PersonID,
		GroupID:       res.GroupID,
		PostID:        postID,
		PersonCreated: res.PersonCreated,
		GroupCreated:  res.GroupCreated,
	}, nil
}

// CreateGroup は既存の人物にグループを追加する。
// 人物が存在しない場合はPersonNotFoundを返す。
func (s *Service) CreateGroup(ctx context.Context, personID int64, groupName, note string) (*model.Group, error) {
	groupName = strings.TrimSpace(groupName)
	note = strings.TrimSpace(note)

	if personID <= 0 || groupName == "" {
		return nil, model.NewMissingFieldsError("personId and groupName are required")
	}
	if err := s.checkText(
		textField{"groupName", groupName},
		textField{"note", note},
	); err != nil {
		return nil, err
	}

	group := &model.Group{
		GroupName: groupName,
		Note:      model.OptionalString(note),
		PersonID:  personID,
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		person, err := repos.Persons.FindByID(ctx, personID)
		if err != nil {
			return fmt.Errorf("人物の取得に失敗しました: %w", err)
		}
		if person == nil {
			return model.NewPersonNotFoundError(personID)
		}
		if err := repos.Groups.Create(ctx, group); err != nil {
			return fmt.Errorf("グループの作成に失敗しました: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordGroupResolution(true)
	slog.InfoContext(ctx, "グループを作成しました",
		slog.Int64("person_id", personID),
		slog.Int64("group_id", group.ID),
	)
	return group, nil
}

// CreatePost は既存の (person, group) に投稿を追加する。
// グループがその人物に属することをトランザクション内で再検証する。
func (s *Service) CreatePost(ctx context.Context, personID, groupID int64, postDetails, comments string) (*model.Post, error) {
	postDetails = strings.TrimSpace(postDetails)
	comments = strings.TrimSpace(comments)

	if personID <= 0 || groupID <= 0 || postDetails == "" {
		return nil, model.NewMissingFieldsError("personId, groupId and postDetails are required")
	}
	if err := s.checkText(
		textField{"postDetails", postDetails},
		textField{"comments", comments},
	); err != nil {
		return nil, err
	}

	post := &model.Post{
		PersonID:    personID,
		GroupID:     groupID,
		PostDetails: postDetails,
		Comments:    model.OptionalString(comments),
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		group, err := repos.Groups.FindByID(ctx, groupID, personID)
		if err != nil {
			return fmt.Errorf("グループの取得に失敗しました: %w", err)
		}
		if group == nil {
			return model.NewInvalidGroupSelectionError()
		}
		if err := repos.Posts.Create(ctx, post); err != nil {
			return fmt.Errorf("投稿の作成に失敗しました: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPostCreated()
	return post, nil
}

// trimSubmission は各フィールドの前後の空白を除去する。内容は書き換えない。
func trimSubmission(sub model.Submission) model.Submission {
	sub.Person.ProfileID = strings.TrimSpace(sub.Person.ProfileID)
	sub.Person.ProfileName = strings.TrimSpace(sub.Person.ProfileName)
	sub.Person.PhoneNumber = strings.TrimSpace(sub.Person.PhoneNumber)
	sub.Person.Address = strings.TrimSpace(sub.Person.Address)
	sub.Person.Occupation = strings.TrimSpace(sub.Person.Occupation)
	sub.Person.AgeRaw = strings.TrimSpace(sub.Person.AgeRaw)
	sub.Group.GroupName = strings.TrimSpace(sub.Group.GroupName)
	sub.Group.Note = strings.TrimSpace(sub.Group.Note)
	sub.Post.PostDetails = strings.TrimSpace(sub.Post.PostDetails)
	sub.Post.Comments = strings.TrimSpace(sub.Post.Comments)
	return sub
}

type textField struct {
	name  string
	value string
}

// checkText は自由記述フィールドにマークアップが含まれていればINVALID_FIELDを返す。
// profileIdは照合キーのため検査しない。
func (s *Service) checkText(fields ...textField) error {
	for _, f := range fields {
		if err := s.guard.Check(f.value); err != nil {
			if errors.Is(err, security.ErrMarkup) {
				return model.NewInvalidFieldError(f.name + " must not contain markup")
			}
			return err
		}
	}
	return nil
}

func (s *Service) validateSubmission(sub model.Submission) error {
	var missing []string
	if sub.Person.ProfileID == "" {
		missing = append(missing, "profileId")
	}
	if sub.Group.ID == nil && sub.Group.GroupName == "" {
		missing = append(missing, "groupName")
	}
	if sub.Post.PostDetails == "" {
		missing = append(missing, "postDetails")
	}
	if len(missing) > 0 {
		return model.NewMissingFieldsError("Missing required fields: " + strings.Join(missing, ", "))
	}

	if sub.Group.ID != nil && *sub.Group.ID <= 0 {
		return model.NewInvalidIDError("group.id")
	}
	return s.checkText(
		textField{"person.profileName", sub.Person.ProfileName},
		textField{"person.phoneNumber", sub.Person.PhoneNumber},
		textField{"person.address", sub.Person.Address},
		textField{"person.occupation", sub.Person.Occupation},
		textField{"group.groupName", sub.Group.GroupName},
		textField{"group.note", sub.Group.Note},
		textField{"post.postDetails", sub.Post.PostDetails},
		textField{"post.comments", sub.Post.Comments},
	)
}

func outcomeOf(err error) string {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return metrics.OutcomeStoreError
	}
	switch apiErr.Category {
	case model.CategoryOwnership:
		return metrics.OutcomeOwnership
	case model.CategoryValidation:
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeStoreError
	}
}
