package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hitoshi/profilebook/internal/model"
)

const personColumns = `id, profile_name, profile_id, phone_number, address, occupation, age`

// SQLPersonRepo はSQLデータベースを使用した人物リポジトリ。
type SQLPersonRepo struct {
	db DBTX
}

// NewSQLPersonRepo はSQLPersonRepoを生成する。
func NewSQLPersonRepo(db DBTX) *SQLPersonRepo {
	return &SQLPersonRepo{db: db}
}

// FindByProfileID はprofile_idの完全一致で人物を取得する。見つからない場合はnilを返す。
func (r *SQLPersonRepo) FindByProfileID(ctx context.Context, profileID string) (*model.Person, error) {
	person, err := scanPerson(r.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM person_info WHERE profile_id = $1`,
		profileID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile_idによる人物の取得に失敗しました: %w", err)
	}
	return person, nil
}

// FindByID は指定IDの人物を取得する。見つからない場合はnilを返す。
func (r *SQLPersonRepo) FindByID(ctx context.Context, id int64) (*model.Person, error) {
	person, err := scanPerson(r.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM person_info WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("人物の取得に失敗しました: %w", err)
	}
	return person, nil
}

// SearchByName はprofile_nameの部分一致で人物を検索する。
// 短すぎるクエリは全件走査を避けるためストアにアクセスせず空のスライスを返す。
func (r *SQLPersonRepo) SearchByName(ctx context.Context, query string, limit int) ([]*model.Person, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchQueryLen {
		return []*model.Person{}, nil
	}
	if limit <= 0 || limit > DefaultSearchLimit {
		limit = DefaultSearchLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+personColumns+`
		 FROM person_info
		 WHERE LOWER(profile_name) LIKE LOWER($1) ESCAPE '\'
		 ORDER BY profile_name ASC, id ASC
		 LIMIT $2`,
		containsPattern(query), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("人物の検索に失敗しました: %w", err)
	}
	defer rows.Close()

	persons := []*model.Person{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("人物行の読み取りに失敗しました: %w", err)
		}
		persons = append(persons, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("人物検索結果の走査に失敗しました: %w", err)
	}
	return persons, nil
}

// Create は人物を作成する。
// 同じprofile_idの人物が既に存在する場合はErrDuplicateProfileIDを返す。
func (r *SQLPersonRepo) Create(ctx context.Context, person *model.Person) error {
	if person.Age != nil {
		person.Age = model.NormalizeAge(*person.Age)
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO person_info (profile_name, profile_id, phone_number, address, occupation, age)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		person.ProfileName, person.ProfileID, person.PhoneNumber, person.Address, person.Occupation, person.Age,
	).Scan(&person.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("人物の作成に失敗しました: %w", ErrDuplicateProfileID)
	}
	if err != nil {
		return fmt.Errorf("人物の作成に失敗しました: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*model.Person, error) {
	p := &model.Person{}
	if err := row.Scan(&p.ID, &p.ProfileName, &p.ProfileID, &p.PhoneNumber, &p.Address, &p.Occupation, &p.Age); err != nil {
		return nil, err
	}
	return p, nil
}

// compile-time interface check
var _ PersonRepository = (*SQLPersonRepo)(nil)
