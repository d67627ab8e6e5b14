package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/hitoshi/profilebook/internal/model"
	"github.com/hitoshi/profilebook/internal/submission"
)

// --- モック定義 ---

// mockQueryService はQueryServiceInterfaceのモック実装。
type mockQueryService struct {
	searchPersonsFn         func(ctx context.Context, q string) ([]*model.Person, error)
	groupsByPersonFn        func(ctx context.Context, personID int64) ([]*model.Group, error)
	listAllGroupsFn         func(ctx context.Context) ([]*model.Group, error)
	postsByPersonAndGroupFn func(ctx context.Context, personID, groupID int64) ([]*model.Post, error)
}

func (m *mockQueryService) SearchPersons(ctx context.Context, q string) ([]*model.Person, error) {
	if m.searchPersonsFn != nil {
		return m.searchPersonsFn(ctx, q)
	}
	return nil, nil
}

func (m *mockQueryService) GroupsByPerson(ctx context.Context, personID int64) ([]*model.Group, error) {
	if m.groupsByPersonFn != nil {
		return m.groupsByPersonFn(ctx, personID)
	}
	return nil, nil
}

func (m *mockQueryService) ListAllGroups(ctx context.Context) ([]*model.Group, error) {
	if m.listAllGroupsFn != nil {
		return m.listAllGroupsFn(ctx)
	}
	return nil, nil
}

func (m *mockQueryService) PostsByPersonAndGroup(ctx context.Context, personID, groupID int64) ([]*model.Post, error) {
	if m.postsByPersonAndGroupFn != nil {
		return m.postsByPersonAndGroupFn(ctx, personID, groupID)
	}
	return nil, nil
}

// mockSubmissionService はSubmissionServiceInterfaceのモック実装。
type mockSubmissionService struct {
	saveFn        func(ctx context.Context, sub model.Submission) (*submission.Result, error)
	createGroupFn func(ctx context.Context, personID int64, groupName, note string) (*model.Group, error)
	createPostFn  func(ctx context.Context, personID, groupID int64, postDetails, comments string) (*model.Post, error)
}

func (m *mockSubmissionService) Save(ctx context.Context, sub model.Submission) (*submission.Result, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, sub)
	}
	return &submission.Result{}, nil
}

func (m *mockSubmissionService) CreateGroup(ctx context.Context, personID int64, groupName, note string) (*model.Group, error) {
	if m.createGroupFn != nil {
		return m.createGroupFn(ctx, personID, groupName, note)
	}
	return &model.Group{}, nil
}

func (m *mockSubmissionService) CreatePost(ctx context.Context, personID, groupID int64, postDetails, comments string) (*model.Post, error) {
	if m.createPostFn != nil {
		return m.createPostFn(ctx, personID, groupID, postDetails, comments)
	}
	return &model.Post{}, nil
}

// mockPinger はPingerのモック実装。
type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.err
}

// --- ヘルパー ---

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

// decodeBody はレスポンスボディをmapにデコードする。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v (body=%q)", err, w.Body.String())
	}
	return body
}

// assertErrorBody は失敗レスポンスのcodeを検証する。
func assertErrorBody(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Errorf("status = %d, want %d (body=%s)", w.Code, wantStatus, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["code"] != wantCode {
		t.Errorf("code = %v, want %q", body["code"], wantCode)
	}
}

// assertGolden はレスポンスボディを正規化したJSON（キー順、2スペースインデント）で
// testdata/golden のファイルと比較する。
func assertGolden(t *testing.T, name string, w *httptest.ResponseRecorder) {
	t.Helper()

	var v any
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	normalized, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
	normalized = append(normalized, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, normalized)
}
