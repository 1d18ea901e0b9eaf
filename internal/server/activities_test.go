package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pulsetrail/pulsetrail/internal/activity/domain"
	"github.com/pulsetrail/pulsetrail/internal/config"
	"github.com/pulsetrail/pulsetrail/internal/observability"
	"github.com/pulsetrail/pulsetrail/internal/tenantctx"
	"github.com/stretchr/testify/require"
)

type fakeActivityService struct {
	createCalls int
	listCalls   int
	createErr   error
	listErr     error
	lastCreate  domain.CreateActivityRequest
	lastList    domain.ListActivitiesRequest
	listResp    domain.ListActivitiesResponse
}

func (f *fakeActivityService) Create(ctx context.Context, req domain.CreateActivityRequest) (domain.Activity, error) {
	f.createCalls++
	f.lastCreate = req
	if f.createErr != nil {
		return domain.Activity{}, f.createErr
	}
	tenantID, _ := tenantctx.TenantID(ctx)
	return domain.Activity{
		ID:        snowflake.ID(101),
		TenantID:  tenantID,
		ActorID:   req.ActorID,
		ActorName: req.ActorName,
		Type:      domain.Type(req.Type),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeActivityService) List(ctx context.Context, req domain.ListActivitiesRequest) (domain.ListActivitiesResponse, error) {
	f.listCalls++
	f.lastList = req
	if f.listErr != nil {
		return domain.ListActivitiesResponse{}, f.listErr
	}
	return f.listResp, nil
}

func newTestServer(t *testing.T, svc domain.Service) *Server {
	t.Helper()
	engine := NewEngine(observability.Config{})
	return NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{},
		ActivitySvc: svc,
	})
}

func doRequest(s *Server, method, target, tenant string, body []byte) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if tenant != "" {
		req.Header.Set(HeaderTenant, tenant)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func TestCreateActivityRequiresTenantHeader(t *testing.T) {
	fake := &fakeActivityService{}
	s := newTestServer(t, fake)

	body, _ := json.Marshal(map[string]any{
		"actorId": "user-1", "actorName": "User One", "type": "USER_LOGIN",
	})
	rec := doRequest(s, http.MethodPost, "/activities", "", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "invalid_tenant", resp.Error)
	require.Zero(t, fake.createCalls, "handler must not run without a tenant")
}

func TestTenantHeaderBlankIsRejected(t *testing.T) {
	fake := &fakeActivityService{}
	s := newTestServer(t, fake)

	rec := doRequest(s, http.MethodGet, "/activities", "   ", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, fake.listCalls)
}

func TestCreateActivitySuccessEnvelope(t *testing.T) {
	fake := &fakeActivityService{}
	s := newTestServer(t, fake)

	body, _ := json.Marshal(map[string]any{
		"actorId":   "user-1",
		"actorName": "User One",
		"type":      "DOCUMENT_CREATED",
		"entityId":  "doc-9",
		"metadata":  map[string]any{"description": "uploaded proposal"},
	})
	rec := doRequest(s, http.MethodPost, "/activities", "acme", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool            `json:"success"`
		Data    domain.Activity `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "acme", resp.Data.TenantID)
	require.Equal(t, domain.TypeDocumentCreated, resp.Data.Type)
	require.Equal(t, 1, fake.createCalls)
	require.Equal(t, "doc-9", fake.lastCreate.EntityID)
}

func TestCreateActivityValidationErrorEnvelope(t *testing.T) {
	fake := &fakeActivityService{createErr: domain.ErrInvalidType}
	s := newTestServer(t, fake)

	body, _ := json.Marshal(map[string]any{
		"actorId": "user-1", "actorName": "User One", "type": "NOPE",
	})
	rec := doRequest(s, http.MethodPost, "/activities", "acme", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "invalid_type", resp.Error)
}

func TestCreateActivityInternalErrorIsGenericized(t *testing.T) {
	fake := &fakeActivityService{createErr: errors.New("pq: connection reset by peer")}
	s := newTestServer(t, fake)

	body, _ := json.Marshal(map[string]any{
		"actorId": "user-1", "actorName": "User One", "type": "USER_LOGIN",
	})
	rec := doRequest(s, http.MethodPost, "/activities", "acme", body)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "internal server error", resp.Error)
	require.NotContains(t, rec.Body.String(), "pq:")
}

func TestListActivitiesEnvelope(t *testing.T) {
	cursor := "2026-08-01T10:00:00.000000001Z"
	fake := &fakeActivityService{
		listResp: domain.ListActivitiesResponse{
			Activities: []domain.Activity{
				{ID: snowflake.ID(2), TenantID: "acme", Type: domain.TypeUserLogin},
				{ID: snowflake.ID(1), TenantID: "acme", Type: domain.TypeUserLogout},
			},
			NextCursor: cursor,
			HasMore:    true,
		},
	}
	s := newTestServer(t, fake)

	rec := doRequest(s, http.MethodGet, "/activities?limit=2&type=USER_LOGIN", "acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success    bool              `json:"success"`
		Data       []domain.Activity `json:"data"`
		NextCursor *string           `json:"nextCursor"`
		HasMore    bool              `json:"hasMore"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	require.NotNil(t, resp.NextCursor)
	require.Equal(t, cursor, *resp.NextCursor)
	require.True(t, resp.HasMore)
	require.Equal(t, 2, fake.lastList.Limit)
	require.Equal(t, "USER_LOGIN", fake.lastList.Type)
}

func TestListActivitiesLastPageKeepsCursor(t *testing.T) {
	cursor := "2026-08-01T10:00:00.000000001Z"
	fake := &fakeActivityService{
		listResp: domain.ListActivitiesResponse{
			Activities: []domain.Activity{{ID: snowflake.ID(1), TenantID: "acme"}},
			NextCursor: cursor,
		},
	}
	s := newTestServer(t, fake)

	rec := doRequest(s, http.MethodGet, "/activities", "acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// A final page still names its last record; only hasMore flips off.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Equal(t, `"`+cursor+`"`, string(raw["nextCursor"]))
	require.Equal(t, "false", string(raw["hasMore"]))
}

func TestListActivitiesEmptyPageHasNullCursor(t *testing.T) {
	fake := &fakeActivityService{}
	s := newTestServer(t, fake)

	rec := doRequest(s, http.MethodGet, "/activities", "acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Equal(t, "null", string(raw["nextCursor"]))
	require.Equal(t, "false", string(raw["hasMore"]))
}

func TestListActivitiesNonNumericLimitIgnored(t *testing.T) {
	fake := &fakeActivityService{}
	s := newTestServer(t, fake)

	rec := doRequest(s, http.MethodGet, "/activities?limit=abc", "acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, fake.lastList.Limit)
}

func TestListActivitiesInvalidCursor(t *testing.T) {
	fake := &fakeActivityService{listErr: domain.ErrInvalidCursor}
	s := newTestServer(t, fake)

	rec := doRequest(s, http.MethodGet, "/activities?cursor=garbage", "acme", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "invalid_cursor", resp.Error)
}

func TestListActivitiesEmptyFeedReturnsEmptyArray(t *testing.T) {
	fake := &fakeActivityService{}
	s := newTestServer(t, fake)

	rec := doRequest(s, http.MethodGet, "/activities", "acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Equal(t, "[]", string(raw["data"]))
}

func TestHealthIsUnscoped(t *testing.T) {
	s := newTestServer(t, &fakeActivityService{})

	rec := doRequest(s, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NotEmpty(t, resp.Timestamp)
}
