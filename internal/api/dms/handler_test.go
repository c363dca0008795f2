package dms_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prime-studio/studio-backend/internal/api/dms"
	"github.com/prime-studio/studio-backend/internal/dm"
	"github.com/prime-studio/studio-backend/internal/models"
	"github.com/prime-studio/studio-backend/internal/storage/memory"
)

const (
	alice = "11111111-1111-4111-8111-111111111111"
	bob   = "22222222-2222-4222-9222-222222222222"
)

type fixture struct {
	router  *mux.Router
	follows *memory.FollowStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	follows := memory.NewFollowStore()
	svc := dm.NewService(follows, memory.NewDMStore(), memory.NewProfileStore())
	router := mux.NewRouter()
	dms.RegisterRoutes(router, &dms.Handler{Service: svc, Logger: zerolog.Nop()})
	return &fixture{router: router, follows: follows}
}

func (f *fixture) mutualFollow(t *testing.T, a, b string) {
	t.Helper()
	require.NoError(t, f.follows.Follow(context.Background(), a, b))
	require.NoError(t, f.follows.Follow(context.Background(), b, a))
}

func (f *fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) send(t *testing.T, from, to, content string) map[string]any {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/messages", map[string]string{
		"senderId": from, "receiverId": to, "content": content,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGetMessagesMissingParams(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/messages?userId="+alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/messages?peerId="+bob, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMessagesMalformedUUID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/messages?userId="+alice+"&peerId=not-a-uuid", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []models.Message `json:"messages"`
		Blocked  bool             `json:"blocked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Messages)
	assert.False(t, resp.Blocked, "malformed id is not-found, not blocked")
}

func TestGetMessagesSupportIDFallback(t *testing.T) {
	f := newFixture(t)
	f.mutualFollow(t, alice, bob)

	rec := f.do(t, http.MethodGet, "/api/v1/messages?userId="+alice+"&supportId="+bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []models.Message `json:"messages"`
		Blocked  bool             `json:"blocked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Messages)
	assert.False(t, resp.Blocked)
}

func TestGetMessagesBlocked(t *testing.T) {
	f := newFixture(t)
	// Alice follows Bob, Bob does not follow back.
	require.NoError(t, f.follows.Follow(context.Background(), alice, bob))

	rec := f.do(t, http.MethodGet, "/api/v1/messages?userId="+alice+"&peerId="+bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []models.Message `json:"messages"`
		Blocked  bool             `json:"blocked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Messages)
	assert.True(t, resp.Blocked)
}

func TestSendBlocked(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.follows.Follow(context.Background(), alice, bob))

	resp := f.send(t, alice, bob, "hello?")
	assert.Equal(t, false, resp["ok"])
	assert.Equal(t, true, resp["blocked"])
}

func TestSendMalformedUUID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/messages", map[string]string{
		"senderId": alice, "receiverId": "not-a-uuid", "content": "hi",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["ok"])
	_, hasBlocked := resp["blocked"]
	assert.False(t, hasBlocked, "malformed id must not be reported as blocked")
}

func TestSendMissingContent(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/messages", map[string]string{
		"senderId": alice, "receiverId": bob,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConversationRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.mutualFollow(t, alice, bob)

	resp := f.send(t, alice, bob, "hi bob")
	assert.Equal(t, true, resp["ok"])

	resp = f.send(t, bob, alice, "hi alice")
	assert.Equal(t, true, resp["ok"])

	rec := f.do(t, http.MethodGet, "/api/v1/messages?userId="+alice+"&peerId="+bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp struct {
		Messages []models.Message `json:"messages"`
		Blocked  bool             `json:"blocked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Messages, 2)
	assert.Equal(t, "hi bob", listResp.Messages[0].Body)
	assert.Equal(t, alice, listResp.Messages[0].SenderID)
	assert.Equal(t, "hi alice", listResp.Messages[1].Body)
	assert.Equal(t, bob, listResp.Messages[1].SenderID)
	assert.Equal(t, listResp.Messages[0].ConversationID, listResp.Messages[1].ConversationID,
		"both directions land in the same conversation")
}

func TestPeersEndpoint(t *testing.T) {
	follows := memory.NewFollowStore()
	profiles := memory.NewProfileStore()
	svc := dm.NewService(follows, memory.NewDMStore(), profiles)
	router := mux.NewRouter()
	dms.RegisterRoutes(router, &dms.Handler{Service: svc, Logger: zerolog.Nop()})
	f := &fixture{router: router, follows: follows}

	ctx := context.Background()
	require.NoError(t, profiles.Create(ctx, &models.Profile{ID: bob, DisplayName: "Bob"}))
	f.mutualFollow(t, alice, bob)

	rec := f.do(t, http.MethodGet, "/api/v1/peers?userId="+alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Peers []models.Peer `json:"peers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Peers, 1)
	assert.Equal(t, bob, resp.Peers[0].ID)

	// Missing userId is a client error; malformed is an empty list.
	rec = f.do(t, http.MethodGet, "/api/v1/peers", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/peers?userId=zzz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Peers)
}
