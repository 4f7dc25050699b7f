package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanjustice/gotcha-api/internal/api"
	"github.com/jordanjustice/gotcha-api/internal/api/response"
	"github.com/jordanjustice/gotcha-api/internal/factory"
	"github.com/jordanjustice/gotcha-api/internal/model"
	"github.com/jordanjustice/gotcha-api/internal/services/auth"
	"github.com/jordanjustice/gotcha-api/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
	auth    *auth.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	// Seed a couple of arenas
	require.NoError(t, app.Storage.SaveArena(context.Background(), &model.Arena{
		ID:           "a_office",
		LocationName: "The Office",
		Latitude:     30.2672,
		Longitude:    -97.7431,
		City:         "Austin",
		State:        "TX",
	}))
	require.NoError(t, app.Storage.SaveArena(context.Background(), &model.Arena{
		ID:           "a_faraway",
		LocationName: "Far Away",
		Latitude:     40.7128,
		Longitude:    -74.0060,
		City:         "New York",
		State:        "NY",
	}))

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		ArenaService:  app.ArenaService,
		MatchService:  app.MatchService,
		DeviceService: app.DeviceService,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
		auth:    app.AuthService,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	// Register
	registerBody := map[string]string{
		"name":          "Alice",
		"email_address": "alice@example.com",
		"password":      "secret123",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players", registerBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &registerResp)
	require.NoError(t, err)
	assert.Equal(t, "Alice", registerResp.Player.Name)
	assert.NotEmpty(t, registerResp.SessionToken)

	// Login
	loginBody := map[string]string{
		"email_address": "alice@example.com",
		"password":      "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/sessions", loginBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var loginResp response.AuthResponse
	err = json.Unmarshal(rr.Body.Bytes(), &loginResp)
	require.NoError(t, err)
	assert.Equal(t, registerResp.Player.ID, loginResp.Player.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{
		"name":          "Alice",
		"email_address": "alice@example.com",
		"password":      "secret123",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	body["name"] = "Other Alice"
	rr = ts.request(http.MethodPost, "/api/v1/players", body, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "EMAIL_EXISTS")
}

func TestLoginWithBadPassword(t *testing.T) {
	ts := newTestServer(t)

	registerPlayer(t, ts, "Alice", "alice@example.com")

	loginBody := map[string]string{
		"email_address": "alice@example.com",
		"password":      "wrong",
	}
	rr := ts.request(http.MethodPost, "/api/v1/sessions", loginBody, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Alice", "alice@example.com")

	rr := ts.request(http.MethodDelete, "/api/v1/sessions", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Token no longer valid
	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Bob", "bob@example.com")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var meResp response.Player
	err := json.Unmarshal(rr.Body.Bytes(), &meResp)
	require.NoError(t, err)
	assert.Equal(t, "Bob", meResp.Name)
	assert.Equal(t, "bob@example.com", meResp.EmailAddress)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/matches", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestFindNearbyArenas(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Alice", "alice@example.com")

	// Right at the Austin arena; the New York one is out of range
	rr := ts.request(http.MethodGet, "/api/v1/arenas?latitude=30.2672&longitude=-97.7431", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var arenas []response.Arena
	err := json.Unmarshal(rr.Body.Bytes(), &arenas)
	require.NoError(t, err)
	require.Len(t, arenas, 1)
	assert.Equal(t, "a_office", arenas[0].ID)
}

func TestFindNearbyRequiresCoordinates(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Alice", "alice@example.com")

	rr := ts.request(http.MethodGet, "/api/v1/arenas", nil, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/arenas?latitude=abc&longitude=1", nil, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestFindNearbyRejectsOutOfRangeCoordinates(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Alice", "alice@example.com")

	rr := ts.request(http.MethodGet, "/api/v1/arenas?latitude=91&longitude=0", nil, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_COORDINATES")
}

func TestGetUnknownArena(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Alice", "alice@example.com")

	rr := ts.request(http.MethodGet, "/api/v1/arenas/a_nowhere", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Arena with id a_nowhere not found")
}

func TestCreateArena(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Alice", "alice@example.com")

	body := map[string]any{
		"location_name": "Corner Cafe",
		"latitude":      30.25,
		"longitude":     -97.75,
		"city":          "Austin",
		"state":         "TX",
	}
	rr := ts.request(http.MethodPost, "/api/v1/arenas", body, token)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var arenaResp response.Arena
	err := json.Unmarshal(rr.Body.Bytes(), &arenaResp)
	require.NoError(t, err)
	assert.NotEmpty(t, arenaResp.ID)
	assert.Equal(t, "Corner Cafe", arenaResp.LocationName)
}

func TestPlayAndLeaveArena(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Alice", "alice@example.com")

	// Join
	rr := ts.request(http.MethodPost, "/api/v1/arenas/a_office/players", nil, token)
	assert.Equal(t, http.StatusCreated, rr.Code)

	// Joining again is idempotent
	rr = ts.request(http.MethodPost, "/api/v1/arenas/a_office/players", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Leave
	rr = ts.request(http.MethodDelete, "/api/v1/arenas/a_office/players", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRequestMatchAloneReturnsNoContent(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Alice", "alice@example.com")
	joinArena(t, ts, token, "a_office")

	rr := ts.request(http.MethodPost, "/api/v1/arenas/a_office/matches", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestRequestMatchWithoutPlayingIsUnauthorized(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Alice", "alice@example.com")

	rr := ts.request(http.MethodPost, "/api/v1/arenas/a_office/matches", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Not authorized to play in that Arena")
}

func TestRequestMatchPairsPlayers(t *testing.T) {
	ts := newTestServer(t)

	aliceToken := registerPlayer(t, ts, "Alice", "alice@example.com")
	bobToken := registerPlayer(t, ts, "Bob", "bob@example.com")
	joinArena(t, ts, aliceToken, "a_office")
	joinArena(t, ts, bobToken, "a_office")

	rr := ts.request(http.MethodPost, "/api/v1/arenas/a_office/matches", nil, aliceToken)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var matchResp response.Match
	err := json.Unmarshal(rr.Body.Bytes(), &matchResp)
	require.NoError(t, err)
	assert.Equal(t, "open", matchResp.State)
	assert.Equal(t, "a_office", matchResp.ArenaID)
	assert.NotEqual(t, matchResp.SeekerID, matchResp.OpponentID)
	assert.Empty(t, matchResp.ConfirmationCode)

	// A second request while the first is open conflicts
	rr = ts.request(http.MethodPost, "/api/v1/arenas/a_office/matches", nil, aliceToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCaptureAndConfirmFlow(t *testing.T) {
	ts := newTestServer(t)

	aliceToken := registerPlayer(t, ts, "Alice", "alice@example.com")
	bobToken := registerPlayer(t, ts, "Bob", "bob@example.com")
	joinArena(t, ts, aliceToken, "a_office")
	joinArena(t, ts, bobToken, "a_office")

	matchID := requestMatch(t, ts, aliceToken, "a_office")

	// Alice captures Bob
	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/capture", nil, aliceToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var pendingResp response.Match
	err := json.Unmarshal(rr.Body.Bytes(), &pendingResp)
	require.NoError(t, err)
	assert.Equal(t, "pending", pendingResp.State)
	require.Len(t, pendingResp.ConfirmationCode, 4)

	// Capturing again fails: the match is no longer open
	rr = ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/capture", nil, bobToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Match is not open")

	// Wrong code is rejected and the match stays pending
	body := map[string]string{"confirmation_code": "XXXX"}
	rr = ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/confirm", body, bobToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Confirmation code does not match")

	// Right code confirms the match
	body["confirmation_code"] = pendingResp.ConfirmationCode
	rr = ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/confirm", body, bobToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var foundResp response.Match
	err = json.Unmarshal(rr.Body.Bytes(), &foundResp)
	require.NoError(t, err)
	assert.Equal(t, "found", foundResp.State)
	assert.NotNil(t, foundResp.FoundAt)

	// Confirming a finished match fails the precondition
	rr = ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/confirm", body, bobToken)
	assert.Equal(t, http.StatusPreconditionFailed, rr.Code)
	assert.Contains(t, rr.Body.String(), "Match was not pending")
}

func TestConfirmBeforeCaptureFailsPrecondition(t *testing.T) {
	ts := newTestServer(t)

	aliceToken := registerPlayer(t, ts, "Alice", "alice@example.com")
	bobToken := registerPlayer(t, ts, "Bob", "bob@example.com")
	joinArena(t, ts, aliceToken, "a_office")
	joinArena(t, ts, bobToken, "a_office")

	matchID := requestMatch(t, ts, aliceToken, "a_office")

	body := map[string]string{"confirmation_code": "1234"}
	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/confirm", body, bobToken)
	assert.Equal(t, http.StatusPreconditionFailed, rr.Code)
	assert.Contains(t, rr.Body.String(), "Match was not pending")
}

func TestIgnoreMatch(t *testing.T) {
	ts := newTestServer(t)

	aliceToken := registerPlayer(t, ts, "Alice", "alice@example.com")
	bobToken := registerPlayer(t, ts, "Bob", "bob@example.com")
	joinArena(t, ts, aliceToken, "a_office")
	joinArena(t, ts, bobToken, "a_office")

	matchID := requestMatch(t, ts, aliceToken, "a_office")

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/capture", nil, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/ignore", nil, bobToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var ignoredResp response.Match
	err := json.Unmarshal(rr.Body.Bytes(), &ignoredResp)
	require.NoError(t, err)
	assert.Equal(t, "ignored", ignoredResp.State)
}

func TestMatchActionsByOutsiderAreUnauthorized(t *testing.T) {
	ts := newTestServer(t)

	aliceToken := registerPlayer(t, ts, "Alice", "alice@example.com")
	bobToken := registerPlayer(t, ts, "Bob", "bob@example.com")
	carolToken := registerPlayer(t, ts, "Carol", "carol@example.com")
	joinArena(t, ts, aliceToken, "a_office")
	joinArena(t, ts, bobToken, "a_office")
	joinArena(t, ts, carolToken, "a_office")

	matchID := requestMatch(t, ts, aliceToken, "a_office")

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/capture", nil, carolToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Not authorized to play in that Match")
}

func TestGetUnknownMatch(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Alice", "alice@example.com")

	rr := ts.request(http.MethodGet, "/api/v1/matches/m_missing", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Match with id m_missing not found")
}

func TestListMatches(t *testing.T) {
	ts := newTestServer(t)

	aliceToken := registerPlayer(t, ts, "Alice", "alice@example.com")
	bobToken := registerPlayer(t, ts, "Bob", "bob@example.com")
	joinArena(t, ts, aliceToken, "a_office")
	joinArena(t, ts, bobToken, "a_office")

	matchID := requestMatch(t, ts, aliceToken, "a_office")

	for _, token := range []string{aliceToken, bobToken} {
		rr := ts.request(http.MethodGet, "/api/v1/matches", nil, token)
		assert.Equal(t, http.StatusOK, rr.Code)

		var matches []response.Match
		err := json.Unmarshal(rr.Body.Bytes(), &matches)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, matchID, matches[0].ID)
	}
}

func TestDeviceRegistration(t *testing.T) {
	ts := newTestServer(t)

	token := registerPlayer(t, ts, "Alice", "alice@example.com")

	body := map[string]string{"token": "apns-token-1"}
	rr := ts.request(http.MethodPost, "/api/v1/devices", body, token)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var deviceResp response.Device
	err := json.Unmarshal(rr.Body.Bytes(), &deviceResp)
	require.NoError(t, err)
	assert.Equal(t, "apns-token-1", deviceResp.Token)

	// Same token again is idempotent
	rr = ts.request(http.MethodPost, "/api/v1/devices", body, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var deviceResp2 response.Device
	err = json.Unmarshal(rr.Body.Bytes(), &deviceResp2)
	require.NoError(t, err)
	assert.Equal(t, deviceResp.ID, deviceResp2.ID)

	// Unregister
	rr = ts.request(http.MethodDelete, "/api/v1/devices/apns-token-1", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

// Helper functions

func registerPlayer(t *testing.T, ts *testServer, name, email string) string {
	t.Helper()

	body := map[string]string{
		"name":          name,
		"email_address": email,
		"password":      "secret123",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp.SessionToken
}

func joinArena(t *testing.T, ts *testServer, token, arenaID string) {
	t.Helper()

	rr := ts.request(http.MethodPost, fmt.Sprintf("/api/v1/arenas/%s/players", arenaID), nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)
}

func requestMatch(t *testing.T, ts *testServer, token, arenaID string) string {
	t.Helper()

	rr := ts.request(http.MethodPost, fmt.Sprintf("/api/v1/arenas/%s/matches", arenaID), nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Match
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp.ID
}
