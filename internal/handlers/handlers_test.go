package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/plarkin/chatline/internal/auth"
	"github.com/plarkin/chatline/internal/chat"
	"github.com/plarkin/chatline/internal/middleware"
	"github.com/plarkin/chatline/internal/models"
	"github.com/plarkin/chatline/internal/store/sqlstore"
	"github.com/plarkin/chatline/internal/ws"
)

type testEnv struct {
	store    *sqlstore.SQLStore
	service  *chat.Service
	sessions *auth.MemorySessions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := sqlstore.New("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return &testEnv{
		store:    st,
		service:  chat.NewService(st, ws.NewRegistry()),
		sessions: auth.NewMemorySessions(),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) {
	t.Helper()
	if err := e.store.CreateUser(&models.User{Username: username, Password: "hash"}); err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
}

// authedRequest builds a request that looks like it already passed the auth
// middleware, with chat id path vars where needed.
func authedRequest(method, target, username, body string, chatID int64) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UsernameKey, username)
	req = req.WithContext(ctx)
	if chatID != 0 {
		req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(chatID, 10)})
	}
	return req
}
