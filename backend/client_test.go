package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL + "/")
	c.SetToken("tok")
	return c
}

func TestCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/database/categories/", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"cat_id":3,"cat_color_id":"color3","cat_title":"Health","cat_description":"Fitness","cat_background":"#CCFFCC","cat_foreground":"#000000","cat_active":true,"cat_event_prefix":"[H]","cat_examples":["Gym"]}]`)
	})

	cats, err := c.Categories(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, ID("3"), cats[0].ID)
	assert.Equal(t, "Health", cats[0].Title)
	assert.Equal(t, []string{"Gym"}, cats[0].Examples)
	assert.True(t, cats[0].Active)
}

func TestUpdateCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "7", r.URL.Query().Get("categoryId"))

		var body struct {
			CategoryID string   `json:"categoryId"`
			Token      string   `json:"token"`
			Category   Category `json:"category"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "7", body.CategoryID)
		assert.Equal(t, "tok", body.Token)
		assert.Equal(t, "Focus", body.Category.Title)

		io.WriteString(w, `{}`)
	})

	err := c.UpdateCategory(context.Background(), Category{ID: "7", Title: "Focus"})
	require.NoError(t, err)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"Conversation not found"}`)
	})

	err := c.DeleteConversation(context.Background(), "42")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Conversation not found", apiErr.Message)
	assert.False(t, IsUnauthorized(err))
}

func TestUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Conversations(context.Background())
	assert.True(t, IsUnauthorized(err))
}

func TestNoTokenSendsNothing(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	c.SetToken("")

	_, err := c.Categories(context.Background(), false)
	assert.True(t, errors.Is(err, ErrNotAuthenticated))
	assert.True(t, IsUnauthorized(err))
	assert.False(t, called)
}

func TestConversationsHidesDeleted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/database/conversations/":
			io.WriteString(w, `[{"c_id":1,"c_name":"Trip","c_created_at":"2024-05-10T09:00:00.123456Z","c_deleted":false},{"c_id":2,"c_name":"Old","c_deleted":true},{"c_id":3,"c_name":""}]`)
		case "/database/conversations/search/":
			assert.Equal(t, "dentist", r.URL.Query().Get("search_query"))
			io.WriteString(w, `[{"c_id":"9","c_name":"Teeth","headline":"book the <b>dentist</b>"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	list, err := c.Conversations(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ID("1"), list[0].ID)
	assert.Equal(t, 2024, list[0].Created().Year())
	assert.Equal(t, "Untitled conversation", list[1].Title())

	found, err := c.SearchConversations(context.Background(), "dentist")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ID("9"), found[0].ID)
	assert.Contains(t, found[0].Headline, "<b>dentist</b>")
}

func TestDeleteConversationSendsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "5", r.URL.Query().Get("conversationId"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"token":"tok"}`, string(body))
	})

	require.NoError(t, c.DeleteConversation(context.Background(), "5"))
}

func TestStartConversation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agent/", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "[TEXT]: lunch with Sam\n", body["userPrompt"])
		assert.Equal(t, "dev-1", body["deviceId"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"conversationId": 12}`)
	})

	id, err := c.StartConversation(context.Background(), FormatPrompt("lunch with Sam", ""), "", "dev-1")
	require.NoError(t, err)
	assert.Equal(t, ID("12"), id)
}

func TestSendMessageWithImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	path := filepath.Join(t.TempDir(), "flyer.png")
	require.NoError(t, os.WriteFile(path, png, 0600))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ai/message/", r.URL.Path)
		var body struct {
			UserPrompt     string   `json:"userPrompt"`
			Token          string   `json:"token"`
			Images         []string `json:"images"`
			ConversationID string   `json:"conversationId"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tok", body.Token)
		assert.Equal(t, "12", body.ConversationID)
		require.Len(t, body.Images, 1)
		assert.True(t, strings.HasPrefix(body.Images[0], "data:image/png;base64,"))
	})

	err := c.SendMessage(context.Background(), MessageRequest{ConversationID: "12", Prompt: "what is this", ImagePaths: []string{path}})
	require.NoError(t, err)
}

func TestEncodeImageRejectsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain words"), 0600))

	_, err := EncodeImage(path)
	assert.Error(t, err)
}

func TestFormatPrompt(t *testing.T) {
	assert.Equal(t, "[TEXT]: hi\n", FormatPrompt(" hi ", ""))
	assert.Equal(t, "[TEXT]: hi\n[AUDIO]: hello there\n", FormatPrompt("hi", "hello there"))
}

func TestExchangeAuth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var tokens OAuthTokens
		require.NoError(t, json.NewDecoder(r.Body).Decode(&tokens))
		assert.Equal(t, "refresh", tokens.RefreshToken)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":"Google Authentication tokens saved successfully"}`)
	})
	c.SetToken("")

	token, err := c.ExchangeAuth(context.Background(), OAuthTokens{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 3600, TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, "access", token)

	_, err = c.ExchangeAuth(context.Background(), OAuthTokens{})
	assert.Error(t, err)
}

func TestBriefsPartialFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/database/briefs/tasks/":
			io.WriteString(w, `{"taskBrief":"3 tasks due"}`)
		case "/database/briefs/events/":
			w.WriteHeader(http.StatusInternalServerError)
		case "/database/briefs/news/":
			io.WriteString(w, `{"newsBrief":"Quiet day"}`)
		}
	})

	briefs, err := c.Briefs(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "3 tasks due", briefs.Tasks)
	assert.Equal(t, "", briefs.Events)
	assert.Equal(t, "Quiet day", briefs.News)
}

func TestCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Conversations(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
