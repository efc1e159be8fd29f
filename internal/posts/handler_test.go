package posts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-service/internal/shared/httpx"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	schema, err := NewSchema("")
	require.NoError(t, err)
	store := NewStore()
	Seed(store)
	h := NewHandler(NewService(schema, store, NopPublisher{}))

	mux := http.NewServeMux()
	mux.Handle("GET /posts", httpx.Wrap(h.List))
	mux.Handle("POST /posts", httpx.Wrap(h.Create))
	mux.Handle("PUT /posts/{id}", httpx.Wrap(h.Update))
	mux.Handle("DELETE /posts/{id}", httpx.Wrap(h.Delete))
	mux.Handle("GET /posts/search", httpx.Wrap(h.Search))

	srv := httptest.NewServer(httpx.CORS(mux))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func decodeList(t *testing.T, resp *http.Response) []Post {
	t.Helper()
	var out []Post
	decodeInto(t, resp, &out)
	return out
}

func decodeEnvelope(t *testing.T, resp *http.Response) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	decodeInto(t, resp, &env)
	return env
}

func TestHandlerCreate(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/posts",
		`{"title":"Third post","content":"This is the third post.","author":"John Doe","date":"2023-06-03"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out CreatePostResponse
	decodeInto(t, resp, &out)
	assert.Equal(t, uint64(3), out.Post.ID)
	assert.Equal(t, "Third post", out.Post.Title)
	assert.NotEmpty(t, out.CreatedAt)
}

func TestHandlerCreateValidationEnvelope(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/posts", `{"title":"Only title"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Equal(t, "Bad Request", env.ErrorText)
	assert.Equal(t, CodeMissingOrInvalidField, env.ErrorCode)
	assert.Equal(t, "Validation failed.", env.Message)
	assert.Equal(t, "/posts", env.Path)
	require.Len(t, env.Details, 3)
	assert.Contains(t, env.Details[0], "content")
}

func TestHandlerCreateMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/posts", `{"title": 42}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, CodeMalformedBody, env.ErrorCode)
}

func TestHandlerList(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/posts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeList(t, resp)
	require.Len(t, out, 2)
	assert.Equal(t, "First post", out[0].Title)
	assert.Equal(t, "Second post", out[1].Title)
}

func TestHandlerListSorted(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/posts?sort=title&direction=desc", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeList(t, resp)
	require.Len(t, out, 2)
	assert.Equal(t, "Second post", out[0].Title)
}

func TestHandlerListInvalidDirection(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/posts?sort=title&direction=up", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, CodeInvalidSortDirection, env.ErrorCode)
	assert.Contains(t, env.Details[0], "[up]")
}

func TestHandlerListLoneSortParam(t *testing.T) {
	srv := newTestServer(t)

	for _, query := range []string{"?sort=title", "?direction=asc", "?sort="} {
		resp := do(t, http.MethodGet, srv.URL+"/posts"+query, "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %s", query)
		env := decodeEnvelope(t, resp)
		assert.Equal(t, CodeInvalidSortParams, env.ErrorCode, "query %s", query)
	}
}

func TestHandlerUpdate(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPut, srv.URL+"/posts/2", `{"content":"Edited."}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out Post
	decodeInto(t, resp, &out)
	assert.Equal(t, uint64(2), out.ID)
	assert.Equal(t, "Second post", out.Title)
	assert.Equal(t, "Edited.", out.Content)
}

func TestHandlerUpdateNotFoundEnvelope(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPut, srv.URL+"/posts/99", `{"title":"x"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Equal(t, "Not Found", env.ErrorText)
	assert.Equal(t, "RESOURCE_NOT_FOUND", env.ErrorCode)
	assert.Equal(t, "The requested resource could not be found.", env.Message)
	require.Len(t, env.Details, 1)
	assert.Equal(t, "No records match the provided ID 99.", env.Details[0])
	assert.Equal(t, "/posts/99", env.Path)
}

func TestHandlerNonNumericID(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodDelete, srv.URL+"/posts/abc", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, CodeInvalidPostID, env.ErrorCode)
}

func TestHandlerDeleteTwice(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodDelete, srv.URL+"/posts/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var removed Post
	decodeInto(t, resp, &removed)
	assert.Equal(t, "First post", removed.Title)

	resp = do(t, http.MethodDelete, srv.URL+"/posts/1", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestHandlerSearch(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/posts/search?title=First", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeList(t, resp)
	require.Len(t, out, 1)
	assert.Equal(t, "First post", out[0].Title)
}

func TestHandlerSearchNoCriteria(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/posts/search", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeList(t, resp)
	assert.Empty(t, out)
}

func TestHandlerSearchConjunction(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/posts/search?title=post&content=first", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeList(t, resp)
	require.Len(t, out, 1)
	assert.Equal(t, "First post", out[0].Title)
}

func TestHandlerCORSHeaders(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/posts", "")
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = do(t, http.MethodOptions, srv.URL+"/posts", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
