package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/gqlmock/pkg/graphql"
	"github.com/getmockd/gqlmock/pkg/mock"
)

const handlerSDL = `
type Query {
	hello: String!
	user(id: ID!): User!
}

type User {
	id: ID!
	name: String!
}
`

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	schema, err := graphql.ParseSchema(handlerSDL)
	require.NoError(t, err)

	set, err := mock.Install(schema, nil)
	require.NoError(t, err)

	return NewHandler(graphql.NewExecutor(schema, set), nil)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) *graphql.Response {
	t.Helper()
	var resp graphql.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return &resp
}

func TestHandlerPostJSON(t *testing.T) {
	h := newTestHandler(t)

	body, _ := json.Marshal(graphql.Request{Query: `{ hello }`})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeResponse(t, rec)
	require.Empty(t, resp.Errors)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Hello", data["hello"])
}

func TestHandlerPostGraphQLBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{ hello }`))
	req.Header.Set("Content-Type", "application/graphql")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	resp := decodeResponse(t, rec)
	require.Empty(t, resp.Errors)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Hello", data["hello"])
}

func TestHandlerGet(t *testing.T) {
	h := newTestHandler(t)

	vars, _ := json.Marshal(map[string]interface{}{"id": "u-1"})
	target := "/graphql?query=" + url.QueryEscape(`query($id: ID!) { user(id: $id) { name } }`) +
		"&variables=" + url.QueryEscape(string(vars))
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Empty(t, resp.Errors)
	user := resp.Data.(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "Hello", user["name"])
}

func TestHandlerGetInvalidVariables(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/graphql?query=%7Bhello%7D&variables=notjson", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "variables")
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/graphql", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerOptions(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerEmptyBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "empty request body")
}

func TestHandlerInvalidJSON(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerQueryError(t *testing.T) {
	h := newTestHandler(t)

	body, _ := json.Marshal(graphql.Request{Query: `{ nonexistent }`})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	// GraphQL errors still return 200 with an errors array.
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.NotEmpty(t, resp.Errors)
}
