package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	brannigan "github.com/ido50/Brannigan"
	"github.com/ido50/Brannigan/middleware"
)

func newEngine() *brannigan.Brannigan {
	return brannigan.New(&brannigan.Schema{
		Name: "post",
		Params: map[string]*brannigan.FieldSpec{
			"subject": {Rules: brannigan.Rules{
				"required":       nil,
				"length_between": {3, 40},
			}},
		},
	})
}

func serve(t *testing.T, body string) (*httptest.ResponseRecorder, *brannigan.Result) {
	t.Helper()
	var got *brannigan.Result
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if res, ok := middleware.ResultFromContext(r.Context()); ok {
			got = &res
		}
		w.WriteHeader(http.StatusOK)
	})
	h := middleware.Process(newEngine(), "post", next)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body)))
	return rec, got
}

func TestProcess_CleanBodyReachesHandler(t *testing.T) {
	rec, got := serve(t, `{"subject": "a fine day"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got, "handler should see the processed result")
	assert.Equal(t, "a fine day", got.Output["subject"])
}

func TestProcess_RejectsReturn422(t *testing.T) {
	rec, got := serve(t, `{"subject": "ab"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Nil(t, got, "handler must not run on rejects")

	var payload struct {
		Rejects map[string][]struct {
			Rule string `json:"rule"`
		} `json:"rejects"`
		Messages map[string][]string `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Rejects["subject"], 1)
	assert.Equal(t, "length_between", payload.Rejects["subject"][0].Rule)
	require.Len(t, payload.Messages["subject"], 1)
	assert.Equal(t, "length must be between 3 and 40", payload.Messages["subject"][0])
}

func TestProcess_NonObjectBodyReturns400(t *testing.T) {
	for _, body := range []string{`[1, 2]`, `"nope"`, `{broken`} {
		rec, got := serve(t, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Nil(t, got)
	}
}

func TestProcess_UnknownSchemaReturns400(t *testing.T) {
	h := middleware.Process(newEngine(), "no_such_schema", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
