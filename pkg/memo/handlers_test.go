package memo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getmockd/recstore/pkg/server"
	"github.com/getmockd/recstore/pkg/stateful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status    string          `json:"status"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"error_code"`
	Details   json.RawMessage `json:"details"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	svc := NewService(stateful.NoopObserver{})
	return server.New(NewHandler(svc, nil)).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decodeMemo(t *testing.T, raw json.RawMessage) Memo {
	t.Helper()
	var m Memo
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestCreateMemo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMemo   Memo
	}{
		{"title and content", `{"title":"a","content":"b"}`, http.StatusCreated, Memo{ID: 1, Title: "a", Content: "b"}},
		{"content defaults to empty", `{"title":"a"}`, http.StatusCreated, Memo{ID: 1, Title: "a"}},
		{"missing title", `{"content":"b"}`, http.StatusBadRequest, Memo{}},
		{"empty title", `{"title":""}`, http.StatusBadRequest, Memo{}},
		{"non-string title", `{"title":5}`, http.StatusBadRequest, Memo{}},
		{"non-string content", `{"title":"a","content":5}`, http.StatusBadRequest, Memo{}},
		{"malformed body", `{"title":`, http.StatusBadRequest, Memo{}},
		{"no body", ``, http.StatusBadRequest, Memo{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestHandler(t)

			rec, env := do(t, h, http.MethodPost, "/memos", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "success", env.Status)
				assert.Equal(t, tt.wantMemo, decodeMemo(t, env.Data))
				return
			}
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestMemoLifecycle(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodPost, "/memos", `{"title":"first","content":"x"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeMemo(t, env.Data)

	rec, env = do(t, h, http.MethodGet, "/memos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decodeMemo(t, env.Data))

	rec, env = do(t, h, http.MethodPut, "/memos/1", `{"title":"second","content":"y"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Memo{ID: 1, Title: "second", Content: "y"}, decodeMemo(t, env.Data))

	rec, env = do(t, h, http.MethodPut, "/memos/1/title", `{"title":"third"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Memo{ID: 1, Title: "third", Content: "y"}, decodeMemo(t, env.Data))

	rec, env = do(t, h, http.MethodDelete, "/memos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Memo deleted.", env.Message)
	assert.JSONEq(t, `{"id":1}`, string(env.Data))

	rec, env = do(t, h, http.MethodGet, "/memos/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "MEMO_NOT_FOUND", env.ErrorCode)
	assert.Equal(t, "Memo not found", env.Message)
	assert.JSONEq(t, `{"id":1}`, string(env.Details))

	// Ids are never reused.
	_, env = do(t, h, http.MethodPost, "/memos", `{"title":"again"}`)
	assert.Equal(t, 2, decodeMemo(t, env.Data).ID)
}

func TestMemoNotFoundAndValidationOrder(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"get unknown", http.MethodGet, "/memos/42", "", http.StatusNotFound, "MEMO_NOT_FOUND"},
		{"delete unknown", http.MethodDelete, "/memos/42", "", http.StatusNotFound, "MEMO_NOT_FOUND"},
		{"valid update on unknown", http.MethodPut, "/memos/42", `{"title":"a"}`, http.StatusNotFound, "MEMO_NOT_FOUND"},
		{"invalid update on unknown", http.MethodPut, "/memos/42", `{"title":""}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid title update on unknown", http.MethodPut, "/memos/42/title", `{}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"valid title update on unknown", http.MethodPut, "/memos/42/title", `{"title":"a"}`, http.StatusNotFound, "MEMO_NOT_FOUND"},
		{"non-numeric id", http.MethodGet, "/memos/abc", "", http.StatusBadRequest, "INVALID_ID"},
		{"zero id", http.MethodDelete, "/memos/0", "", http.StatusBadRequest, "INVALID_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, tt.wantCode, env.ErrorCode)
		})
	}
}

func TestListAndDeleteAll(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodGet, "/memos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	for _, title := range []string{"a", "b", "c"} {
		rec, _ = do(t, h, http.MethodPost, "/memos", `{"title":"`+title+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	_, env = do(t, h, http.MethodGet, "/memos", "")
	var memos []Memo
	require.NoError(t, json.Unmarshal(env.Data, &memos))
	require.Len(t, memos, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{memos[0].Title, memos[1].Title, memos[2].Title})

	rec, _ = do(t, h, http.MethodDelete, "/memos", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	_, env = do(t, h, http.MethodGet, "/memos", "")
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestBulkCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantCreated int
		wantIndexes []int
	}{
		{"all valid", `{"memos":[{"title":"a"},{"title":"b","content":"c"}]}`, http.StatusCreated, 2, []int{}},
		{"mixed", `{"memos":[{"title":"a"},{"title":""},{"title":"c"}]}`, http.StatusMultiStatus, 2, []int{1}},
		{"all invalid", `{"memos":[{"content":"x"},"nope"]}`, http.StatusBadRequest, 0, []int{0, 1}},
		{"empty list", `{"memos":[]}`, http.StatusCreated, 0, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestHandler(t)

			rec, env := do(t, h, http.MethodPost, "/memos/bulk", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			payload := env.Data
			if tt.wantStatus == http.StatusBadRequest {
				assert.Equal(t, "error", env.Status)
				assert.Equal(t, "BULK_CREATE_FAILED", env.ErrorCode)
				payload = env.Details
			} else {
				assert.Equal(t, "success", env.Status)
			}

			var res bulkResult
			require.NoError(t, json.Unmarshal(payload, &res))
			assert.Len(t, res.Created, tt.wantCreated)
			require.NotNil(t, res.Errors)

			indexes := []int{}
			for _, e := range res.Errors {
				indexes = append(indexes, e.Index)
				assert.NotEmpty(t, e.Reason)
			}
			assert.Equal(t, tt.wantIndexes, indexes)

			_, listEnv := do(t, h, http.MethodGet, "/memos", "")
			var memos []Memo
			require.NoError(t, json.Unmarshal(listEnv.Data, &memos))
			assert.Len(t, memos, tt.wantCreated)
		})
	}
}

func TestBulkCreate_NotAList(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	for _, body := range []string{`{}`, `{"memos":{"title":"a"}}`, `[]`, ``} {
		rec, env := do(t, h, http.MethodPost, "/memos/bulk", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Field 'memos' must be a list.", env.Message)
		assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
	}
}

func TestTriggerError(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodGet, "/memos/error/trigger", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Internal server error", env.Message)
	assert.NotContains(t, rec.Body.String(), "trigger")
}

func TestSeed(t *testing.T) {
	t.Parallel()

	svc := NewService(nil)
	require.NoError(t, svc.Seed([]map[string]any{{"title": "a"}, {"title": "b", "content": "c"}}))
	assert.Len(t, svc.List(), 2)

	err := svc.Seed([]map[string]any{{"title": "ok"}, {"title": 3}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memo seed 1")
}
