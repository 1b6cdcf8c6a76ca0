package inventory

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
	h := NewHandler(NewItemService(stateful.NoopObserver{}), NewUserService(stateful.NoopObserver{}), nil)
	return server.New(h).Handler()
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

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func ptr[T any](v T) *T { return &v }

func TestIndex(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API Server is running", env.Message)

	data := decode[map[string]json.RawMessage](t, env.Data)
	assert.Contains(t, data, "endpoints")
	assert.Contains(t, data, "docs")

	rec, env = do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ROUTE_NOT_FOUND", env.ErrorCode)
}

func TestItemLifecycle(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodPost, "/items", `{"name":"Book","price":19.99}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Item created successfully", env.Message)
	assert.JSONEq(t, `{"id":1,"name":"Book","description":null,"price":19.99,"quantity":1}`, string(env.Data))
	created := env.Data

	rec, env = do(t, h, http.MethodGet, "/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item retrieved successfully", env.Message)
	assert.JSONEq(t, string(created), string(env.Data))

	rec, env = do(t, h, http.MethodDelete, "/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item deleted successfully", env.Message)
	assert.JSONEq(t, string(created), string(env.Data))

	rec, env = do(t, h, http.MethodGet, "/items/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ITEM_NOT_FOUND", env.ErrorCode)
	assert.Equal(t, "Item not found", env.Message)
}

func TestCreateItem_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"price":1}`},
		{"missing price", `{"name":"a"}`},
		{"string price", `{"name":"a","price":"1"}`},
		{"fractional quantity", `{"name":"a","price":1,"quantity":1.5}`},
		{"numeric description", `{"name":"a","price":1,"description":3}`},
		{"no body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := do(t, newTestHandler(t), http.MethodPost, "/items", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
			assert.Equal(t, msgInvalidItem, env.Message)
		})
	}
}

func TestUpdateItem(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec, _ := do(t, h, http.MethodPost, "/items", `{"name":"Lamp","description":"desk","price":30,"quantity":4}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, h, http.MethodPut, "/items/1", `{"price":25.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item updated successfully", env.Message)
	assert.Equal(t, Item{ID: 1, Name: "Lamp", Description: ptr("desk"), Price: 25.5, Quantity: 4}, decode[Item](t, env.Data))

	_, env = do(t, h, http.MethodPut, "/items/1", `{"description":null}`)
	assert.Equal(t, Item{ID: 1, Name: "Lamp", Price: 25.5, Quantity: 4}, decode[Item](t, env.Data))

	rec, env = do(t, h, http.MethodPut, "/items/1", `{"name":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidItemPatch, env.Message)

	rec, env = do(t, h, http.MethodPut, "/items/9", `{"price":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ITEM_NOT_FOUND", env.ErrorCode)

	rec, env = do(t, h, http.MethodPut, "/items/9", `{"price":"cheap"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "validation runs before lookup")
	assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
}

func TestUpdateStock(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	_, env := do(t, h, http.MethodPost, "/items", `{"name":"Pen","description":"blue","price":2.5,"quantity":3}`)
	before := decode[Item](t, env.Data)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantQty    int
	}{
		{"query", "/items/1/stock?quantity=10", "", http.StatusOK, 10},
		{"body", "/items/1/stock", `{"quantity":7}`, http.StatusOK, 7},
		{"query wins over body", "/items/1/stock?quantity=2", `{"quantity":99}`, http.StatusOK, 2},
		{"missing", "/items/1/stock", "", http.StatusBadRequest, 0},
		{"non-integer query", "/items/1/stock?quantity=lots", "", http.StatusBadRequest, 0},
		{"unknown item", "/items/5/stock?quantity=1", "", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPut, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, "Stock updated successfully", env.Message)
			got := decode[Item](t, env.Data)
			want := before
			want.Quantity = tt.wantQty
			assert.Equal(t, want, got, "only quantity changes")
		})
	}
}

func TestItemsBulk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantCount   int
		wantIndexes []int
	}{
		{"all valid", `[{"name":"a","price":1},{"name":"b","price":2}]`, http.StatusCreated, 2, nil},
		{"mixed", `[{"name":"a","price":1},{"name":"b"},{"name":"c","price":3}]`, http.StatusMultiStatus, 2, []int{1}},
		{"all invalid", `[{"price":1},"x"]`, http.StatusBadRequest, 0, []int{0, 1}},
		{"empty", `[]`, http.StatusCreated, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := do(t, newTestHandler(t), http.MethodPost, "/items/bulk", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			raw := env.Data
			if tt.wantStatus == http.StatusBadRequest {
				assert.Equal(t, "BULK_CREATE_FAILED", env.ErrorCode)
				assert.Equal(t, "No items were created.", env.Message)
				raw = env.Details
			}
			res := decode[itemBulkResult](t, raw)
			assert.Len(t, res.Items, tt.wantCount)
			assert.Equal(t, tt.wantCount, res.Count)
			require.NotNil(t, res.Errors)
			indexes := make([]int, 0, len(res.Errors))
			for _, e := range res.Errors {
				indexes = append(indexes, e.Index)
				assert.NotEmpty(t, e.Reason)
			}
			if tt.wantIndexes == nil {
				assert.Empty(t, indexes)
			} else {
				assert.Equal(t, tt.wantIndexes, indexes)
			}
		})
	}

	t.Run("not an array", func(t *testing.T) {
		t.Parallel()
		rec, env := do(t, newTestHandler(t), http.MethodPost, "/items/bulk", `{"name":"a","price":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
	})
}

func TestDeleteAllItems(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	for range 3 {
		rec, _ := do(t, h, http.MethodPost, "/items", `{"name":"a","price":1}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	_, env := do(t, h, http.MethodGet, "/items", "")
	assert.Equal(t, "Retrieved 3 items", env.Message)
	assert.Equal(t, 3, decode[itemList](t, env.Data).Total)

	rec, env := do(t, h, http.MethodDelete, "/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3 items deleted successfully", env.Message)
	assert.JSONEq(t, `{"deleted_count":3}`, string(env.Data))

	_, env = do(t, h, http.MethodGet, "/items", "")
	assert.JSONEq(t, `{"items":[],"total":0}`, string(env.Data))

	_, env = do(t, h, http.MethodPost, "/items", `{"name":"a","price":1}`)
	assert.Equal(t, 4, decode[Item](t, env.Data).ID, "ids survive a clear")
}

func TestUserLifecycle(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodPost, "/users", `{"username":"ana","email":"ana@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User created successfully", env.Message)
	assert.JSONEq(t, `{"id":1,"username":"ana","email":"ana@example.com","phone":null,"is_active":true}`, string(env.Data))

	rec, env = do(t, h, http.MethodPut, "/users/1", `{"phone":"555-0100"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User updated successfully", env.Message)
	assert.Equal(t, User{ID: 1, Username: "ana", Email: "ana@example.com", Phone: ptr("555-0100"), IsActive: true}, decode[User](t, env.Data))

	rec, env = do(t, h, http.MethodPut, "/users/1/status?is_active=false", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User status changed to false", env.Message)
	assert.False(t, decode[User](t, env.Data).IsActive)

	rec, env = do(t, h, http.MethodPut, "/users/1/status", `{"is_active":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User status changed to true", env.Message)

	rec, env = do(t, h, http.MethodPut, "/users/1/status?is_active=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidStatus, env.Message)

	rec, env = do(t, h, http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User retrieved successfully", env.Message)

	rec, env = do(t, h, http.MethodDelete, "/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted successfully", env.Message)
	assert.Equal(t, "ana", decode[User](t, env.Data).Username)

	rec, env = do(t, h, http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", env.ErrorCode)
}

func TestCreateUser_Duplicate(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec, _ := do(t, h, http.MethodPost, "/users", `{"username":"bo","email":"a@x"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, h, http.MethodPost, "/users", `{"username":"bo","email":"b@x","is_active":false}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "USERNAME_EXISTS", env.ErrorCode)
	assert.Equal(t, "Username already exists", env.Message)
	assert.JSONEq(t, `{"username":"bo"}`, string(env.Details))

	_, env = do(t, h, http.MethodGet, "/users", "")
	assert.Equal(t, 1, decode[userList](t, env.Data).Total, "no second record")

	// Renaming onto a taken username is not rechecked.
	rec, _ = do(t, h, http.MethodPost, "/users", `{"username":"cy","email":"c@x"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = do(t, h, http.MethodPut, "/users/2", `{"username":"bo"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsersBatch(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec, _ := do(t, h, http.MethodPost, "/users", `{"username":"taken","email":"t@x"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, h, http.MethodPost, "/users/batch", `[
		{"username":"new","email":"n@x"},
		{"username":"taken","email":"t2@x"},
		{"username":"new","email":"n2@x"},
		{"email":"missing@x"},
		{"username":"other","email":"o@x","is_active":false}
	]`)
	require.Equal(t, http.StatusMultiStatus, rec.Code)
	assert.Equal(t, "2 users created", env.Message)

	res := decode[userBatchResult](t, env.Data)
	assert.Equal(t, 2, res.TotalCreated)
	assert.Equal(t, 3, res.TotalFailed)
	require.Len(t, res.Created, 2)
	assert.Equal(t, "new", res.Created[0].Username)
	assert.False(t, res.Created[1].IsActive)

	require.Len(t, res.Failed, 3)
	assert.Equal(t, userBatchFailed{Index: 1, Username: ptr("taken"), Reason: "Username already exists"}, res.Failed[0])
	assert.Equal(t, userBatchFailed{Index: 2, Username: ptr("new"), Reason: "Username already exists"}, res.Failed[1])
	assert.Equal(t, 3, res.Failed[2].Index)
	assert.Nil(t, res.Failed[2].Username)
	assert.Equal(t, msgInvalidUser, res.Failed[2].Reason)

	rec, env = do(t, h, http.MethodPost, "/users/batch", `[{"username":"taken","email":"x"}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BULK_CREATE_FAILED", env.ErrorCode)
	assert.Equal(t, "No users were created.", env.Message)
	assert.Equal(t, 1, decode[userBatchResult](t, env.Details).TotalFailed)

	rec, env = do(t, h, http.MethodPost, "/users/batch", `[]`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"created":[],"failed":[],"total_created":0,"total_failed":0}`, string(env.Data))

	rec, env = do(t, h, http.MethodPost, "/users/batch", `{"users":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
}

func TestDeleteAllUsers(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodDelete, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0 users deleted successfully", env.Message)

	do(t, h, http.MethodPost, "/users", `{"username":"a","email":"a@x"}`)
	do(t, h, http.MethodPost, "/users", `{"username":"b","email":"b@x"}`)

	_, env = do(t, h, http.MethodDelete, "/users", "")
	assert.JSONEq(t, `{"deleted_count":2}`, string(env.Data))

	_, env = do(t, h, http.MethodGet, "/users", "")
	assert.Equal(t, "Retrieved 0 users", env.Message)
	assert.JSONEq(t, `{"users":[],"total":0}`, string(env.Data))
}

func TestErrorTriggers(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	tests := []struct {
		path        string
		wantCode    string
		wantMessage string
		wantDetails string
	}{
		{"/items/error/trigger", "INTERNAL_SERVER_ERROR", "Internal server error occurred", `{"reason":"Test error for demonstration"}`},
		{"/users/error/trigger", "DATABASE_ERROR", "Database connection failed", `{"reason":"Connection timeout"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, env := do(t, h, http.MethodGet, tt.path, "")
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.wantCode, env.ErrorCode)
			assert.Equal(t, tt.wantMessage, env.Message)
			assert.JSONEq(t, tt.wantDetails, string(env.Details))
		})
	}
}

func TestInvalidIDs(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	for _, path := range []string{"/items/abc", "/items/0", "/users/-1", "/users/x/status"} {
		rec, env := do(t, h, http.MethodPut, path, `{"is_active":true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "INVALID_ID", env.ErrorCode, path)
	}
}

func TestSeed(t *testing.T) {
	t.Parallel()

	items := NewItemService(nil)
	require.NoError(t, items.Seed([]map[string]any{
		{"name": "Book", "price": 19.99},
		{"name": "Mug", "price": 8, "quantity": 12},
	}))
	got, err := items.Get(2)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Quantity)

	err = items.Seed([]map[string]any{{"name": "no price"}})
	assert.ErrorContains(t, err, "item seed 0")

	users := NewUserService(nil)
	require.NoError(t, users.Seed([]map[string]any{{"username": "a", "email": "a@x"}}))
	err = users.Seed([]map[string]any{{"username": "b", "email": "b@x"}, {"username": "a", "email": "c@x"}})
	var conflict *stateful.ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.ErrorContains(t, err, "user seed 1")
	assert.Len(t, users.List(), 2)
}
