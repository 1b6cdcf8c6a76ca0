package inventory

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/getmockd/recstore/pkg/bulk"
	"github.com/getmockd/recstore/pkg/httputil"
	"github.com/getmockd/recstore/pkg/logging"
	"github.com/getmockd/recstore/pkg/validation"
)

// Handler binds the item and user routes to their services.
type Handler struct {
	items *ItemService
	users *UserService
	log   *slog.Logger
}

// NewHandler creates a handler. A nil logger discards output.
func NewHandler(items *ItemService, users *UserService, log *slog.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{items: items, users: users, log: log}
}

// Name implements server.Surface.
func (h *Handler) Name() string { return "inventory" }

// Register implements server.Surface.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)

	mux.HandleFunc("POST /items", h.handleCreateItem)
	mux.HandleFunc("POST /items/bulk", h.handleCreateItems)
	mux.HandleFunc("GET /items", h.handleListItems)
	mux.HandleFunc("GET /items/{id}", h.handleGetItem)
	mux.HandleFunc("PUT /items/{id}", h.handleUpdateItem)
	mux.HandleFunc("PUT /items/{id}/stock", h.handleUpdateStock)
	mux.HandleFunc("DELETE /items/{id}", h.handleDeleteItem)
	mux.HandleFunc("DELETE /items", h.handleDeleteItems)
	mux.HandleFunc("GET /items/error/trigger", h.handleItemError)

	mux.HandleFunc("POST /users", h.handleCreateUser)
	mux.HandleFunc("POST /users/batch", h.handleCreateUsers)
	mux.HandleFunc("GET /users", h.handleListUsers)
	mux.HandleFunc("GET /users/{id}", h.handleGetUser)
	mux.HandleFunc("PUT /users/{id}", h.handleUpdateUser)
	mux.HandleFunc("PUT /users/{id}/status", h.handleUpdateStatus)
	mux.HandleFunc("DELETE /users/{id}", h.handleDeleteUser)
	mux.HandleFunc("DELETE /users", h.handleDeleteUsers)
	mux.HandleFunc("GET /users/error/trigger", h.handleUserError)
}

type endpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

var endpointIndex = map[string][]endpoint{
	"items": {
		{http.MethodPost, "/items"},
		{http.MethodPost, "/items/bulk"},
		{http.MethodGet, "/items"},
		{http.MethodGet, "/items/{id}"},
		{http.MethodPut, "/items/{id}"},
		{http.MethodPut, "/items/{id}/stock"},
		{http.MethodDelete, "/items/{id}"},
		{http.MethodDelete, "/items"},
	},
	"users": {
		{http.MethodPost, "/users"},
		{http.MethodPost, "/users/batch"},
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/{id}"},
		{http.MethodPut, "/users/{id}"},
		{http.MethodPut, "/users/{id}/status"},
		{http.MethodDelete, "/users/{id}"},
		{http.MethodDelete, "/users"},
	},
}

func (h *Handler) handleIndex(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]any{
		"endpoints": endpointIndex,
		"docs": map[string]string{
			"openapi": "/openapi.json",
			"health":  "/health",
			"metrics": "/metrics",
		},
	}, "API Server is running")
}

// parseID reads the {id} path value, writing the error response on failure.
func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := validation.ParseID(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return 0, false
	}
	return id, true
}

// decodeList reads a JSON array body. Any other shape is a validation error.
func decodeList(r *http.Request, msg string) ([]any, error) {
	v, err := httputil.DecodeValue(r)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, validation.NewError(msg)
	}
	return list, nil
}

// ---- items ----

type itemList struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

type itemBulkResult struct {
	Items  []Item          `json:"items"`
	Count  int             `json:"count"`
	Errors []itemBulkError `json:"errors"`
}

type itemBulkError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type deleted struct {
	DeletedCount int `json:"deleted_count"`
}

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.DecodeObject(r)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	it, err := h.items.Create(body)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteCreated(w, it, "Item created successfully")
}

func (h *Handler) handleCreateItems(w http.ResponseWriter, r *http.Request) {
	candidates, err := decodeList(r, msgItemsNotAList)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}

	res := h.items.CreateBulk(candidates)
	out := itemBulkResult{
		Items:  res.Created,
		Count:  len(res.Created),
		Errors: make([]itemBulkError, 0, len(res.Failures)),
	}
	for _, f := range res.Failures {
		out.Errors = append(out.Errors, itemBulkError{Index: f.Index, Reason: f.Reason})
	}

	if res.Failed() {
		httputil.WriteFailure(w, res.Status(), bulk.CodeFailed, "No items were created.", out)
		return
	}
	httputil.WriteSuccess(w, res.Status(), out, fmt.Sprintf("%d items created successfully", out.Count))
}

func (h *Handler) handleListItems(w http.ResponseWriter, _ *http.Request) {
	items := h.items.List()
	httputil.WriteOK(w, itemList{Items: items, Total: len(items)},
		fmt.Sprintf("Retrieved %d items", len(items)))
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	it, err := h.items.Get(id)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteOK(w, it, "Item retrieved successfully")
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	body, err := httputil.DecodeObject(r)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	it, err := h.items.Update(id, body)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteOK(w, it, "Item updated successfully")
}

// handleUpdateStock takes quantity from the query string, falling back to
// the JSON body.
func (h *Handler) handleUpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	body, err := httputil.DecodeObject(r)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			body = map[string]any{"quantity": float64(n)}
		} else {
			body = map[string]any{"quantity": raw}
		}
	}
	it, err := h.items.UpdateStock(id, body)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteOK(w, it, "Stock updated successfully")
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	it, err := h.items.Delete(id)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteOK(w, it, "Item deleted successfully")
}

func (h *Handler) handleDeleteItems(w http.ResponseWriter, _ *http.Request) {
	n := h.items.DeleteAll()
	h.log.Info("items cleared", "count", n)
	httputil.WriteOK(w, deleted{DeletedCount: n}, fmt.Sprintf("%d items deleted successfully", n))
}

func (h *Handler) handleItemError(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteError(w, h.log,
		httputil.NewAPIError(http.StatusInternalServerError, httputil.CodeInternal, "Internal server error occurred").
			WithDetails(map[string]string{"reason": "Test error for demonstration"}))
}

// ---- users ----

type userList struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

type userBatchResult struct {
	Created      []User            `json:"created"`
	Failed       []userBatchFailed `json:"failed"`
	TotalCreated int               `json:"total_created"`
	TotalFailed  int               `json:"total_failed"`
}

type userBatchFailed struct {
	Index    int     `json:"index"`
	Username *string `json:"username"`
	Reason   string  `json:"reason"`
}

// candidateUsername returns the candidate's username when it has a string one.
func candidateUsername(c any) *string {
	m, ok := c.(map[string]any)
	if !ok {
		return nil
	}
	s, ok := m["username"].(string)
	if !ok {
		return nil
	}
	return &s
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.DecodeObject(r)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	u, err := h.users.Create(body)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteCreated(w, u, "User created successfully")
}

func (h *Handler) handleCreateUsers(w http.ResponseWriter, r *http.Request) {
	candidates, err := decodeList(r, msgUsersNotAList)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}

	res := h.users.CreateBulk(candidates)
	out := userBatchResult{
		Created:      res.Created,
		Failed:       make([]userBatchFailed, 0, len(res.Failures)),
		TotalCreated: len(res.Created),
		TotalFailed:  len(res.Failures),
	}
	for _, f := range res.Failures {
		out.Failed = append(out.Failed, userBatchFailed{
			Index:    f.Index,
			Username: candidateUsername(f.Candidate),
			Reason:   f.Reason,
		})
	}

	if res.Failed() {
		httputil.WriteFailure(w, res.Status(), bulk.CodeFailed, "No users were created.", out)
		return
	}
	httputil.WriteSuccess(w, res.Status(), out, fmt.Sprintf("%d users created", out.TotalCreated))
}

func (h *Handler) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	users := h.users.List()
	httputil.WriteOK(w, userList{Users: users, Total: len(users)},
		fmt.Sprintf("Retrieved %d users", len(users)))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	u, err := h.users.Get(id)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteOK(w, u, "User retrieved successfully")
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	body, err := httputil.DecodeObject(r)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	u, err := h.users.Update(id, body)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteOK(w, u, "User updated successfully")
}

// handleUpdateStatus takes is_active from the query string, falling back to
// the JSON body.
func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	body, err := httputil.DecodeObject(r)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			body = map[string]any{"is_active": b}
		} else {
			body = map[string]any{"is_active": raw}
		}
	}
	u, err := h.users.UpdateStatus(id, body)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteOK(w, u, fmt.Sprintf("User status changed to %t", u.IsActive))
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	u, err := h.users.Delete(id)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteOK(w, u, "User deleted successfully")
}

func (h *Handler) handleDeleteUsers(w http.ResponseWriter, _ *http.Request) {
	n := h.users.DeleteAll()
	h.log.Info("users cleared", "count", n)
	httputil.WriteOK(w, deleted{DeletedCount: n}, fmt.Sprintf("%d users deleted successfully", n))
}

func (h *Handler) handleUserError(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteError(w, h.log,
		httputil.NewAPIError(http.StatusInternalServerError, "DATABASE_ERROR", "Database connection failed").
			WithDetails(map[string]string{"reason": "Connection timeout"}))
}
