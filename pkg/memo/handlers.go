package memo

import (
	"log/slog"
	"net/http"

	"github.com/getmockd/recstore/pkg/bulk"
	"github.com/getmockd/recstore/pkg/httputil"
	"github.com/getmockd/recstore/pkg/logging"
	"github.com/getmockd/recstore/pkg/validation"
)

// Handler binds the memo routes to a Service.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler creates a handler. A nil logger discards output.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{svc: svc, log: log}
}

// Name implements server.Surface.
func (h *Handler) Name() string { return "memo" }

// Register implements server.Surface.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /memos", h.handleCreate)
	mux.HandleFunc("POST /memos/bulk", h.handleCreateBulk)
	mux.HandleFunc("GET /memos", h.handleList)
	mux.HandleFunc("GET /memos/{id}", h.handleGet)
	mux.HandleFunc("PUT /memos/{id}", h.handleUpdate)
	mux.HandleFunc("PUT /memos/{id}/title", h.handleUpdateTitle)
	mux.HandleFunc("DELETE /memos/{id}", h.handleDelete)
	mux.HandleFunc("DELETE /memos", h.handleDeleteAll)
	mux.HandleFunc("GET /memos/error/trigger", h.handleTriggerError)
}

// bulkResult is the data of POST /memos/bulk.
type bulkResult struct {
	Created []Memo      `json:"created"`
	Errors  []bulkError `json:"errors"`
}

type bulkError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.DecodeObject(r)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	m, err := h.svc.Create(body)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteCreated(w, m, "")
}

func (h *Handler) handleCreateBulk(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.DecodeObject(r)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	candidates, ok := body["memos"].([]any)
	if !ok {
		httputil.WriteError(w, h.log, validation.NewError(msgNotAList))
		return
	}

	res := h.svc.CreateBulk(candidates)
	out := bulkResult{Created: res.Created, Errors: make([]bulkError, 0, len(res.Failures))}
	for _, f := range res.Failures {
		out.Errors = append(out.Errors, bulkError{Index: f.Index, Reason: f.Reason})
	}

	if res.Failed() {
		httputil.WriteFailure(w, res.Status(), bulk.CodeFailed, "No memos were created.", out)
		return
	}
	httputil.WriteSuccess(w, res.Status(), out, "")
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, h.svc.List(), "")
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseID(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	m, err := h.svc.Get(id)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteOK(w, m, "")
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.svc.Update)
}

func (h *Handler) handleUpdateTitle(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.svc.UpdateTitle)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, apply func(int, map[string]any) (Memo, error)) {
	id, err := validation.ParseID(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	body, err := httputil.DecodeObject(r)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	m, err := apply(id, body)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteOK(w, m, "")
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseID(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	if _, err := h.svc.Delete(id); err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteOK(w, map[string]int{"id": id}, "Memo deleted.")
}

func (h *Handler) handleDeleteAll(w http.ResponseWriter, _ *http.Request) {
	n := h.svc.DeleteAll()
	h.log.Info("memos cleared", "count", n)
	httputil.WriteNoContent(w)
}

func (h *Handler) handleTriggerError(http.ResponseWriter, *http.Request) {
	panic("memo error trigger")
}
