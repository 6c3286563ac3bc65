package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/http/req"
	"github.com/xy-planning-network/junction/logger"
	"github.com/xy-planning-network/junction/route"
	"github.com/xy-planning-network/junction/stack"
)

// A Verb names the navigation a request to the control surface performs.
type Verb string

const (
	VerbPush       Verb = "push"
	VerbReplace    Verb = "replace"
	VerbReplaceAll Verb = "replace-all"
	VerbPop        Verb = "pop"
)

func (v Verb) String() string { return string(v) }

func (v Verb) Valid() error {
	switch v {
	case VerbPush, VerbReplace, VerbReplaceAll, VerbPop:
		return nil
	default:
		return fmt.Errorf("%w: verb %q", junction.ErrNotValid, string(v))
	}
}

// A NavigateRequest is the body of a request to navigate.
//
// Exactly one of Path or Name addresses the destination, except for a pop, which takes neither.
type NavigateRequest struct {
	Path                string           `json:"path,omitempty" validate:"excluded_with=Name"`
	Name                string           `json:"name,omitempty"`
	Parameters          route.Parameters `json:"parameters,omitempty"`
	Neglect             bool             `json:"neglect,omitempty"`
	IgnoreTrailingSlash bool             `json:"ignoreTrailingSlash,omitempty"`
}

// Call converts r into the route.Call v performs.
func (r NavigateRequest) Call(v Verb) (route.Call, error) {
	if err := v.Valid(); err != nil {
		return route.Call{}, err
	}

	var c route.Call
	switch {
	case v == VerbPop:
		if r.Path != "" || r.Name != "" {
			return route.Call{}, fmt.Errorf("%w: pop takes no destination", junction.ErrNotValid)
		}
		c = route.Call{Kind: route.KindPop, Parameters: r.Parameters}
	case r.Path != "" && r.Name != "":
		return route.Call{}, fmt.Errorf("%w: both path and name", junction.ErrNotValid)
	case r.Path != "":
		c = route.NewPathCall(route.KindPush, r.Path, r.Parameters)
	case r.Name != "":
		c = route.NewNameCall(route.KindPush, r.Name, r.Parameters)
	default:
		return route.Call{}, fmt.Errorf("%w: path or name", junction.ErrMissingData)
	}

	switch v {
	case VerbReplace:
		c.Kind = route.KindReplace
	case VerbReplaceAll:
		c.Kind = route.KindReplace
		c.All = true
	}

	c.Neglect = r.Neglect
	c.IgnoreTrailingSlash = r.IgnoreTrailingSlash
	return c.Normalize(), nil
}

// A NavigateResponse reports a dispatched navigation and the history it left behind.
type NavigateResponse struct {
	ID      string        `json:"id"`
	Entries []stack.Entry `json:"entries"`
}

// An ErrorResponse describes why a request failed.
// Details lists the fields of a request that failed validation.
type ErrorResponse struct {
	Error   string                `json:"error"`
	Details []req.ValidationError `json:"details,omitempty"`
}

// A Handler exposes a stack.Navigator over HTTP.
type Handler struct {
	nav    *stack.Navigator
	logger logger.Logger
	parser *req.Parser
}

// NewHandler constructs a Handler over nav.
func NewHandler(nav *stack.Navigator, l logger.Logger) *Handler {
	if l == nil {
		l = nav.Router().Logger()
	}
	return &Handler{nav: nav, logger: l, parser: req.NewParser()}
}

// Routes lists the control surface's routes:
//
//   - POST /navigate/{verb} dispatches a NavigateRequest and waits for it to finish
//   - GET /stack lists navigation history
//   - GET /names lists named routes and their path patterns
//   - GET /names/{name}/path maps a named route to a path using the query as parameters
//   - GET /resolve?path= reports the route a path resolves to without running it
func (h *Handler) Routes() []Route {
	return []Route{
		{Path: "/navigate/{verb}", Method: http.MethodPost, Handler: h.navigate},
		{Path: "/stack", Method: http.MethodGet, Handler: h.stack},
		{Path: "/names", Method: http.MethodGet, Handler: h.names},
		{Path: "/names/{name}/path", Method: http.MethodGet, Handler: h.namePath},
		{Path: "/resolve", Method: http.MethodGet, Handler: h.resolve},
	}
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) {
	var body NavigateRequest
	if err := h.parser.ParseBody(r.Body, &body); err != nil {
		h.err(w, r, err)
		return
	}

	call, err := body.Call(Verb(mux.Vars(r)["verb"]))
	if err != nil {
		h.err(w, r, err)
		return
	}

	select {
	case err := <-h.nav.Submit(call):
		if err != nil {
			h.err(w, r, err)
			return
		}
	case <-r.Context().Done():
		h.err(w, r, r.Context().Err())
		return
	}

	h.json(w, r, http.StatusOK, NavigateResponse{ID: call.ID, Entries: h.nav.Entries()})
}

func (h *Handler) stack(w http.ResponseWriter, r *http.Request) {
	h.json(w, r, http.StatusOK, h.nav.Entries())
}

func (h *Handler) names(w http.ResponseWriter, r *http.Request) {
	h.json(w, r, http.StatusOK, h.nav.Router().Names())
}

func (h *Handler) namePath(w http.ResponseWriter, r *http.Request) {
	params := route.Parameters(r.URL.Query())
	p, err := h.nav.Router().MapNameToPath(mux.Vars(r)["name"], params)
	if err != nil {
		h.err(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, map[string]string{"path": p})
}

// A ResolveResponse describes the route a path resolves to.
type ResolveResponse struct {
	Route      string           `json:"route"`
	URI        string           `json:"uri"`
	Parameters route.Parameters `json:"parameters"`
	Quality    float64          `json:"quality"`
}

// A ResolveRequest is the query of a request to resolve a path.
type ResolveRequest struct {
	Path   string       `schema:"path" validate:"required"`
	Method route.Method `schema:"method" validate:"omitempty,enum"`
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	var q ResolveRequest
	if err := h.parser.ParseQueryParams(r.URL.Query(), &q); err != nil {
		h.err(w, r, err)
		return
	}

	call := route.NewPathCall(q.Method.Kind(), q.Path, nil)
	call.All = q.Method == route.MethodReplaceAll

	res, err := h.nav.Router().Resolve(call)
	if err != nil {
		h.err(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, ResolveResponse{
		Route:      res.Route.String(),
		URI:        res.URI,
		Parameters: res.Parameters,
		Quality:    res.Quality,
	})
}

func (h *Handler) json(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response failed", &logger.LogContext{Error: err, Request: r})
	}
}

func (h *Handler) err(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("control request failed", &logger.LogContext{Error: err, Request: r})
	}
	res := ErrorResponse{Error: err.Error()}
	var verrs req.ValidationErrors
	if errors.As(err, &verrs) {
		res.Details = verrs
	}
	h.json(w, r, status, res)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, route.ErrRouteNotFound):
		return http.StatusNotFound
	case errors.Is(err, route.ErrMissingParameter),
		errors.Is(err, route.ErrBadDestination),
		errors.Is(err, junction.ErrMissingData),
		errors.Is(err, junction.ErrNotValid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
