// Package route maps URL paths to named pages. Matching runs on a chi
// router, so static segments win over parameters regardless of order
// (/todos/create before /todos/:id).
package route

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Page names used by the default table.
const (
	Home       = "Home"
	Todos      = "Todos"
	TodoCreate = "TodoCreate"
	Todo       = "Todo"
)

// Route binds a path pattern to a page name. Pattern segments starting with
// ':' capture the matching path segment.
type Route struct {
	Name string `json:"name"`
	Path string `json:"path"`

	segments []string
}

// Match is a resolved route with its captured parameters.
type Match struct {
	Route  Route             `json:"route"`
	Params map[string]string `json:"params"`
}

// Param returns a captured parameter or "".
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Table is a set of routes kept in registration order.
type Table struct {
	routes    []Route
	byName    map[string]Route
	byPattern map[string]Route
	mux       *chi.Mux
}

// New builds a table. It returns an error for duplicate names or malformed
// patterns.
func New(routes ...Route) (*Table, error) {
	t := &Table{
		byName:    make(map[string]Route, len(routes)),
		byPattern: make(map[string]Route, len(routes)),
		mux:       chi.NewRouter(),
	}
	shapes := make(map[string]string, len(routes))
	for _, r := range routes {
		if r.Name == "" {
			return nil, fmt.Errorf("route %q: name is required", r.Path)
		}
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("route %q: path must start with /", r.Name)
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("duplicate route name %q", r.Name)
		}

		r.segments = split(r.Path)
		if err := checkSegments(r.segments); err != nil {
			return nil, fmt.Errorf("route %q: %w", r.Name, err)
		}

		shape := pathShape(r.segments)
		if _, dup := shapes[shape]; dup {
			return nil, fmt.Errorf("route %q: path %q overlaps %q", r.Name, r.Path, shapes[shape])
		}
		shapes[shape] = r.Path

		pattern := chiPattern(r.segments)
		t.mux.Get(pattern, http.NotFound)

		t.byPattern[pattern] = r
		t.routes = append(t.routes, r)
		t.byName[r.Name] = r
	}
	return t, nil
}

// Default returns the application's route table.
func Default() *Table {
	t, err := New(
		Route{Name: Home, Path: "/"},
		Route{Name: Todos, Path: "/todos"},
		Route{Name: TodoCreate, Path: "/todos/create"},
		Route{Name: Todo, Path: "/todos/:id"},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// Routes returns the routes in registration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Match resolves path. Query strings and trailing slashes are ignored.
func (t *Table) Match(path string) (Match, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Join(split(path), "/")

	rctx := chi.NewRouteContext()
	pattern := t.mux.Find(rctx, http.MethodGet, path)
	r, ok := t.byPattern[pattern]
	if !ok {
		return Match{}, false
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		v, err := url.PathUnescape(rctx.URLParams.Values[i])
		if err != nil {
			return Match{}, false
		}
		params[key] = v
	}
	return Match{Route: r, Params: params}, true
}

// Path builds the URL for the named route. Missing parameters are an error.
func (t *Table) Path(name string, params map[string]string) (string, error) {
	r, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown route %q", name)
	}

	parts := make([]string, 0, len(r.segments))
	for _, seg := range r.segments {
		if key, isParam := strings.CutPrefix(seg, ":"); isParam {
			v, ok := params[key]
			if !ok || v == "" {
				return "", fmt.Errorf("route %q: missing parameter %q", name, key)
			}
			parts = append(parts, url.PathEscape(v))
			continue
		}
		parts = append(parts, seg)
	}
	return "/" + strings.Join(parts, "/"), nil
}

// Parent returns the path one segment up. The parent of "/" is "/".
func Parent(path string) string {
	segs := split(path)
	if len(segs) <= 1 {
		return "/"
	}
	return "/" + strings.Join(segs[:len(segs)-1], "/")
}

// checkSegments rejects segments chi would read as pattern syntax and
// parameter names used twice.
func checkSegments(segs []string) error {
	seen := map[string]bool{}
	for _, seg := range segs {
		if strings.ContainsAny(seg, "{}*") {
			return fmt.Errorf("segment %q: reserved character", seg)
		}
		key, isParam := strings.CutPrefix(seg, ":")
		if !isParam {
			continue
		}
		switch {
		case key == "":
			return errors.New("empty parameter name")
		case strings.Contains(key, ":"):
			return fmt.Errorf("parameter %q: reserved character", key)
		case seen[key]:
			return fmt.Errorf("duplicate parameter %q", key)
		}
		seen[key] = true
	}
	return nil
}

// pathShape erases parameter names, so /a/:id and /a/:other compare equal.
func pathShape(segs []string) string {
	parts := make([]string, len(segs))
	for i, seg := range segs {
		if strings.HasPrefix(seg, ":") {
			parts[i] = ":"
			continue
		}
		parts[i] = seg
	}
	return "/" + strings.Join(parts, "/")
}

// chiPattern turns ":name" segments into chi's "{name}".
func chiPattern(segs []string) string {
	parts := make([]string, len(segs))
	for i, seg := range segs {
		if key, isParam := strings.CutPrefix(seg, ":"); isParam {
			parts[i] = "{" + key + "}"
			continue
		}
		parts[i] = seg
	}
	return "/" + strings.Join(parts, "/")
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
