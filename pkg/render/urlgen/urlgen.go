// Package urlgen builds links to the current page of a table from the current request.
package urlgen

import (
	"maps"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Generator implements table.URLGenerator for one request. Links keep every route variable and
// query parameter of the request, except the overridden ones.
type Generator struct {
	route *mux.Route
	path  string
	vars  map[string]string
	query url.Values
}

// FromRequest returns the generator of req. Requests not routed by mux keep their path.
func FromRequest(req *http.Request) *Generator {
	return &Generator{
		route: mux.CurrentRoute(req),
		path:  req.URL.Path,
		vars:  mux.Vars(req),
		query: req.URL.Query(),
	}
}

// New returns a generator of links to path with query, for views rendered outside of a request.
func New(path string, query url.Values) *Generator {
	return &Generator{path: path, query: query}
}

// Generate returns the link with overrides applied. Overrides naming a route variable replace
// that variable, others replace the query parameter.
func (g *Generator) Generate(overrides map[string]string) (string, error) {
	vars := maps.Clone(g.vars)
	query := url.Values{}
	for key, values := range g.query {
		query[key] = append([]string(nil), values...)
	}
	for key, value := range overrides {
		if _, ok := vars[key]; ok {
			vars[key] = value
			continue
		}
		query.Set(key, value)
	}

	u := &url.URL{Path: g.path}
	if g.route != nil {
		pairs := make([]string, 0, 2*len(vars))
		for key, value := range vars {
			pairs = append(pairs, key, value)
		}
		var err error
		u, err = g.route.URL(pairs...)
		if err != nil {
			return "", errors.Wrapf(err, "unable to build url of route %s", g.route.GetName())
		}
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}
