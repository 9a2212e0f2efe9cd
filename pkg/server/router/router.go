package router

import (
	"net/http"

	"github.com/gorilla/mux"
)

// TableRoute is the name of the route rendering one table.
const TableRoute = "table"

type Handlers struct {
	Table    http.Handler
	Metrics  http.Handler
	Health   http.Handler
	NotFound http.Handler
}

func Routes(h Handlers) http.Handler {
	m := mux.NewRouter()
	m.UseEncodedPath()
	m.StrictSlash(true)
	m.NotFoundHandler = h.NotFound

	m.Path("/tables/{table}").Methods(http.MethodGet, http.MethodHead).Name(TableRoute).Handler(h.Table)
	m.Path("/metrics").Methods(http.MethodGet).Handler(h.Metrics)
	m.Path("/healthz").Handler(h.Health)

	return m
}
