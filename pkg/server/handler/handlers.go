package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/fastclicker/TableBundle/pkg/render/text"
	"github.com/fastclicker/TableBundle/pkg/render/urlgen"
	"github.com/fastclicker/TableBundle/pkg/table"
	"github.com/gorilla/mux"
	"github.com/pborman/uuid"
	"github.com/rancher/apiserver/pkg/apierror"
	"github.com/rancher/wrangler/v3/pkg/schemas/validation"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-Id"
	tableVar        = "table"
)

// TableHandler renders the table named by the "table" route variable. Request parameters are
// the other route variables and the query, route variables first. The table name itself is not
// a request parameter, so a filter called "table" reads the query.
type TableHandler struct {
	registry  *table.Registry
	assembler *table.Assembler
	text      table.Renderer
}

func NewTableHandler(registry *table.Registry, assembler *table.Assembler) *TableHandler {
	return &TableHandler{
		registry:  registry,
		assembler: assembler,
		text:      text.New(),
	}
}

func (h *TableHandler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	requestID := uuid.New()
	rw.Header().Set(requestIDHeader, requestID)

	vars := mux.Vars(req)
	def, ok := h.registry.Lookup(vars[tableVar])
	if !ok {
		writeError(rw, requestID, apierror.NewAPIError(validation.NotFound, "table "+vars[tableVar]+" does not exist"))
		return
	}

	routeParams := table.Map{}
	for name, value := range vars {
		if name != tableVar {
			routeParams[name] = value
		}
	}
	params := table.Merge(routeParams, table.Values(req.URL.Query()))
	view, err := h.assembler.Build(req.Context(), def, params)
	if err != nil {
		writeError(rw, requestID, err)
		return
	}

	var (
		buf         bytes.Buffer
		contentType = "text/html; charset=utf-8"
		urls        = urlgen.FromRequest(req)
	)
	if wantsText(req) {
		contentType = "text/plain; charset=utf-8"
		err = h.text.Render(&buf, view, urls)
	} else {
		err = view.Render(&buf, urls)
	}
	if err != nil {
		writeError(rw, requestID, err)
		return
	}

	rw.Header().Set("Content-Type", contentType)
	rw.WriteHeader(http.StatusOK)
	if req.Method != http.MethodHead {
		_, _ = buf.WriteTo(rw)
	}
}

func wantsText(req *http.Request) bool {
	accept := req.Header.Get("Accept")
	return strings.HasPrefix(accept, "text/plain")
}

func writeError(rw http.ResponseWriter, requestID string, err error) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		logrus.Debugf("[%s] table request failed: %v", requestID, err)
		http.Error(rw, apiErr.Message, apiErr.Code.Status)
		return
	}
	logrus.Errorf("[%s] table request failed: %v", requestID, err)
	http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Health answers every request with 200.
func Health() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = rw.Write([]byte("ok"))
	})
}
