package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/datacapflow/core/internal/observability"
	"github.com/datacapflow/core/internal/parser"
	"github.com/datacapflow/core/internal/upstream"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeSource struct {
	rows  string
	sheet [][]string
	err   error
}

func (f *fakeSource) FetchAllocators(context.Context) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.rows), nil
}

func (f *fakeSource) FetchSnapshot(context.Context) (*upstream.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &upstream.Snapshot{AllocatorRows: []byte(f.rows), AuditSheet: f.sheet}, nil
}

const sampleRows = `[
	{"id": "a1", "pathway": "Automatic", "pathwayType": "Automatic", "allocationAmount": "100"},
	{"id": "a2", "pathway": "Automatic", "pathwayType": "Automatic", "allocationAmount": "200"},
	{"id": "f1", "name": "Faucet", "pathway": "Automatic", "pathwayType": "Automatic", "allocationAmount": "50"},
	{"id": "mp1", "pathway": "Manual", "pathwayType": "ManualPathwayMeta", "allocationAmount": "30"},
	{"id": "m1", "pathway": "Manual", "pathwayType": "Manual", "allocationAmount": "20"},
	{"id": "", "pathway": "Manual", "pathwayType": "Manual", "allocationAmount": "20"}
]`

var sampleSheet = [][]string{
	{"Allocator ID", "1", "2"},
	{"a1", "PASS", "FAILED"},
	{"a2", "PASS", ""},
	{"mp1", "PASS", "INACTIVE"},
}

func newDeps(src Source) *Deps {
	return &Deps{
		Source:         src,
		Graph:          parser.DefaultGraphOptions(),
		MaxAuditRounds: 10,
		Logger:         zap.NewNop(),
		Metrics:        observability.NewMetrics(),
	}
}

func newTestRouter(d *Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	SetupRoutes(router, d)
	return router
}

func serve(t *testing.T, router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
