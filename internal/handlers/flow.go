package handlers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/datacapflow/core/internal/models"
	"github.com/datacapflow/core/internal/parser"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sectionFromQuery reads ?expanded= and applies ?toggle= on top of it.
func sectionFromQuery(c *gin.Context) (models.Section, error) {
	section, err := models.ParseSection(c.Query("expanded"))
	if err != nil {
		return models.SectionNone, err
	}
	if name, ok := c.GetQuery("toggle"); ok {
		section = section.ToggleName(name)
	}
	return section, nil
}

// GetFlow serves the flow graph built from the upstream allocator rows.
func GetFlow(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		section, err := sectionFromQuery(c)
		if err != nil {
			writeError(c, http.StatusBadRequest, "Invalid section", err)
			return
		}

		data, err := d.Source.FetchAllocators(c.Request.Context())
		if err != nil {
			d.logger().Error("failed to fetch allocators", zap.Error(err))
			writeError(c, http.StatusBadGateway, "Failed to fetch allocators", err)
			return
		}

		result, err := parser.ParseAllocators(data)
		if err != nil {
			d.logger().Error("upstream allocator payload is not an array", zap.Error(err))
			writeError(c, http.StatusBadGateway, "Invalid upstream allocator data", err)
			return
		}

		writeJSON(c, buildFlow(d, result, section))
	}
}

// PostFlow builds the flow graph from allocator rows in the request body.
func PostFlow(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		section, err := sectionFromQuery(c)
		if err != nil {
			writeError(c, http.StatusBadRequest, "Invalid section", err)
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			writeError(c, http.StatusBadRequest, "Failed to read body", err)
			return
		}

		if len(bytes.TrimSpace(body)) == 0 {
			writeError(c, http.StatusBadRequest, "Empty request body", nil)
			return
		}

		result, err := parser.ParseAllocators(body)
		if err != nil {
			writeError(c, http.StatusBadRequest, "Invalid allocator rows", err)
			return
		}

		writeJSON(c, buildFlow(d, result, section))
	}
}

func buildFlow(d *Deps, result *parser.ParseResult, section models.Section) *models.Graph {
	if result.Dropped > 0 {
		d.logger().Debug("dropped invalid allocator rows", zap.Int("dropped", result.Dropped))
	}
	d.Metrics.ObserveDropped(result.Dropped)

	graph := parser.BuildGraph(result.Records, section, d.Graph)
	graph.Expanded = section
	graph.Stats = parser.GraphStats(graph, result)

	d.Metrics.ObserveBuild("flow", string(section))
	return graph
}

// GetSummary serves the aggregate of every flow graph partition.
func GetSummary(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := d.Source.FetchAllocators(c.Request.Context())
		if err != nil {
			d.logger().Error("failed to fetch allocators", zap.Error(err))
			writeError(c, http.StatusBadGateway, "Failed to fetch allocators", err)
			return
		}

		result, err := parser.ParseAllocators(data)
		if err != nil {
			writeError(c, http.StatusBadGateway, "Invalid upstream allocator data", err)
			return
		}

		d.Metrics.ObserveDropped(result.Dropped)
		d.Metrics.ObserveBuild("summary", "")
		writeJSON(c, parser.Summarize(result, d.Graph.FaucetName))
	}
}
