package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/datacapflow/core/internal/models"
	"github.com/datacapflow/core/internal/parser"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetAudits serves the audit-outcome tree. ?rounds= overrides the number
// of rounds found in the sheet.
func GetAudits(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		rounds := -1
		if raw, ok := c.GetQuery("rounds"); ok {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > d.MaxAuditRounds {
				writeError(c, http.StatusBadRequest, "Invalid rounds",
					fmt.Errorf("rounds must be an integer between 1 and %d", d.MaxAuditRounds))
				return
			}
			rounds = n
		}

		snapshot, err := d.Source.FetchSnapshot(c.Request.Context())
		if err != nil {
			d.logger().Error("failed to fetch upstream snapshot", zap.Error(err))
			writeError(c, http.StatusBadGateway, "Failed to fetch upstream data", err)
			return
		}

		result, err := parser.ParseAllocators(snapshot.AllocatorRows)
		if err != nil {
			writeError(c, http.StatusBadGateway, "Invalid upstream allocator data", err)
			return
		}

		sheet, err := parser.ParseAuditSheet(snapshot.AuditSheet)
		if err != nil {
			writeError(c, http.StatusBadGateway, "Invalid upstream audit sheet", err)
			return
		}

		if rounds < 0 {
			rounds = min(sheet.Rounds, d.MaxAuditRounds)
		}

		d.Metrics.ObserveDropped(result.Dropped)
		d.Metrics.ObserveBuild("audits", "")

		records := parser.MergeAudits(result.Records, sheet)
		writeJSON(c, models.AuditTree{
			Rounds: rounds,
			Root:   parser.BuildAuditTree(records, rounds),
		})
	}
}
