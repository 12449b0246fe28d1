package delivery

import (
	"context"
	"fmt"
	"net/http"
	"time"

	ingestscheduler "jobradar-backend/internal/ingest/scheduler"
	reportusecase "jobradar-backend/internal/report/usecase"
	statsusecase "jobradar-backend/internal/stats/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler handles run report and statistics HTTP requests
type ReportHandler struct {
	reports      *reportusecase.Store
	aggregator   statsusecase.Aggregator
	runScheduler *ingestscheduler.DailyRunScheduler
	minJobCount  int64
	log          *zap.SugaredLogger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(
	reports *reportusecase.Store,
	aggregator statsusecase.Aggregator,
	runScheduler *ingestscheduler.DailyRunScheduler,
	minJobCount int64,
	log *zap.SugaredLogger,
) *ReportHandler {
	return &ReportHandler{
		reports:      reports,
		aggregator:   aggregator,
		runScheduler: runScheduler,
		minJobCount:  minJobCount,
		log:          log.Named("report-handler"),
	}
}

// LatestReport returns the most recent run report
// GET /api/reports/latest
func (h *ReportHandler) LatestReport(c *gin.Context) {
	report := h.reports.Latest()
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run has completed yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ReportByDate returns the run report for one date
// GET /api/reports/:date
func (h *ReportHandler) ReportByDate(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	report := h.reports.ByDate(date)
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report for this date"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportRankingCSV streams the current channel ranking as CSV
// GET /api/reports/ranking.csv
func (h *ReportHandler) ExportRankingCSV(c *gin.Context) {
	ranked, err := h.aggregator.Rank(c.Request.Context(), h.minJobCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("channel_ranking_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := reportusecase.WriteRankingCSV(c.Writer, ranked); err != nil {
		h.log.Errorw("failed to write ranking csv", "error", err)
	}
}

// TriggerRun starts a run outside the schedule
// POST /api/runs
func (h *ReportHandler) TriggerRun(c *gin.Context) {
	// Runs take minutes; detach from the request context
	go func() {
		if _, err := h.runScheduler.RunNow(context.Background()); err != nil {
			h.log.Errorw("manual run failed", "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"message": "run started"})
}

// Stats returns overall counters and the live channel ranking
// GET /api/stats
func (h *ReportHandler) Stats(c *gin.Context) {
	total, jobs, err := h.aggregator.Totals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ranked, err := h.aggregator.Rank(c.Request.Context(), h.minJobCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_messages": total,
		"job_messages":   jobs,
		"ranked":         ranked,
	})
}

// Recount rebuilds the rolling statistics from stored messages
// POST /api/stats/recount
func (h *ReportHandler) Recount(c *gin.Context) {
	if err := h.aggregator.Recount(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "statistics rebuilt"})
}
