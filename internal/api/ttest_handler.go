package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"ttestcalc/adapters/excel"
	"ttestcalc/app"
	"ttestcalc/domain/hypothesis"
	"ttestcalc/internal"
	"ttestcalc/internal/errors"
	"ttestcalc/internal/report"
)

const (
	// maxUploadBytes caps batch request bodies, JSON or spreadsheet
	maxUploadBytes = 8 << 20
	// maxBatchRows caps the number of requests in one batch
	maxBatchRows = 10000
)

// TTestHandler serves the JSON t-test API
type TTestHandler struct {
	service *app.TTestService
	logger  *internal.Logger
}

// NewTTestHandler creates a new t-test handler
func NewTTestHandler(service *app.TTestService, logger *internal.Logger) *TTestHandler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &TTestHandler{
		service: service,
		logger:  logger.With("api"),
	}
}

// computeBody accepts either summaries or raw observations for each sample
type computeBody struct {
	SampleA       *hypothesis.SampleSummary `json:"sample_a"`
	SampleB       *hypothesis.SampleSummary `json:"sample_b"`
	ObservationsA []float64                 `json:"observations_a"`
	ObservationsB []float64                 `json:"observations_b"`
	Direction     string                    `json:"direction"`
	Alpha         float64                   `json:"alpha"`
}

// RegisterRoutes mounts the API under /api
func (h *TTestHandler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/healthz", h.Health)
	api.POST("/ttest", h.Compute)
	api.POST("/ttest/batch", h.Batch)
	api.POST("/ttest/batch/upload", h.Upload)
	api.GET("/runs", h.ListRuns)
	api.GET("/runs/:id", h.GetRun)
}

// Health reports liveness and the effective defaults
func (h *TTestHandler) Health(c *gin.Context) {
	opts := h.service.Options()
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"alpha":             opts.Alpha,
		"batch_concurrency": opts.BatchConcurrency,
		"time":              time.Now().UTC().Format(time.RFC3339),
	})
}

// Compute runs a single t-test
func (h *TTestHandler) Compute(c *gin.Context) {
	var body computeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, errors.ValidationError("Invalid request body: "+err.Error()))
		return
	}

	direction, err := parseDirection(body.Direction)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var run *hypothesis.Run
	switch {
	case len(body.ObservationsA) > 0 || len(body.ObservationsB) > 0:
		run, err = h.service.RunRaw(c.Request.Context(), app.RawRequest{
			ObservationsA: body.ObservationsA,
			ObservationsB: body.ObservationsB,
			Direction:     direction,
			Alpha:         body.Alpha,
		})
	case body.SampleA != nil && body.SampleB != nil:
		run, err = h.service.Run(c.Request.Context(), hypothesis.Request{
			SampleA:   *body.SampleA,
			SampleB:   *body.SampleB,
			Direction: direction,
			Alpha:     body.Alpha,
		})
	default:
		h.respondError(c, errors.ValidationError("sample_a and sample_b (or observations_a and observations_b) are required"))
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run":      run,
		"markdown": report.Markdown(run.Request, &run.Result),
	})
}

// Batch runs a JSON array of requests, bare or wrapped as {"requests": [...]};
// rows fail independently
func (h *TTestHandler) Batch(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			h.respondError(c, errors.ValidationError(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
			return
		}
		h.respondError(c, errors.ValidationError("Invalid request body"))
		return
	}
	if !gjson.ValidBytes(body) {
		h.respondError(c, errors.ValidationError("Invalid request body"))
		return
	}

	list := gjson.ParseBytes(body)
	if list.IsObject() {
		list = list.Get("requests")
	}
	if !list.IsArray() {
		h.respondError(c, errors.ValidationError("expected an array of requests"))
		return
	}

	var reqs []hypothesis.Request
	if err := json.Unmarshal([]byte(list.Raw), &reqs); err != nil {
		h.respondError(c, errors.ValidationError("Invalid request body: "+err.Error()))
		return
	}
	if len(reqs) == 0 {
		h.respondError(c, errors.ValidationError("at least one request is required"))
		return
	}

	for i := range reqs {
		if reqs[i].Direction == "" {
			continue
		}
		if d, err := hypothesis.ParseDirection(string(reqs[i].Direction)); err == nil {
			reqs[i].Direction = d
		}
	}

	h.runBatch(c, reqs, "")
}

// Upload runs a batch from an uploaded spreadsheet. With ?format=xlsx or
// ?format=csv the results come back as a file instead of JSON.
func (h *TTestHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, errors.ValidationError("file is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.respondError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer file.Close()

	reqs, err := excel.ReadRequestsFrom(file, excel.DetectFileType(header.Filename))
	if err != nil {
		h.respondError(c, errors.Wrapf(err, "failed to read %s", header.Filename))
		return
	}

	h.logger.Debug("upload %s: %d requests", header.Filename, len(reqs))
	h.runBatch(c, reqs, c.Query("format"))
}

func (h *TTestHandler) runBatch(c *gin.Context, reqs []hypothesis.Request, format string) {
	if len(reqs) > maxBatchRows {
		h.respondError(c, errors.ValidationError(fmt.Sprintf("batch has %d requests, at most %d allowed", len(reqs), maxBatchRows)))
		return
	}

	items, err := h.service.RunBatch(c.Request.Context(), reqs)
	if err != nil {
		h.respondError(c, errors.Wrap(err, "batch cancelled"))
		return
	}

	switch excel.FileType(strings.ToLower(format)) {
	case excel.FileTypeXLSX:
		c.Header("Content-Disposition", `attachment; filename="ttest_results.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := excel.WriteResults(c.Writer, excel.FileTypeXLSX, items); err != nil {
			h.logger.Error("failed to write xlsx results: %v", err)
		}
		return
	case excel.FileTypeCSV:
		c.Header("Content-Disposition", `attachment; filename="ttest_results.csv"`)
		c.Header("Content-Type", "text/csv")
		if err := excel.WriteResults(c.Writer, excel.FileTypeCSV, items); err != nil {
			h.logger.Error("failed to write csv results: %v", err)
		}
		return
	}

	failed := 0
	for _, item := range items {
		if item.Failed() {
			failed++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"computed": len(items) - failed,
		"failed":   failed,
	})
}

// ListRuns returns recent runs, newest first
func (h *TTestHandler) ListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.respondError(c, errors.ValidationError(fmt.Sprintf("invalid limit %q", raw)))
			return
		}
		limit = n
	}

	runs, err := h.service.History(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"count": len(runs),
	})
}

// GetRun returns one recorded run
func (h *TTestHandler) GetRun(c *gin.Context) {
	run, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *TTestHandler) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func parseDirection(raw string) (hypothesis.Direction, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return hypothesis.ParseDirection(raw)
}
