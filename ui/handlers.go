package ui

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ttestcalc/adapters/stats/summary"
	"ttestcalc/app"
	"ttestcalc/domain/core"
	"ttestcalc/domain/hypothesis"
	"ttestcalc/internal/errors"
	"ttestcalc/internal/report"
)

// sampleFields holds one sample column exactly as typed
type sampleFields struct {
	Size   string
	Mean   string
	StdDev string
	Raw    string
}

type directionOption struct {
	Value       hypothesis.Direction
	Label       string
	Alternative string
	Checked     bool
}

type resultView struct {
	Metrics  []report.Metric
	Markdown string
	Decision hypothesis.Decision
	Rejected bool
	RunID    core.RunID
}

// pageData is everything the form template renders
type pageData struct {
	A          sampleFields
	B          sampleFields
	Alpha      string
	Directions []directionOption
	Result     *resultView
	Error      string
	History    []*hypothesis.Run
}

func defaultForm() pageData {
	return pageData{
		A:     sampleFields{Size: "60", Mean: "86", StdDev: "6"},
		B:     sampleFields{Size: "75", Mean: "82", StdDev: "9"},
		Alpha: strconv.FormatFloat(hypothesis.DefaultAlpha, 'g', -1, 64),
	}
}

func directionOptions(selected hypothesis.Direction) []directionOption {
	options := make([]directionOption, 0, len(hypothesis.Directions))
	for _, d := range hypothesis.Directions {
		options = append(options, directionOption{
			Value:       d,
			Label:       d.Label(),
			Alternative: d.Alternative(),
			Checked:     d == selected,
		})
	}
	return options
}

// handleIndex renders the empty form with the default samples
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := defaultForm()
	data.Directions = directionOptions(hypothesis.TwoTailed)
	a.render(w, r, http.StatusOK, data)
}

// handleCalculate runs the test for the submitted form
func (a *App) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	data := pageData{
		A: sampleFields{
			Size:   r.PostFormValue("size_a"),
			Mean:   r.PostFormValue("mean_a"),
			StdDev: r.PostFormValue("sd_a"),
			Raw:    r.PostFormValue("raw_a"),
		},
		B: sampleFields{
			Size:   r.PostFormValue("size_b"),
			Mean:   r.PostFormValue("mean_b"),
			StdDev: r.PostFormValue("sd_b"),
			Raw:    r.PostFormValue("raw_b"),
		},
		Alpha: r.PostFormValue("alpha"),
	}

	run, direction, err := a.runForm(r, data)
	data.Directions = directionOptions(direction)
	if err != nil {
		data.Error = err.Error()
		a.render(w, r, errors.HTTPStatus(err), data)
		return
	}

	data.Result = newResultView(run)
	if strings.TrimSpace(data.A.Raw) != "" {
		data.A = summaryFields(run.Request.SampleA, data.A.Raw)
		data.B = summaryFields(run.Request.SampleB, data.B.Raw)
	}
	a.render(w, r, http.StatusOK, data)
}

// handleRun shows a recorded run with its inputs filled back into the form
func (a *App) handleRun(w http.ResponseWriter, r *http.Request) {
	run, err := a.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		data := defaultForm()
		data.Directions = directionOptions(hypothesis.TwoTailed)
		data.Error = err.Error()
		a.render(w, r, errors.HTTPStatus(err), data)
		return
	}

	data := pageData{
		A:          summaryFields(run.Request.SampleA, ""),
		B:          summaryFields(run.Request.SampleB, ""),
		Alpha:      strconv.FormatFloat(run.Request.Alpha, 'g', -1, 64),
		Directions: directionOptions(run.Request.Direction),
		Result:     newResultView(run),
	}
	a.render(w, r, http.StatusOK, data)
}

// runForm parses the form and computes. Filling either raw observations box
// switches the form to raw mode: both boxes are then required and the
// summary fields are ignored.
func (a *App) runForm(r *http.Request, data pageData) (*hypothesis.Run, hypothesis.Direction, error) {
	direction := hypothesis.TwoTailed
	if raw := r.PostFormValue("direction"); raw != "" {
		d, err := hypothesis.ParseDirection(raw)
		if err != nil {
			return nil, direction, errors.Wrap(err, "Direction")
		}
		direction = d
	}

	alpha := 0.0
	if strings.TrimSpace(data.Alpha) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(data.Alpha), 64)
		if err != nil {
			return nil, direction, errors.Wrap(core.NewInvalidInputError("alpha", "must be a number"), "Significance level")
		}
		alpha = v
	}

	if strings.TrimSpace(data.A.Raw) != "" || strings.TrimSpace(data.B.Raw) != "" {
		obsA, err := summary.ParseObservations(data.A.Raw)
		if err != nil {
			return nil, direction, errors.Wrap(err, "Sample 1 observations")
		}
		obsB, err := summary.ParseObservations(data.B.Raw)
		if err != nil {
			return nil, direction, errors.Wrap(err, "Sample 2 observations")
		}
		run, err := a.service.RunRaw(r.Context(), app.RawRequest{
			ObservationsA: obsA,
			ObservationsB: obsB,
			Direction:     direction,
			Alpha:         alpha,
		})
		return run, direction, err
	}

	sampleA, err := parseSample("Sample 1", data.A)
	if err != nil {
		return nil, direction, err
	}
	sampleB, err := parseSample("Sample 2", data.B)
	if err != nil {
		return nil, direction, err
	}

	run, err := a.service.Run(r.Context(), hypothesis.Request{
		SampleA:   sampleA,
		SampleB:   sampleB,
		Direction: direction,
		Alpha:     alpha,
	})
	return run, direction, err
}

func parseSample(label string, f sampleFields) (hypothesis.SampleSummary, error) {
	var s hypothesis.SampleSummary

	size, err := strconv.Atoi(strings.TrimSpace(f.Size))
	if err != nil {
		return s, errors.Wrap(core.NewInvalidInputError("size", "must be a whole number"), label)
	}
	mean, err := strconv.ParseFloat(strings.TrimSpace(f.Mean), 64)
	if err != nil {
		return s, errors.Wrap(core.NewInvalidInputError("mean", "must be a number"), label)
	}
	sd, err := strconv.ParseFloat(strings.TrimSpace(f.StdDev), 64)
	if err != nil {
		return s, errors.Wrap(core.NewInvalidInputError("standard deviation", "must be a number"), label)
	}

	return hypothesis.SampleSummary{Size: size, Mean: mean, StdDev: sd}, nil
}

func summaryFields(s hypothesis.SampleSummary, raw string) sampleFields {
	return sampleFields{
		Size:   strconv.Itoa(s.Size),
		Mean:   strconv.FormatFloat(s.Mean, 'g', -1, 64),
		StdDev: strconv.FormatFloat(s.StdDev, 'g', -1, 64),
		Raw:    raw,
	}
}

func newResultView(run *hypothesis.Run) *resultView {
	return &resultView{
		Metrics:  report.Metrics(&run.Result),
		Markdown: report.Markdown(run.Request, &run.Result),
		Decision: run.Result.Decision,
		Rejected: run.Result.Decision.Rejected(),
		RunID:    run.ID,
	}
}

// render attaches the history list and executes the page template
func (a *App) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	history, err := a.service.History(r.Context(), 0)
	if err != nil {
		a.logger.Warn("history unavailable: %v", err)
	}
	data.History = history

	if data.Error != "" {
		a.logger.Debug("form error (%d): %s", status, data.Error)
	}
	a.renderTemplate(w, status, "index.html", data)
}
