package ui

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"studentrisk/domain/student"
	"studentrisk/internal/errors"
	"studentrisk/internal/profiling"
	"studentrisk/internal/report"
)

// pageData is what index.html renders
type pageData struct {
	Title        string
	BrowserTitle string
	SessionID    string
	Bounds       student.Bounds
	Selected     int
	Halt         string
	Report       *report.Report
	Summary      string
}

// selectedRow reads ?row=N; malformed values fall back to the minimum
func selectedRow(c *gin.Context) int {
	raw := strings.TrimSpace(c.Query("row"))
	if raw == "" {
		return 0
	}
	row, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return row
}

func (s *Server) newPage() pageData {
	return pageData{
		Title:        PageTitle,
		BrowserTitle: BrowserTitle,
		SessionID:    s.session.ID.String(),
		Bounds:       s.session.Bounds(),
	}
}

// handleIndex serves the dashboard for the selected student
func (s *Server) handleIndex(c *gin.Context) {
	page := s.newPage()

	if s.session.Halted() {
		page.Halt = s.session.Halt.Message
		s.renderTemplate(c, http.StatusOK, "index.html", page)
		return
	}

	rep, err := s.render(c, selectedRow(c))
	if err != nil {
		s.logger.Error("render failed: %v", err)
		s.renderTemplate(c, statusFor(err), "error.html", gin.H{
			"BrowserTitle": BrowserTitle,
			"Message":      errors.UserMessage(err),
		})
		return
	}

	page.Selected = rep.Selection.Index
	page.Report = rep
	page.Summary = summaryMarkdown(rep.Summary)
	s.renderTemplate(c, http.StatusOK, "index.html", page)
}

// handleReport serves the same report as JSON
func (s *Server) handleReport(c *gin.Context) {
	if s.session.Halted() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": s.session.Halt.Message,
			"stage": s.session.Stage.String(),
		})
		return
	}

	rep, err := s.render(c, selectedRow(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": errors.UserMessage(err), "code": errors.GetCode(err)})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// handleSession describes the bootstrap outcome
func (s *Server) handleSession(c *gin.Context) {
	out := gin.H{
		"id":         s.session.ID.String(),
		"stage":      s.session.Stage.String(),
		"started_at": s.session.StartedAt,
		"bounds":     s.session.Bounds(),
	}
	if s.session.Table != nil {
		out["rows"] = s.session.Table.Rows()
		out["fingerprint"] = s.session.Table.Fingerprint.String()
	}
	if s.session.Labels != nil {
		notAtRisk, atRisk := s.session.Labels.Counts()
		out["rule"] = s.session.Labels.Rule
		out["at_risk"] = atRisk
		out["not_at_risk"] = notAtRisk
	}
	if s.session.Model != nil {
		out["accuracy"] = s.session.Model.Accuracy
		out["split"] = s.session.Model.Split.Fingerprint().Short()
	}
	if s.session.Halt != nil {
		out["halt"] = s.session.Halt.Message
	}
	c.JSON(http.StatusOK, out)
}

// handleProfile summarizes the model's input columns, or the raw table when halted
func (s *Server) handleProfile(c *gin.Context) {
	switch {
	case s.session.Labels != nil:
		c.JSON(http.StatusOK, profiling.ProfileFrame(s.session.Labels.Features))
	case s.session.Table != nil:
		c.JSON(http.StatusOK, profiling.ProfileFrame(s.session.Table.Frame))
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no dataset loaded"})
	}
}

// render holds a semaphore slot for the duration of one report
func (s *Server) render(c *gin.Context, row int) (*report.Report, error) {
	ctx := c.Request.Context()
	if err := s.renderSem.Acquire(ctx, 1); err != nil {
		return nil, errors.RenderError("render canceled", err)
	}
	defer s.renderSem.Release(1)

	return s.session.Render(ctx, row)
}

func statusFor(err error) int {
	if errors.GetCode(err) == errors.CodeInvalidInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func summaryMarkdown(sum report.Summary) string {
	var b strings.Builder
	for _, line := range sum.Lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
