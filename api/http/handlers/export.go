package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mkravets/student-profiles/api/http/presenter"
	"github.com/mkravets/student-profiles/pkg/student"
)

type ExportHandler struct {
	students student.UseCase
}

func NewExportHandler(students student.UseCase) *ExportHandler {
	return &ExportHandler{students: students}
}

const exportPageSize = 500

// loadRoster pages through the repository so exports cover the whole roster.
func (h *ExportHandler) loadRoster(c *fiber.Ctx) ([]student.Student, error) {
	roster := []student.Student{}
	for offset := 0; ; offset += exportPageSize {
		page, err := h.students.List(c.Context(), exportPageSize, offset)
		if err != nil {
			return nil, err
		}
		roster = append(roster, page...)
		if len(page) < exportPageSize {
			return roster, nil
		}
	}
}

// Students exports the roster as CSV or JSON.
// @Summary Export students
// @Tags    export
// @Produce json
// @Param   format path string true "csv or json"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /export/{format} [get]
func (h *ExportHandler) Students(c *fiber.Ctx) error {
	format := c.Params("format")
	if format != "csv" && format != "json" {
		return presenter.Error(c, http.StatusBadRequest, "unsupported export format: use csv or json")
	}

	roster, err := h.loadRoster(c)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to load students")
	}

	stamp := time.Now().UTC().Format("2006-01-02")
	if format == "json" {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "students-"+stamp+".json"))
		return presenter.JSON(c, http.StatusOK, roster)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"id", "name", "email", "year_grade", "major_focus",
		"short_term_goals", "long_term_goals", "interests", "extracurricular", "skills"}
	if err := w.Write(header); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to build export")
	}
	for _, st := range roster {
		skills := make([]string, len(st.Skills))
		for i, sk := range st.Skills {
			skills[i] = sk.Name + " (" + sk.Level + ")"
		}
		record := []string{
			fmt.Sprint(st.ID), st.Name, st.Email, st.YearGrade, st.MajorFocus,
			st.ShortTermGoals, st.LongTermGoals, st.Interests, st.Extracurricular,
			strings.Join(skills, "; "),
		}
		if err := w.Write(record); err != nil {
			return presenter.Error(c, http.StatusInternalServerError, "failed to build export")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to build export")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "students-"+stamp+".csv"))
	return c.Send(buf.Bytes())
}
