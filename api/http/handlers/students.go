package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mkravets/student-profiles/api/http/presenter"
	"github.com/mkravets/student-profiles/pkg/student"
)

type StudentsHandler struct {
	useCase student.UseCase
}

func NewStudentsHandler(useCase student.UseCase) *StudentsHandler {
	return &StudentsHandler{useCase: useCase}
}

// Create adds a new student profile.
// @Summary Create student
// @Tags    students
// @Accept  json
// @Produce json
// @Param   input body student.Student true "student payload"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /students [post]
func (h *StudentsHandler) Create(c *fiber.Ctx) error {
	var st student.Student
	if err := c.BodyParser(&st); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	id, err := h.useCase.Create(c.Context(), st)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{"id": id})
}

// List returns students with pagination.
// @Summary List students
// @Tags    students
// @Produce json
// @Param   limit query int false "page size"
// @Param   offset query int false "page offset"
// @Security BearerAuth
// @Success 200 {array} student.Student
// @Router  /students [get]
func (h *StudentsHandler) List(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	items, err := h.useCase.List(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list students")
	}
	if items == nil {
		items = []student.Student{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Get returns one student by id.
// @Summary Get student
// @Tags    students
// @Produce json
// @Param   id path int true "student id"
// @Security BearerAuth
// @Success 200 {object} student.Student
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /students/{id} [get]
func (h *StudentsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	st, err := h.useCase.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "student not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load student")
	}
	return presenter.JSON(c, http.StatusOK, st)
}

// Update replaces a student profile and its skill set.
// @Summary Update student
// @Tags    students
// @Accept  json
// @Produce json
// @Param   id path int true "student id"
// @Param   input body student.Student true "student payload"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /students/{id} [put]
func (h *StudentsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	var st student.Student
	if err := c.BodyParser(&st); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	st.ID = id
	if err := h.useCase.Update(c.Context(), st); err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "student not found")
		}
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"id": id, "updated": true})
}

// Delete removes a student and all dependent rows.
// @Summary Delete student
// @Tags    students
// @Param   id path int true "student id"
// @Security BearerAuth
// @Success 204 {object} nil
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /students/{id} [delete]
func (h *StudentsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	if err := h.useCase.Delete(c.Context(), id); err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "student not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to delete student")
	}
	return c.SendStatus(http.StatusNoContent)
}

// Search runs the free-text and per-field student search.
// @Summary Search students
// @Tags    students
// @Produce json
// @Param   q query string false "free-text term"
// @Param   skills query string false "comma-separated skill names"
// @Param   interests query string false "interests term"
// @Param   goals query string false "goals term"
// @Param   year_grade query string false "exact year/grade"
// @Param   major_focus query string false "major term"
// @Security BearerAuth
// @Success 200 {array} student.Student
// @Router  /students/search [get]
func (h *StudentsHandler) Search(c *fiber.Ctx) error {
	q := student.SearchQuery{
		Query:      strings.TrimSpace(c.Query("q")),
		Skills:     splitCSV(c.Query("skills")),
		Interests:  strings.TrimSpace(c.Query("interests")),
		Goals:      strings.TrimSpace(c.Query("goals")),
		YearGrade:  strings.TrimSpace(c.Query("year_grade")),
		MajorFocus: strings.TrimSpace(c.Query("major_focus")),
	}
	items, err := h.useCase.Search(c.Context(), q)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to search students")
	}
	if items == nil {
		items = []student.Student{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

type filterRequest struct {
	student.FilterCriteria
	SortBy  string `json:"sort_by"`
	GroupBy string `json:"group_by"`
}

// Filter runs the multi-criteria dashboard filter with optional grouping.
// @Summary Filter students
// @Tags    students
// @Accept  json
// @Produce json
// @Param   input body filterRequest true "filter criteria"
// @Security BearerAuth
// @Success 200 {object} student.FilterResult
// @Router  /students/filter [post]
func (h *StudentsHandler) Filter(c *fiber.Ctx) error {
	var req filterRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	result, err := h.useCase.Filter(c.Context(), req.FilterCriteria, req.SortBy, req.GroupBy)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to filter students")
	}
	return presenter.JSON(c, http.StatusOK, result)
}

// FilterOptions lists the distinct values available as filter choices.
// @Summary Filter options
// @Tags    students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} student.FilterOptions
// @Router  /students/filter-options [get]
func (h *StudentsHandler) FilterOptions(c *fiber.Ctx) error {
	opts, err := h.useCase.FilterOptions(c.Context())
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to load filter options")
	}
	return presenter.JSON(c, http.StatusOK, opts)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
