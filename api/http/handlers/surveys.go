package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mkravets/student-profiles/api/http/presenter"
	"github.com/mkravets/student-profiles/pkg/survey"
)

type SurveysHandler struct {
	useCase survey.UseCase
}

func NewSurveysHandler(useCase survey.UseCase) *SurveysHandler {
	return &SurveysHandler{useCase: useCase}
}

// Create authors a new survey.
// @Summary Create survey
// @Tags    surveys
// @Accept  json
// @Produce json
// @Param   input body survey.Survey true "survey payload"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /surveys [post]
func (h *SurveysHandler) Create(c *fiber.Ctx) error {
	var sv survey.Survey
	if err := c.BodyParser(&sv); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if sv.CreatedBy == "" {
		sv.CreatedBy, _ = c.Locals("userId").(string)
	}
	id, err := h.useCase.Create(c.Context(), sv)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{"id": id})
}

// List returns surveys with response counters.
// @Summary List surveys
// @Tags    surveys
// @Produce json
// @Security BearerAuth
// @Success 200 {array} survey.Survey
// @Router  /surveys [get]
func (h *SurveysHandler) List(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	items, err := h.useCase.List(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list surveys")
	}
	if items == nil {
		items = []survey.Survey{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Get returns one survey with its questions.
// @Summary Get survey
// @Tags    surveys
// @Produce json
// @Param   id path int true "survey id"
// @Security BearerAuth
// @Success 200 {object} survey.Survey
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /surveys/{id} [get]
func (h *SurveysHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	sv, err := h.useCase.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, survey.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "survey not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load survey")
	}
	return presenter.JSON(c, http.StatusOK, sv)
}

// Update edits a survey's title, questions or active flag.
// @Summary Update survey
// @Tags    surveys
// @Accept  json
// @Produce json
// @Param   id path int true "survey id"
// @Param   input body survey.Survey true "survey payload"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /surveys/{id} [put]
func (h *SurveysHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	var sv survey.Survey
	if err := c.BodyParser(&sv); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	sv.ID = id
	if err := h.useCase.Update(c.Context(), sv); err != nil {
		if errors.Is(err, survey.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "survey not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to update survey")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"id": id, "updated": true})
}

type submitResponseRequest struct {
	StudentID int64          `json:"student_id"`
	Answers   map[string]any `json:"responses"`
}

// SubmitResponse records a student's answers and auto-populates the profile.
// @Summary Submit survey response
// @Tags    surveys
// @Accept  json
// @Produce json
// @Param   id path int true "survey id"
// @Param   input body submitResponseRequest true "answers keyed by question id"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /surveys/{id}/responses [post]
func (h *SurveysHandler) SubmitResponse(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	var req submitResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if req.StudentID <= 0 {
		return presenter.Error(c, http.StatusBadRequest, "student_id is required")
	}
	resp := survey.Response{SurveyID: id, StudentID: req.StudentID, Answers: req.Answers}
	if err := h.useCase.SubmitResponse(c.Context(), resp); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to submit response")
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{"submitted": true})
}

// ListResponses returns all responses for a survey with student identity.
// @Summary List survey responses
// @Tags    surveys
// @Produce json
// @Param   id path int true "survey id"
// @Security BearerAuth
// @Success 200 {array} survey.Response
// @Router  /surveys/{id}/responses [get]
func (h *SurveysHandler) ListResponses(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	items, err := h.useCase.ListResponses(c.Context(), id)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list responses")
	}
	if items == nil {
		items = []survey.Response{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// CreateTemplate saves a reusable question set.
// @Summary Create survey template
// @Tags    surveys
// @Accept  json
// @Produce json
// @Param   input body survey.Template true "template payload"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /survey-templates [post]
func (h *SurveysHandler) CreateTemplate(c *fiber.Ctx) error {
	var t survey.Template
	if err := c.BodyParser(&t); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if t.CreatedBy == "" {
		t.CreatedBy, _ = c.Locals("userId").(string)
	}
	id, err := h.useCase.CreateTemplate(c.Context(), t)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{"id": id})
}

// ListTemplates returns the caller's templates plus the shared ones.
// @Summary List survey templates
// @Tags    surveys
// @Produce json
// @Security BearerAuth
// @Success 200 {array} survey.Template
// @Router  /survey-templates [get]
func (h *SurveysHandler) ListTemplates(c *fiber.Ctx) error {
	createdBy, _ := c.Locals("userId").(string)
	items, err := h.useCase.ListTemplates(c.Context(), createdBy)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list templates")
	}
	if items == nil {
		items = []survey.Template{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}
