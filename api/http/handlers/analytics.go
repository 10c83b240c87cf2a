package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mkravets/student-profiles/api/http/presenter"
	"github.com/mkravets/student-profiles/pkg/analytics"
	"github.com/mkravets/student-profiles/pkg/student"
)

type AnalyticsHandler struct {
	useCase analytics.UseCase
}

func NewAnalyticsHandler(useCase analytics.UseCase) *AnalyticsHandler {
	return &AnalyticsHandler{useCase: useCase}
}

// Overview returns the class-wide dashboard summary.
// @Summary Analytics overview
// @Tags    analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} analytics.Overview
// @Router  /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	ov, err := h.useCase.Overview(c.Context())
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to build overview")
	}
	return presenter.JSON(c, http.StatusOK, ov)
}

// Skills returns the detailed skills breakdown.
// @Summary Skills report
// @Tags    analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} analytics.SkillsReport
// @Router  /analytics/skills [get]
func (h *AnalyticsHandler) Skills(c *fiber.Ctx) error {
	report, err := h.useCase.Skills(c.Context())
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to build skills report")
	}
	return presenter.JSON(c, http.StatusOK, report)
}

// StudentSummary returns the per-student analytics view.
// @Summary Student summary
// @Tags    analytics
// @Produce json
// @Param   id path int true "student id"
// @Security BearerAuth
// @Success 200 {object} analytics.StudentSummary
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /analytics/students/{id} [get]
func (h *AnalyticsHandler) StudentSummary(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	summary, err := h.useCase.StudentSummary(c.Context(), id)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "student not found")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to build student summary")
	}
	return presenter.JSON(c, http.StatusOK, summary)
}

// Goals returns the goal statements aggregated across the class.
// @Summary Goals report
// @Tags    analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} analytics.GoalsReport
// @Router  /analytics/goals [get]
func (h *AnalyticsHandler) Goals(c *fiber.Ctx) error {
	report, err := h.useCase.Goals(c.Context())
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to build goals report")
	}
	return presenter.JSON(c, http.StatusOK, report)
}
