package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mkravets/student-profiles/api/http/presenter"
	"github.com/mkravets/student-profiles/pkg/student"
	"github.com/mkravets/student-profiles/pkg/teams"
)

type TeamsHandler struct {
	students student.UseCase
}

func NewTeamsHandler(students student.UseCase) *TeamsHandler {
	return &TeamsHandler{students: students}
}

type formTeamsRequest struct {
	TeamSize   int            `json:"team_size"`
	StudentIDs []int64        `json:"student_ids"`
	Criteria   teams.Criteria `json:"criteria"`
}

// Form builds complementary-skill teams from the selected students, or from
// the whole roster when no ids are given.
// @Summary Form teams
// @Tags    teams
// @Accept  json
// @Produce json
// @Param   input body formTeamsRequest true "team parameters"
// @Security BearerAuth
// @Success 200 {array} teams.Team
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /students/form-teams [post]
func (h *TeamsHandler) Form(c *fiber.Ctx) error {
	var req formTeamsRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	roster, err := h.students.List(c.Context(), 200, 0)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to load students")
	}
	if len(req.StudentIDs) > 0 {
		wanted := make(map[int64]struct{}, len(req.StudentIDs))
		for _, id := range req.StudentIDs {
			wanted[id] = struct{}{}
		}
		var selected []student.Student
		for _, st := range roster {
			if _, ok := wanted[st.ID]; ok {
				selected = append(selected, st)
			}
		}
		roster = selected
	}
	if len(roster) == 0 {
		return presenter.Error(c, http.StatusBadRequest, "no students available for team formation")
	}

	formed := teams.Form(roster, req.TeamSize, req.Criteria)
	return presenter.JSON(c, http.StatusOK, formed)
}
