package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mkravets/student-profiles/api/http/handlers"
	"github.com/mkravets/student-profiles/pkg/auth"
	"github.com/mkravets/student-profiles/pkg/security/jwt"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	Students  *handlers.StudentsHandler
	Resumes   *handlers.ResumesHandler
	Surveys   *handlers.SurveysHandler
	Analytics *handlers.AnalyticsHandler
	Teams     *handlers.TeamsHandler
	Export    *handlers.ExportHandler
}

// Register wires all HTTP routes onto given Fiber app. authMW protects
// everything except health probes and the auth endpoints.
func Register(app *fiber.App, h Handlers, authMW fiber.Handler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	a := v1.Group("/auth")
	a.Post("/register", h.Auth.Register)
	a.Post("/login", h.Auth.Login)

	// Student profiles. Literal routes go first so they are not swallowed
	// by the :id parameter.
	st := v1.Group("/students", authMW)
	st.Post("/", h.Students.Create)
	st.Get("/", h.Students.List)
	st.Get("/search", h.Students.Search)
	st.Post("/filter", h.Students.Filter)
	st.Get("/filter-options", h.Students.FilterOptions)
	st.Post("/form-teams", h.Teams.Form)
	st.Get("/:id", h.Students.Get)
	st.Put("/:id", h.Students.Update)
	st.Delete("/:id", h.Students.Delete)

	// Resume ingestion pipeline
	st.Post("/:id/resume", h.Resumes.Upload)
	st.Get("/:id/resumes", h.Resumes.ListVersions)
	st.Get("/:id/resume/discrepancies", h.Resumes.Discrepancies)
	v1.Get("/resumes/:id/download", authMW, h.Resumes.Download)

	// Surveys and templates
	sv := v1.Group("/surveys", authMW)
	sv.Post("/", h.Surveys.Create)
	sv.Get("/", h.Surveys.List)
	sv.Get("/:id", h.Surveys.Get)
	sv.Put("/:id", h.Surveys.Update)
	sv.Post("/:id/responses", h.Surveys.SubmitResponse)
	sv.Get("/:id/responses", h.Surveys.ListResponses)

	tpl := v1.Group("/survey-templates", authMW)
	tpl.Post("/", h.Surveys.CreateTemplate)
	tpl.Get("/", h.Surveys.ListTemplates)

	// Dashboard analytics (teacher only)
	an := v1.Group("/analytics", authMW, jwt.RequireRole(auth.RoleTeacher))
	an.Get("/overview", h.Analytics.Overview)
	an.Get("/skills", h.Analytics.Skills)
	an.Get("/students/:id", h.Analytics.StudentSummary)
	an.Get("/goals", h.Analytics.Goals)

	// Data export (teacher only)
	v1.Get("/export/:format", authMW, jwt.RequireRole(auth.RoleTeacher), h.Export.Students)
}
