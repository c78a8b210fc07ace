package routers

import (
	"questionbank/internal/handlers"
	"questionbank/internal/metrics"
	"questionbank/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// QuestionRoutes mounts /api/questions. Every route needs a caller; writes
// need an admin.
func QuestionRoutes(r chi.Router, questionHandler *handlers.QuestionHandler, auth *middleware.Authenticator) {
	r.Route("/api/questions", func(r chi.Router) {
		r.Get("/", auth.Protect(questionHandler.ListQuestionsHandler))
		r.Post("/", auth.Protect(middleware.AdminOnly(questionHandler.CreateQuestionHandler)))
		r.Get("/{id}", auth.Protect(questionHandler.GetQuestionHandler))
		r.Delete("/{id}", auth.Protect(middleware.AdminOnly(questionHandler.DeleteQuestionHandler)))
		r.Post("/{id}/answers", auth.Protect(questionHandler.SubmitAnswerHandler))
	})
}

func SubjectRoutes(r chi.Router, subjectHandler *handlers.SubjectHandler, auth *middleware.Authenticator) {
	r.Route("/api/subjects", func(r chi.Router) {
		r.Get("/", subjectHandler.ListSubjectsHandler)
		r.Post("/", auth.Protect(middleware.AdminOnly(subjectHandler.CreateSubjectHandler)))
	})
}

func AuthRoutes(r chi.Router, authHandler *handlers.AuthHandler, auth *middleware.Authenticator) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.RegisterHandler)
		r.Post("/login", authHandler.LoginHandler)
		r.Post("/forgotpassword", authHandler.ForgotPasswordHandler)
		r.Get("/me", auth.Protect(authHandler.MeHandler))
		r.Get("/logout", authHandler.LogoutHandler)
	})
}

// HealthRoutes mounts the probes and the Prometheus endpoint at the root.
func HealthRoutes(r chi.Router, healthHandler *handlers.HealthHandler) {
	r.Get("/healthz", healthHandler.HealthzHandler)
	r.Get("/readyz", healthHandler.ReadyzHandler)
	r.Handle("/metrics", metrics.Handler())
}
