package handlers

import "github.com/go-chi/chi/v5"

// Register подключает маршруты задач и /health к роутеру
func (s *TaskHandler) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)

	r.Route("/api/task", func(r chi.Router) {
		r.Post("/", s.PostTask)
		r.Put("/", s.UpdateTask)

		r.Get("/all", s.GetAll)
		r.Get("/solved/all", s.GetSolvedSummary)
		r.Get("/solved/{day}", s.GetSolvedPerDay)

		r.Post("/csv/new", s.ImportNew)
		r.Post("/csv/exist", s.ImportExist)

		r.Get("/{id}", s.GetOne)
		r.Delete("/{id}", s.DeleteTask)
	})
}
