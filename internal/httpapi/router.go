package httpapi

import (
	"net/http"

	"classquiz/internal/quiz"

	"go.uber.org/zap"
)

func NewRouter(service *quiz.Service, logger *zap.Logger) http.Handler {
	api := NewAPI(service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/questions", api.HandleQuestions)
	mux.HandleFunc("/questions/{position}", api.HandleQuestionByPosition)
	mux.HandleFunc("/scores", api.HandleScores)
	mux.HandleFunc("/scores/export", api.HandleScoresExport)
	mux.HandleFunc("/scores/{id}", api.HandleScoreByID)

	return withRequestLogging(api.logger, mux)
}
