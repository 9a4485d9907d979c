package httpapi

import "classquiz/internal/quiz"

type questionsResponse struct {
	QuestionCount int             `json:"question_count"`
	Questions     []quiz.Question `json:"questions"`
}

type scoreResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
	Score int    `json:"score"`
	Date  string `json:"date"`
}

type scoresResponse struct {
	Scores     []scoreResponse `json:"scores"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	TotalCount int             `json:"total_count"`
}

type errorResponse struct {
	Error string `json:"error"`
}
