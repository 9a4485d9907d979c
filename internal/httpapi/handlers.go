package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"classquiz/internal/quiz"

	"go.uber.org/zap"
)

func (a *API) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.handleListQuestions(w, r)
	case http.MethodPost:
		a.handleAddQuestion(w, r)
	default:
		writeMethodNotAllowed(w, "GET, POST")
	}
}

func (a *API) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	questions, err := a.service.SearchQuestions(r.Context(), term)
	if err != nil {
		a.logger.Error("failed to list questions", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, questionsResponse{
		QuestionCount: len(questions),
		Questions:     questions,
	})
}

func (a *API) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var question quiz.Question
	if err := json.NewDecoder(r.Body).Decode(&question); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := a.service.AddQuestion(r.Context(), question); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

func (a *API) HandleQuestionByPosition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w, http.MethodDelete)
		return
	}

	position, err := strconv.Atoi(strings.TrimSpace(r.PathValue("position")))
	if err != nil || position < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "position must be a non-negative integer"})
		return
	}

	if err := a.service.RemoveQuestionAt(r.Context(), position); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	page, err := parsePageParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	records, err := a.service.ListScores(r.Context())
	if err != nil {
		a.logger.Error("failed to list scores", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	filtered := quiz.FilterScores(records, filter)
	quiz.SortScoresByDateDesc(filtered)
	items, page, totalPages := quiz.PaginateScores(filtered, page)

	writeJSON(w, http.StatusOK, scoresResponse{
		Scores:     toScoreResponses(items),
		Page:       page,
		TotalPages: totalPages,
		TotalCount: len(filtered),
	})
}

func (a *API) HandleScoreByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w, http.MethodDelete)
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id must be an integer"})
		return
	}

	if err := a.service.DeleteScore(r.Context(), id); err != nil {
		a.logger.Error("failed to delete score", zap.Int64("id", id), zap.Error(err))
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleScoresExport streams the filtered score set as a CSV attachment. The
// same filter parameters as the listing endpoint apply; pagination does not.
func (a *API) HandleScoresExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	records, err := a.service.ListScores(r.Context())
	if err != nil {
		a.logger.Error("failed to export scores", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	filtered := quiz.FilterScores(records, filter)
	quiz.SortScoresByDateDesc(filtered)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+quiz.ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(quiz.BuildScoresCSV(filtered)))
}
