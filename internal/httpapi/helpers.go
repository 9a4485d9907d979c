package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"classquiz/internal/quiz"
)

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "question not found"})
	case errors.Is(err, quiz.ErrInvalidQuestion):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

// parseFilter builds the score filter from query parameters. All criteria are
// optional; from/to accept RFC 3339 timestamps or plain dates, and a plain
// "to" date covers that whole day.
func parseFilter(r *http.Request) (quiz.Filter, error) {
	filter := quiz.Filter{
		Class: strings.TrimSpace(r.URL.Query().Get("class")),
		Name:  strings.TrimSpace(r.URL.Query().Get("name")),
	}

	minScore, err := parseScoreParam(r, "min_score")
	if err != nil {
		return quiz.Filter{}, err
	}
	filter.MinScore = minScore

	maxScore, err := parseScoreParam(r, "max_score")
	if err != nil {
		return quiz.Filter{}, err
	}
	filter.MaxScore = maxScore

	from, err := parseDateParam(r, "from", false)
	if err != nil {
		return quiz.Filter{}, err
	}
	filter.From = from

	to, err := parseDateParam(r, "to", true)
	if err != nil {
		return quiz.Filter{}, err
	}
	filter.To = to

	return filter, nil
}

func parseScoreParam(r *http.Request, key string) (*int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return nil, errors.New(key + " must be a non-negative integer")
	}
	return &parsed, nil
}

func parseDateParam(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return nil, nil
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed, nil
	}

	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, errors.New(key + " must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}
	if endOfDay {
		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return &parsed, nil
}

func parsePageParam(r *http.Request) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get("page"))
	if value == "" {
		return 1, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New("page must be a positive integer")
	}
	return parsed, nil
}

func toScoreResponses(records []quiz.ScoreRecord) []scoreResponse {
	response := make([]scoreResponse, 0, len(records))
	for _, record := range records {
		response = append(response, scoreResponse{
			ID:    record.ID,
			Name:  record.Name,
			Class: record.Class,
			Score: record.Score,
			Date:  record.Date.UTC().Format(time.RFC3339),
		})
	}
	return response
}

func writeMethodNotAllowed(w http.ResponseWriter, allowedMethods string) {
	w.Header().Set("Allow", allowedMethods)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
