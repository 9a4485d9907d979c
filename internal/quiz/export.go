package quiz

import (
	"strconv"
	"strings"
	"time"
)

// ExportFilename is the download name offered for score exports.
const ExportFilename = "quiz_scores.csv"

// BuildScoresCSV renders one row per record under a fixed header. Values are
// comma-joined without quoting, so a name or class containing a comma shifts
// its row's columns.
func BuildScoresCSV(records []ScoreRecord) string {
	rows := make([]string, 0, len(records)+1)
	rows = append(rows, "Name,Class,Score,Date")
	for _, record := range records {
		rows = append(rows, strings.Join([]string{
			record.Name,
			record.Class,
			strconv.Itoa(record.Score),
			record.Date.UTC().Format(time.RFC3339),
		}, ","))
	}
	return strings.Join(rows, "\n")
}
