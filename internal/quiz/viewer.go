package quiz

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PageSize is the fixed number of score rows per page.
const PageSize = 10

// Filter narrows the displayed score set. Zero-valued criteria are inactive;
// active criteria combine with logical AND.
type Filter struct {
	Class    string
	Name     string
	MinScore *int
	MaxScore *int
	From     *time.Time
	To       *time.Time
}

func (f Filter) Matches(record ScoreRecord) bool {
	if f.Class != "" && record.Class != f.Class {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(record.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.MinScore != nil && record.Score < *f.MinScore {
		return false
	}
	if f.MaxScore != nil && record.Score > *f.MaxScore {
		return false
	}
	if f.From != nil && record.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && record.Date.After(*f.To) {
		return false
	}
	return true
}

func FilterScores(records []ScoreRecord, filter Filter) []ScoreRecord {
	matches := make([]ScoreRecord, 0, len(records))
	for _, record := range records {
		if filter.Matches(record) {
			matches = append(matches, record)
		}
	}
	return matches
}

// SortScoresByDateDesc orders most recent first. The sort is stable so
// records sharing a timestamp keep their stored order.
func SortScoresByDateDesc(records []ScoreRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}

// TotalPages is ceil(count/PageSize), with an empty set still occupying one
// (empty) page.
func TotalPages(count int) int {
	if count == 0 {
		return 1
	}
	return (count + PageSize - 1) / PageSize
}

// PaginateScores returns the records of the requested page along with the
// clamped page number and the total page count.
func PaginateScores(records []ScoreRecord, page int) ([]ScoreRecord, int, int) {
	totalPages := TotalPages(len(records))
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	if start >= len(records) {
		return []ScoreRecord{}, page, totalPages
	}
	end := start + PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], page, totalPages
}

// Viewer holds the scores page state: the loaded working set, the active
// filter, and the current page.
type Viewer struct {
	scores ScoreRepository
	logger *zap.Logger

	all    []ScoreRecord
	filter Filter
	page   int
}

func NewViewer(scores ScoreRepository, logger *zap.Logger) *Viewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Viewer{
		scores: scores,
		logger: logger,
		all:    []ScoreRecord{},
		page:   1,
	}
}

// Load refreshes the working set from the store. The current page is kept but
// clamped if the filtered set shrank.
func (v *Viewer) Load(ctx context.Context) error {
	records, err := v.scores.ListScores(ctx)
	if err != nil {
		v.logger.Error("failed to load scores", zap.Error(err))
		return err
	}
	v.all = records
	v.clampPage()
	return nil
}

// SetFilter replaces the active filter and resets paging to the first page.
func (v *Viewer) SetFilter(filter Filter) {
	v.filter = filter
	v.page = 1
}

func (v *Viewer) Filter() Filter {
	return v.filter
}

// Filtered returns the filtered working set sorted date-descending.
func (v *Viewer) Filtered() []ScoreRecord {
	matches := FilterScores(v.all, v.filter)
	SortScoresByDateDesc(matches)
	return matches
}

func (v *Viewer) Page() []ScoreRecord {
	items, page, _ := PaginateScores(v.Filtered(), v.page)
	v.page = page
	return items
}

func (v *Viewer) CurrentPage() int {
	return v.page
}

func (v *Viewer) TotalPages() int {
	return TotalPages(len(v.Filtered()))
}

func (v *Viewer) HasPrev() bool {
	return v.page > 1
}

func (v *Viewer) HasNext() bool {
	return v.page < v.TotalPages()
}

// Prev and Next are no-ops at the first and last page respectively.
func (v *Viewer) Prev() {
	if v.HasPrev() {
		v.page--
	}
}

func (v *Viewer) Next() {
	if v.HasNext() {
		v.page++
	}
}

// Delete removes one record by identifier and reloads the working set. The
// reload only happens after the store confirmed the delete.
func (v *Viewer) Delete(ctx context.Context, id int64) error {
	if err := v.scores.DeleteScore(ctx, id); err != nil {
		v.logger.Error("failed to delete score", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return v.Load(ctx)
}

// ExportCSV renders the full filtered set, ignoring pagination.
func (v *Viewer) ExportCSV() string {
	return BuildScoresCSV(v.Filtered())
}

func (v *Viewer) clampPage() {
	totalPages := v.TotalPages()
	if v.page > totalPages {
		v.page = totalPages
	}
	if v.page < 1 {
		v.page = 1
	}
}
