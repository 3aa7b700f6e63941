package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/devcatalyst/intake-service/internal/metrics"
	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/repositories"
	"github.com/devcatalyst/intake-service/internal/schema"
)

// maxScoreReads bounds concurrent score-tab reads.
const maxScoreReads = 4

// Normalised score-tab headers.
const (
	scoreRollColumn  = "roll_number"
	scoreColumn      = "score"
	scoreTotalColumn = "total_score"
)

// ExportSheet is the tab name used by Export.
const ExportSheet = "Candidates"

type aggregationService struct {
	store   repositories.TabularStore
	form    *models.FormSchema
	labels  map[string]string
	metrics *metrics.Metrics
	logger  *ServiceLogger
	primary string
}

func NewAggregationService(
	store repositories.TabularStore,
	form *models.FormSchema,
	m *metrics.Metrics,
	logger *slog.Logger,
	primarySheet string,
) AggregationService {
	return &aggregationService{
		store:   store,
		form:    form,
		labels:  schema.LabelTable(form),
		metrics: m,
		logger:  NewServiceLogger(logger, LogConfig{Service: "intake-service", Component: "aggregation"}),
		primary: primarySheet,
	}
}

func (s *aggregationService) Aggregate(ctx context.Context) ([]models.CandidateAggregate, error) {
	op := s.logger.WithOperation(ctx, "aggregate")
	records, err := s.aggregate(ctx)
	op.LogResult(s.primary, err)
	return records, err
}

func (s *aggregationService) aggregate(ctx context.Context) ([]models.CandidateAggregate, error) {
	if s.store == nil {
		return nil, NewConfigurationError("STORE_BACKEND", "tabular store credentials are not configured")
	}

	sheets, err := s.store.ListSheets(ctx)
	if err != nil {
		return nil, NewStoreError("list sheets", err)
	}
	primary, ok := resolvePrimary(sheets, s.primary)
	if !ok {
		return []models.CandidateAggregate{}, nil
	}

	headers, err := s.store.HeaderRow(ctx, primary.Title)
	if err != nil {
		return nil, NewStoreError("read header", err)
	}
	if len(headers) == 0 {
		return []models.CandidateAggregate{}, nil
	}
	rows, err := s.store.Rows(ctx, primary.Title)
	if err != nil {
		return nil, NewStoreError("read rows", err)
	}

	scores := s.readScores(ctx, sheets, primary.Title)

	records := make([]models.CandidateAggregate, 0, len(rows))
	for _, row := range rows {
		records = append(records, s.build(row, scores))
	}
	return records, nil
}

// readScores loads every track's score lookup. Slot i belongs to track i; a
// nil slot means the track contributes nothing.
func (s *aggregationService) readScores(ctx context.Context, sheets []repositories.SheetInfo, primary string) []map[string]string {
	candidates := make([]repositories.SheetInfo, 0, len(sheets))
	for _, sheet := range sheets {
		if !strings.EqualFold(sheet.Title, primary) {
			candidates = append(candidates, sheet)
		}
	}

	results := make([]map[string]string, len(s.form.Tracks))
	g := new(errgroup.Group)
	g.SetLimit(maxScoreReads)
	for i, track := range s.form.Tracks {
		g.Go(func() error {
			results[i] = s.readScoreSheet(ctx, candidates, track)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *aggregationService) readScoreSheet(ctx context.Context, sheets []repositories.SheetInfo, track models.Track) map[string]string {
	log := s.logger.Logger().With("track", track.Key, "keyword", track.Keyword)

	sheet, ok := repositories.FindSheet(sheets, track.Keyword)
	if !ok {
		log.InfoContext(ctx, "No score tab for track")
		s.metrics.EnrichFailures.WithLabelValues(track.Key, "missing").Inc()
		return nil
	}

	headers, err := s.store.HeaderRow(ctx, sheet.Title)
	if err != nil {
		log.WarnContext(ctx, "Failed to read score tab header", "sheet", sheet.Title, "error", err)
		s.metrics.EnrichFailures.WithLabelValues(track.Key, "read_error").Inc()
		return nil
	}
	rollColumn, scoreCol := scoreColumns(headers)
	if rollColumn == "" || scoreCol == "" {
		log.InfoContext(ctx, "Score tab has no usable header", "sheet", sheet.Title)
		s.metrics.EnrichFailures.WithLabelValues(track.Key, "headerless").Inc()
		return nil
	}

	rows, err := s.store.Rows(ctx, sheet.Title)
	if err != nil {
		log.WarnContext(ctx, "Failed to read score tab", "sheet", sheet.Title, "error", err)
		s.metrics.EnrichFailures.WithLabelValues(track.Key, "read_error").Inc()
		return nil
	}

	lookup := make(map[string]string, len(rows))
	for _, row := range rows {
		roll := rollKey(row[rollColumn])
		if roll == "" {
			continue
		}
		// Later rows overwrite earlier ones.
		lookup[roll] = strings.TrimSpace(row[scoreCol])
	}
	return lookup
}

// scoreColumns finds the raw header names of the roll-number and score columns.
func scoreColumns(headers []string) (roll, score string) {
	var total string
	for _, h := range headers {
		switch schema.NormalizeHeader(h) {
		case scoreRollColumn:
			if roll == "" {
				roll = h
			}
		case scoreColumn:
			if score == "" {
				score = h
			}
		case scoreTotalColumn:
			if total == "" {
				total = h
			}
		}
	}
	if score == "" {
		score = total
	}
	return roll, score
}

func rollKey(roll string) string {
	return strings.ToUpper(strings.TrimSpace(roll))
}

func (s *aggregationService) build(row repositories.DataRow, scores []map[string]string) models.CandidateAggregate {
	agg := models.NewCandidateAggregate()
	identity := make(map[string]bool, len(models.IdentityFields))
	for _, f := range models.IdentityFields {
		identity[f] = true
		agg.Identity[f] = ""
	}

	for header, value := range row {
		key, ok := s.labels[header]
		if !ok {
			key = schema.NormalizeHeader(header)
		}
		if identity[key] {
			agg.Identity[key] = value
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		agg.Fields[key] = value
	}

	roll := rollKey(agg.Identity[models.FieldRollNumber])
	for i, track := range s.form.Tracks {
		var score *string
		if roll != "" && scores[i] != nil {
			if v, ok := scores[i][roll]; ok {
				score = &v
			}
		}
		agg.Scores[track.ScoreField()] = score
	}
	return agg
}

func (s *aggregationService) Export(ctx context.Context, w io.Writer) error {
	records, err := s.Aggregate(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ExportSheet)
	if err != nil {
		return fmt.Errorf("failed to create export sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	columns := s.exportColumns(records)
	for i, column := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ExportSheet, cell, column)
	}
	for r, record := range records {
		for i, column := range columns {
			value, ok := record.Get(column)
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			f.SetCellValue(ExportSheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// exportColumns orders export columns: identity, track scores, then every
// pass-through field seen in any record, sorted.
func (s *aggregationService) exportColumns(records []models.CandidateAggregate) []string {
	columns := append([]string{}, models.IdentityFields...)
	for _, track := range s.form.Tracks {
		columns = append(columns, track.ScoreField())
	}

	seen := make(map[string]bool)
	var fields []string
	for _, record := range records {
		for key := range record.Fields {
			if !seen[key] {
				seen[key] = true
				fields = append(fields, key)
			}
		}
	}
	sort.Strings(fields)
	return append(columns, fields...)
}
