package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/internal/repository"
	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
)

// DataRetriever implements the read-only actions.
type DataRetriever struct {
	repos     *repository.Repositories
	stats     *StatsService
	formatter *ResponseFormatter
}

// NewDataRetriever constructs a DataRetriever.
func NewDataRetriever(repos *repository.Repositories, stats *StatsService, formatter *ResponseFormatter) *DataRetriever {
	if formatter == nil {
		formatter = NewResponseFormatter()
	}
	return &DataRetriever{repos: repos, stats: stats, formatter: formatter}
}

// HandleProfessors is the get_professeurs action.
func (r *DataRetriever) HandleProfessors(ctx context.Context, _ map[string]json.RawMessage) (string, error) {
	records, err := r.repos.Professors.Load(ctx)
	if err != nil {
		return "", err
	}
	return r.formatter.Professors(records), nil
}

// HandleStudents is the get_etudiants action.
func (r *DataRetriever) HandleStudents(ctx context.Context, _ map[string]json.RawMessage) (string, error) {
	records, err := r.repos.Students.Load(ctx)
	if err != nil {
		return "", err
	}
	return r.formatter.Students(records), nil
}

// HandleCourses is the get_cours action.
func (r *DataRetriever) HandleCourses(ctx context.Context, _ map[string]json.RawMessage) (string, error) {
	records, err := r.repos.Courses.Load(ctx)
	if err != nil {
		return "", err
	}
	return r.formatter.Courses(records), nil
}

// HandleEvaluations is the get_evaluations action.
func (r *DataRetriever) HandleEvaluations(ctx context.Context, _ map[string]json.RawMessage) (string, error) {
	records, err := r.repos.Evaluations.Load(ctx)
	if err != nil {
		return "", err
	}
	return r.formatter.Evaluations(records), nil
}

// HandleGrades is the get_notes action.
func (r *DataRetriever) HandleGrades(ctx context.Context, _ map[string]json.RawMessage) (string, error) {
	records, err := r.repos.Grades.Load(ctx)
	if err != nil {
		return "", err
	}
	return r.formatter.Grades(records), nil
}

// HandleReviews is the get_reviews action.
func (r *DataRetriever) HandleReviews(ctx context.Context, _ map[string]json.RawMessage) (string, error) {
	records, err := r.repos.Reviews.Load(ctx)
	if err != nil {
		return "", err
	}
	return r.formatter.Reviews(records), nil
}

// HandleStats is the get_stats action. Counts are always fresh.
func (r *DataRetriever) HandleStats(ctx context.Context, _ map[string]json.RawMessage) (string, error) {
	summary, err := r.stats.Compute(ctx)
	if err != nil {
		return "", err
	}
	return r.formatter.Stats(summary), nil
}

// Listing renders the chat listing of one collection.
func (r *DataRetriever) Listing(ctx context.Context, collection models.Collection) (string, error) {
	handlers := map[models.Collection]ActionHandlerFunc{
		models.CollectionProfessors:  r.HandleProfessors,
		models.CollectionStudents:    r.HandleStudents,
		models.CollectionCourses:     r.HandleCourses,
		models.CollectionEvaluations: r.HandleEvaluations,
		models.CollectionGrades:      r.HandleGrades,
		models.CollectionReviews:     r.HandleReviews,
	}
	handler, ok := handlers[collection]
	if !ok {
		return "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("collection %s inconnue", collection))
	}
	return handler(ctx, nil)
}
