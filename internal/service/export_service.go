package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/internal/repository"
	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
	"github.com/noah-isme/edu-agent-api/pkg/export"
)

// ExportFile is a rendered collection ready to be served or written.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

// ExportService renders collections as CSV or PDF tables.
type ExportService struct {
	repos     *repository.Repositories
	renderers map[export.Format]export.Renderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService with the default renderers.
func NewExportService(repos *repository.Repositories, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repos: repos,
		renderers: map[export.Format]export.Renderer{
			export.FormatCSV: export.NewCSVRenderer(),
			export.FormatPDF: export.NewPDFRenderer(),
		},
		logger: logger,
	}
}

// Export renders one collection in the requested format.
func (s *ExportService) Export(ctx context.Context, collection models.Collection, format export.Format) (*ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}
	data, err := s.Dataset(ctx, collection)
	if err != nil {
		return nil, err
	}
	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("collection exported",
		zap.String("collection", string(collection)),
		zap.String("format", string(format)),
		zap.Int("rows", len(data.Rows)),
	)
	return &ExportFile{
		Filename:    string(collection) + format.Extension(),
		ContentType: format.ContentType(),
		Body:        body,
		Rows:        len(data.Rows),
	}, nil
}

// Dataset tabulates a collection using the persisted field names as headers.
func (s *ExportService) Dataset(ctx context.Context, collection models.Collection) (export.Dataset, error) {
	data := export.Dataset{Title: string(collection)}
	switch collection {
	case models.CollectionProfessors:
		records, err := s.repos.Professors.Load(ctx)
		if err != nil {
			return data, err
		}
		data.Headers = []string{"id", "nom", "email", "specialite", "date_creation"}
		for _, r := range records {
			data.Rows = append(data.Rows, []string{itoa(r.ID), r.Name, r.Email, r.Specialty, r.CreatedAt})
		}
	case models.CollectionStudents:
		records, err := s.repos.Students.Load(ctx)
		if err != nil {
			return data, err
		}
		data.Headers = []string{"id", "nom", "email", "numero_etudiant", "date_naissance", "date_creation"}
		for _, r := range records {
			data.Rows = append(data.Rows, []string{itoa(r.ID), r.Name, r.Email, r.StudentNumber, r.BirthDate, r.CreatedAt})
		}
	case models.CollectionCourses:
		records, err := s.repos.Courses.Load(ctx)
		if err != nil {
			return data, err
		}
		data.Headers = []string{"id", "nom", "code", "credits", "professeur_id", "date_creation"}
		for _, r := range records {
			data.Rows = append(data.Rows, []string{itoa(r.ID), r.Name, r.Code, itoa(r.Credits), itoa(r.ProfessorID), r.CreatedAt})
		}
	case models.CollectionEvaluations:
		records, err := s.repos.Evaluations.Load(ctx)
		if err != nil {
			return data, err
		}
		data.Headers = []string{"id", "nom", "cours_id", "type", "coefficient", "date_creation"}
		for _, r := range records {
			data.Rows = append(data.Rows, []string{itoa(r.ID), r.Name, itoa(r.CourseID), r.Type, displayNumber(r.Coefficient), r.CreatedAt})
		}
	case models.CollectionGrades:
		records, err := s.repos.Grades.Load(ctx)
		if err != nil {
			return data, err
		}
		data.Headers = []string{"id", "etudiant_id", "evaluation_id", "valeur", "commentaire", "date_creation"}
		for _, r := range records {
			data.Rows = append(data.Rows, []string{itoa(r.ID), itoa(r.StudentID), itoa(r.EvaluationID), displayNumber(r.Value), r.Comment, r.CreatedAt})
		}
	case models.CollectionReviews:
		records, err := s.repos.Reviews.Load(ctx)
		if err != nil {
			return data, err
		}
		data.Headers = []string{"id", "etudiant_id", "cours_id", "note", "commentaire", "date_creation"}
		for _, r := range records {
			data.Rows = append(data.Rows, []string{itoa(r.ID), itoa(r.StudentID), itoa(r.CourseID), itoa(r.Rating), r.Comment, r.CreatedAt})
		}
	default:
		return data, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("collection %s not found", collection))
	}
	return data, nil
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
