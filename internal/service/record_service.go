package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-agent-api/internal/dto"
	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/internal/repository"
	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
)

// collectionOps erases the record type so one REST surface serves every collection.
type collectionOps struct {
	list   func(ctx context.Context) (interface{}, error)
	get    func(ctx context.Context, id int) (interface{}, bool, error)
	update func(ctx context.Context, id int, patch map[string]json.RawMessage) (interface{}, bool, error)
	remove func(ctx context.Context, id int) (bool, error)
	create func(ctx context.Context, body []byte) (interface{}, error)
}

func bindCollection[T any, P repository.RecordPointer[T]](repo *repository.CollectionRepository[T, P]) collectionOps {
	return collectionOps{
		list: func(ctx context.Context) (interface{}, error) {
			return repo.Load(ctx)
		},
		get: func(ctx context.Context, id int) (interface{}, bool, error) {
			return repo.FindByID(ctx, id)
		},
		update: func(ctx context.Context, id int, patch map[string]json.RawMessage) (interface{}, bool, error) {
			return repo.UpdateByID(ctx, id, patch)
		},
		remove: repo.DeleteByID,
	}
}

func createWith[Req any, T any](decode func([]byte, *Req) error, create func(context.Context, Req, CreationPolicy) (T, error)) func(context.Context, []byte) (interface{}, error) {
	return func(ctx context.Context, body []byte) (interface{}, error) {
		var req Req
		if err := decode(body, &req); err != nil {
			return nil, err
		}
		return create(ctx, req, StrictCreation)
	}
}

// RecordService exposes collection CRUD to structured clients, bypassing command extraction.
type RecordService struct {
	ops    map[models.Collection]collectionOps
	logger *zap.Logger
}

// NewRecordService constructs a RecordService. Creation always uses the strict policy.
func NewRecordService(repos *repository.Repositories, creator *EntityCreator, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}

	professors := bindCollection(repos.Professors)
	professors.create = createWith(decodeBody[dto.CreateProfessorRequest], creator.CreateProfessor)
	students := bindCollection(repos.Students)
	students.create = createWith(decodeBody[dto.CreateStudentRequest], creator.CreateStudent)
	courses := bindCollection(repos.Courses)
	courses.create = createWith(decodeBody[dto.CreateCourseRequest], creator.CreateCourse)
	evaluations := bindCollection(repos.Evaluations)
	evaluations.create = createWith(decodeBody[dto.CreateEvaluationRequest], creator.CreateEvaluation)
	grades := bindCollection(repos.Grades)
	grades.create = createWith(decodeBody[dto.CreateGradeRequest], creator.CreateGrade)
	reviews := bindCollection(repos.Reviews)
	reviews.create = createWith(decodeBody[dto.CreateReviewRequest], creator.CreateReview)

	return &RecordService{
		ops: map[models.Collection]collectionOps{
			models.CollectionProfessors:  professors,
			models.CollectionStudents:    students,
			models.CollectionCourses:     courses,
			models.CollectionEvaluations: evaluations,
			models.CollectionGrades:      grades,
			models.CollectionReviews:     reviews,
		},
		logger: logger,
	}
}

// List returns every record of a collection.
func (s *RecordService) List(ctx context.Context, collection models.Collection) (interface{}, error) {
	ops, err := s.opsFor(collection)
	if err != nil {
		return nil, err
	}
	return ops.list(ctx)
}

// Get returns one record or NOT_FOUND.
func (s *RecordService) Get(ctx context.Context, collection models.Collection, id int) (interface{}, error) {
	ops, err := s.opsFor(collection)
	if err != nil {
		return nil, err
	}
	record, found, err := ops.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, recordNotFound(collection, id)
	}
	return record, nil
}

// Create validates the JSON body strictly and persists it.
func (s *RecordService) Create(ctx context.Context, collection models.Collection, body []byte) (interface{}, error) {
	ops, err := s.opsFor(collection)
	if err != nil {
		return nil, err
	}
	record, err := ops.create(ctx, body)
	if err != nil {
		return nil, err
	}
	s.logger.Info("record created", zap.String("collection", string(collection)))
	return record, nil
}

// Update merges a JSON patch over an existing record.
func (s *RecordService) Update(ctx context.Context, collection models.Collection, id int, body []byte) (interface{}, error) {
	ops, err := s.opsFor(collection)
	if err != nil {
		return nil, err
	}
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(body, &patch); err != nil || patch == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "patch must be a JSON object")
	}
	record, found, err := ops.update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, recordNotFound(collection, id)
	}
	return record, nil
}

// Delete removes a record or reports NOT_FOUND.
func (s *RecordService) Delete(ctx context.Context, collection models.Collection, id int) error {
	ops, err := s.opsFor(collection)
	if err != nil {
		return err
	}
	removed, err := ops.remove(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return recordNotFound(collection, id)
	}
	s.logger.Info("record deleted", zap.String("collection", string(collection)), zap.Int("id", id))
	return nil
}

func (s *RecordService) opsFor(collection models.Collection) (collectionOps, error) {
	ops, ok := s.ops[collection]
	if !ok {
		return collectionOps{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("collection %s not found", collection))
	}
	return ops, nil
}

func decodeBody[Req any](body []byte, dest *Req) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body")
	}
	return nil
}

func recordNotFound(collection models.Collection, id int) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %d not found", collection, id))
}
