package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-agent-api/internal/dto"
	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/internal/repository"
	"github.com/noah-isme/edu-agent-api/pkg/coerce"
	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
)

// CreationPolicy decides what happens to missing or out-of-range creation parameters.
type CreationPolicy string

const (
	// LenientCreation fills every omitted parameter with its default and never rejects.
	LenientCreation CreationPolicy = "lenient"
	// StrictCreation validates the payload before defaults are applied.
	StrictCreation CreationPolicy = "strict"
)

// PolicyFromConfig maps the LENIENT_CREATION flag to a policy.
func PolicyFromConfig(lenient bool) CreationPolicy {
	if lenient {
		return LenientCreation
	}
	return StrictCreation
}

// Creation defaults.
const (
	DefaultProfessorName      = "Professeur Inconnu"
	DefaultProfessorSpecialty = "Enseignement général"
	DefaultStudentName        = "Étudiant Inconnu"
	DefaultCourseName         = "Cours Inconnu"
	DefaultCourseCredits      = 3
	DefaultEvaluationName     = "Évaluation"
	DefaultEvaluationType     = "controle"
	DefaultReviewComment      = "Pas de commentaire"
	defaultReference          = 1
	defaultGradeValue         = 10.0
	defaultReviewRating       = 3
	defaultCoefficient        = 1.0
	professorEmailDomain      = "university.com"
	studentEmailDomain        = "student.com"
)

// EntityCreator applies defaults and persists new records.
type EntityCreator struct {
	repos     *repository.Repositories
	validator *validator.Validate
	formatter *ResponseFormatter
	policy    CreationPolicy
	logger    *zap.Logger
}

// NewEntityCreator constructs an EntityCreator. policy applies to dispatched actions; structured
// callers pass their own policy per call.
func NewEntityCreator(repos *repository.Repositories, validate *validator.Validate, formatter *ResponseFormatter, policy CreationPolicy, logger *zap.Logger) *EntityCreator {
	if validate == nil {
		validate = validator.New()
	}
	if formatter == nil {
		formatter = NewResponseFormatter()
	}
	if policy == "" {
		policy = LenientCreation
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityCreator{repos: repos, validator: validate, formatter: formatter, policy: policy, logger: logger}
}

// Policy reports the policy used for dispatched actions.
func (c *EntityCreator) Policy() CreationPolicy {
	return c.policy
}

// CreateProfessor persists a professor. The default email derives from the name.
func (c *EntityCreator) CreateProfessor(ctx context.Context, req dto.CreateProfessorRequest, policy CreationPolicy) (models.Professor, error) {
	if err := c.check(req, policy, "professor"); err != nil {
		return models.Professor{}, err
	}
	record := models.Professor{Name: stringOr(req.Name, DefaultProfessorName)}
	record.Email = stringOr(req.Email, derivedEmail(record.Name, professorEmailDomain))
	record.Specialty = stringOr(req.Specialty, DefaultProfessorSpecialty)
	return c.repos.Professors.Insert(ctx, record)
}

// CreateStudent persists a student. The default number is E<year><count+1 on 3 digits>.
func (c *EntityCreator) CreateStudent(ctx context.Context, req dto.CreateStudentRequest, policy CreationPolicy) (models.Student, error) {
	if err := c.check(req, policy, "student"); err != nil {
		return models.Student{}, err
	}
	year := c.repos.Store.Now().Year()
	return c.repos.Students.InsertWith(ctx, func(existing []models.Student) (models.Student, error) {
		record := models.Student{Name: stringOr(req.Name, DefaultStudentName)}
		record.Email = stringOr(req.Email, derivedEmail(record.Name, studentEmailDomain))
		record.StudentNumber = stringOr(req.StudentNumber, fmt.Sprintf("E%d%03d", year, len(existing)+1))
		record.BirthDate = stringOr(req.BirthDate, "")
		return record, nil
	})
}

// CreateCourse persists a course. The default code is the first three letters of the name
// upper-cased followed by 001.
func (c *EntityCreator) CreateCourse(ctx context.Context, req dto.CreateCourseRequest, policy CreationPolicy) (models.Course, error) {
	if err := c.check(req, policy, "course"); err != nil {
		return models.Course{}, err
	}
	record := models.Course{Name: stringOr(req.Name, DefaultCourseName)}
	record.Code = stringOr(req.Code, derivedCourseCode(record.Name))
	record.Credits = intOr(req.Credits, DefaultCourseCredits)
	record.ProfessorID = intOr(req.ProfessorID, defaultReference)
	record.Description = stringOr(req.Description, "")
	return c.repos.Courses.Insert(ctx, record)
}

// CreateEvaluation persists an evaluation.
func (c *EntityCreator) CreateEvaluation(ctx context.Context, req dto.CreateEvaluationRequest, policy CreationPolicy) (models.Evaluation, error) {
	if err := c.check(req, policy, "evaluation"); err != nil {
		return models.Evaluation{}, err
	}
	record := models.Evaluation{
		Name:        stringOr(req.Name, DefaultEvaluationName),
		CourseID:    intOr(req.CourseID, defaultReference),
		Type:        stringOr(req.Type, DefaultEvaluationType),
		Coefficient: floatOr(req.Coefficient, defaultCoefficient),
	}
	return c.repos.Evaluations.Insert(ctx, record)
}

// CreateGrade persists a grade.
func (c *EntityCreator) CreateGrade(ctx context.Context, req dto.CreateGradeRequest, policy CreationPolicy) (models.Grade, error) {
	if err := c.check(req, policy, "grade"); err != nil {
		return models.Grade{}, err
	}
	record := models.Grade{
		StudentID:    intOr(req.StudentID, defaultReference),
		EvaluationID: intOr(req.EvaluationID, defaultReference),
		Value:        floatOr(req.Value, defaultGradeValue),
		Comment:      stringOr(req.Comment, ""),
	}
	return c.repos.Grades.Insert(ctx, record)
}

// CreateReview persists a review; fractional ratings are truncated.
func (c *EntityCreator) CreateReview(ctx context.Context, req dto.CreateReviewRequest, policy CreationPolicy) (models.Review, error) {
	if err := c.check(req, policy, "review"); err != nil {
		return models.Review{}, err
	}
	rating := defaultReviewRating
	if req.Rating != nil {
		rating = int(math.Trunc(*req.Rating))
	}
	record := models.Review{
		StudentID: intOr(req.StudentID, defaultReference),
		CourseID:  intOr(req.CourseID, defaultReference),
		Rating:    rating,
		Comment:   stringOr(req.Comment, DefaultReviewComment),
	}
	return c.repos.Reviews.Insert(ctx, record)
}

// HandleCreateProfessor is the create_professeur action.
func (c *EntityCreator) HandleCreateProfessor(ctx context.Context, payload map[string]json.RawMessage) (string, error) {
	var req dto.CreateProfessorRequest
	if err := c.decodeParams(payload, &req, ActionCreateProfessor); err != nil {
		return "", err
	}
	record, err := c.CreateProfessor(ctx, req, c.policy)
	if err != nil {
		return "", err
	}
	return c.formatter.ProfessorCreated(record), nil
}

// HandleCreateStudent is the create_etudiant action.
func (c *EntityCreator) HandleCreateStudent(ctx context.Context, payload map[string]json.RawMessage) (string, error) {
	var req dto.CreateStudentRequest
	if err := c.decodeParams(payload, &req, ActionCreateStudent); err != nil {
		return "", err
	}
	record, err := c.CreateStudent(ctx, req, c.policy)
	if err != nil {
		return "", err
	}
	return c.formatter.StudentCreated(record), nil
}

// HandleCreateCourse is the create_cours action.
func (c *EntityCreator) HandleCreateCourse(ctx context.Context, payload map[string]json.RawMessage) (string, error) {
	var req dto.CreateCourseRequest
	if err := c.decodeParams(payload, &req, ActionCreateCourse); err != nil {
		return "", err
	}
	record, err := c.CreateCourse(ctx, req, c.policy)
	if err != nil {
		return "", err
	}
	return c.formatter.CourseCreated(record), nil
}

// HandleCreateEvaluation is the create_evaluation action.
func (c *EntityCreator) HandleCreateEvaluation(ctx context.Context, payload map[string]json.RawMessage) (string, error) {
	var req dto.CreateEvaluationRequest
	if err := c.decodeParams(payload, &req, ActionCreateEvaluation); err != nil {
		return "", err
	}
	record, err := c.CreateEvaluation(ctx, req, c.policy)
	if err != nil {
		return "", err
	}
	return c.formatter.EvaluationCreated(record), nil
}

// HandleCreateGrade is the create_note action.
func (c *EntityCreator) HandleCreateGrade(ctx context.Context, payload map[string]json.RawMessage) (string, error) {
	var req dto.CreateGradeRequest
	if err := c.decodeParams(payload, &req, ActionCreateGrade); err != nil {
		return "", err
	}
	record, err := c.CreateGrade(ctx, req, c.policy)
	if err != nil {
		return "", err
	}
	return c.formatter.GradeCreated(record), nil
}

// HandleCreateReview is the create_review action.
func (c *EntityCreator) HandleCreateReview(ctx context.Context, payload map[string]json.RawMessage) (string, error) {
	var req dto.CreateReviewRequest
	if err := c.decodeParams(payload, &req, ActionCreateReview); err != nil {
		return "", err
	}
	record, err := c.CreateReview(ctx, req, c.policy)
	if err != nil {
		return "", err
	}
	return c.formatter.ReviewCreated(record), nil
}

func (c *EntityCreator) check(req interface{}, policy CreationPolicy, entity string) error {
	if policy != StrictCreation {
		return nil
	}
	if err := c.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid %s payload", entity))
	}
	return nil
}

// decodeParams fills a typed request from action parameters. Strict creation decodes exactly; lenient
// creation coerces loosely typed values and leaves unconvertible ones to their defaults.
func (c *EntityCreator) decodeParams(payload map[string]json.RawMessage, dest interface{}, action string) error {
	if c.policy == StrictCreation {
		return decodePayload(payload, dest)
	}

	params := make(map[string]any, len(payload))
	for key, raw := range payload {
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		params[key] = value
	}
	rejected, err := coerce.Fields(params, dest)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "paramètres illisibles")
	}
	if len(rejected) > 0 {
		c.logger.Debug("creation parameters replaced by defaults",
			zap.String("action", action),
			zap.Strings("fields", rejected),
		)
	}
	return nil
}

// decodePayload maps the descriptor fields onto a typed request. Unknown keys, including the
// action name itself, are ignored.
func decodePayload(payload map[string]json.RawMessage, dest interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "paramètres illisibles")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "paramètres invalides")
	}
	return nil
}

func derivedEmail(name, domain string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@" + domain
}

func derivedCourseCode(name string) string {
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes)) + "001"
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func floatOr(value *float64, fallback float64) float64 {
	if value == nil {
		return fallback
	}
	return *value
}
