package repository

import "github.com/noah-isme/edu-agent-api/internal/models"

type (
	ProfessorRepository  = CollectionRepository[models.Professor, *models.Professor]
	StudentRepository    = CollectionRepository[models.Student, *models.Student]
	CourseRepository     = CollectionRepository[models.Course, *models.Course]
	EvaluationRepository = CollectionRepository[models.Evaluation, *models.Evaluation]
	GradeRepository      = CollectionRepository[models.Grade, *models.Grade]
	ReviewRepository     = CollectionRepository[models.Review, *models.Review]
)

// Repositories bundles one typed repository per collection over a shared store.
type Repositories struct {
	Store       *RecordStore
	Professors  *ProfessorRepository
	Students    *StudentRepository
	Courses     *CourseRepository
	Evaluations *EvaluationRepository
	Grades      *GradeRepository
	Reviews     *ReviewRepository
}

// NewRepositories wires every collection repository to store.
func NewRepositories(store *RecordStore) *Repositories {
	return &Repositories{
		Store:       store,
		Professors:  NewCollectionRepository[models.Professor, *models.Professor](store, models.CollectionProfessors),
		Students:    NewCollectionRepository[models.Student, *models.Student](store, models.CollectionStudents),
		Courses:     NewCollectionRepository[models.Course, *models.Course](store, models.CollectionCourses),
		Evaluations: NewCollectionRepository[models.Evaluation, *models.Evaluation](store, models.CollectionEvaluations),
		Grades:      NewCollectionRepository[models.Grade, *models.Grade](store, models.CollectionGrades),
		Reviews:     NewCollectionRepository[models.Review, *models.Review](store, models.CollectionReviews),
	}
}
