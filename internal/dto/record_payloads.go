package dto

// Creation payloads share the action descriptor field names. Pointer fields distinguish an absent
// parameter from its zero value so defaults only fill what was omitted.

// CreateProfessorRequest carries create_professeur parameters.
type CreateProfessorRequest struct {
	Name      *string `json:"nom" validate:"required,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Specialty *string `json:"specialite" validate:"omitempty,min=1"`
}

// CreateStudentRequest carries create_etudiant parameters.
type CreateStudentRequest struct {
	Name          *string `json:"nom" validate:"required,min=1"`
	Email         *string `json:"email" validate:"omitempty,email"`
	StudentNumber *string `json:"numero_etudiant" validate:"omitempty,min=1"`
	BirthDate     *string `json:"date_naissance" validate:"omitempty,datetime=2006-01-02"`
}

// CreateCourseRequest carries create_cours parameters.
type CreateCourseRequest struct {
	Name        *string `json:"nom" validate:"required,min=1"`
	Code        *string `json:"code" validate:"omitempty,min=1"`
	Credits     *int    `json:"credits" validate:"omitnil,gte=0"`
	ProfessorID *int    `json:"professeur_id" validate:"omitnil,gt=0"`
	Description *string `json:"description"`
}

// CreateEvaluationRequest carries create_evaluation parameters.
type CreateEvaluationRequest struct {
	Name        *string  `json:"nom" validate:"required,min=1"`
	CourseID    *int     `json:"cours_id" validate:"required,gt=0"`
	Type        *string  `json:"type" validate:"omitempty,min=1"`
	Coefficient *float64 `json:"coefficient" validate:"omitnil,gt=0"`
}

// CreateGradeRequest carries create_note parameters. Grades are out of 20.
type CreateGradeRequest struct {
	StudentID    *int     `json:"etudiant_id" validate:"required,gt=0"`
	EvaluationID *int     `json:"evaluation_id" validate:"required,gt=0"`
	Value        *float64 `json:"valeur" validate:"required,gte=0,lte=20"`
	Comment      *string  `json:"commentaire"`
}

// CreateReviewRequest carries create_review parameters. Ratings are out of 5; fractional values
// are truncated.
type CreateReviewRequest struct {
	StudentID *int     `json:"etudiant_id" validate:"required,gt=0"`
	CourseID  *int     `json:"cours_id" validate:"required,gt=0"`
	Rating    *float64 `json:"note" validate:"required,gte=1,lte=5"`
	Comment   *string  `json:"commentaire"`
}
