package models

// Evaluation is a graded assessment (exam, quiz, project) of a course.
type Evaluation struct {
	ID          int     `json:"id"`
	Name        string  `json:"nom"`
	CourseID    int     `json:"cours_id"`
	Type        string  `json:"type"`
	Coefficient float64 `json:"coefficient"`
	CreatedAt   string  `json:"date_creation,omitempty"`
}

func (e Evaluation) RecordID() int           { return e.ID }
func (e *Evaluation) SetRecordID(id int)     { e.ID = id }
func (e *Evaluation) SetCreatedAt(ts string) { e.CreatedAt = ts }
