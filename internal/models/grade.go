package models

// Grade is a student's mark on an evaluation, out of 20.
type Grade struct {
	ID           int     `json:"id"`
	StudentID    int     `json:"etudiant_id"`
	EvaluationID int     `json:"evaluation_id"`
	Value        float64 `json:"valeur"`
	Comment      string  `json:"commentaire"`
	CreatedAt    string  `json:"date_creation,omitempty"`
}

func (g Grade) RecordID() int           { return g.ID }
func (g *Grade) SetRecordID(id int)     { g.ID = id }
func (g *Grade) SetCreatedAt(ts string) { g.CreatedAt = ts }
