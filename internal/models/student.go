package models

// Student represents a learner registered in the institution.
type Student struct {
	ID            int    `json:"id"`
	Name          string `json:"nom"`
	Email         string `json:"email"`
	StudentNumber string `json:"numero_etudiant"`
	BirthDate     string `json:"date_naissance,omitempty"`
	CreatedAt     string `json:"date_creation,omitempty"`
}

func (s Student) RecordID() int           { return s.ID }
func (s *Student) SetRecordID(id int)     { s.ID = id }
func (s *Student) SetCreatedAt(ts string) { s.CreatedAt = ts }
