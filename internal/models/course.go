package models

// Course is a taught subject. ProfessorID is not checked against the professors collection.
type Course struct {
	ID          int    `json:"id"`
	Name        string `json:"nom"`
	Code        string `json:"code"`
	Credits     int    `json:"credits"`
	ProfessorID int    `json:"professeur_id"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"date_creation,omitempty"`
}

func (c Course) RecordID() int           { return c.ID }
func (c *Course) SetRecordID(id int)     { c.ID = id }
func (c *Course) SetCreatedAt(ts string) { c.CreatedAt = ts }
