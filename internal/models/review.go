package models

// Review is a student's rating of a course, out of 5.
type Review struct {
	ID        int    `json:"id"`
	StudentID int    `json:"etudiant_id"`
	CourseID  int    `json:"cours_id"`
	Rating    int    `json:"note"`
	Comment   string `json:"commentaire"`
	CreatedAt string `json:"date_creation,omitempty"`
}

func (r Review) RecordID() int           { return r.ID }
func (r *Review) SetRecordID(id int)     { r.ID = id }
func (r *Review) SetCreatedAt(ts string) { r.CreatedAt = ts }
