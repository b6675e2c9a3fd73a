package models

// Professor is a teaching staff member.
type Professor struct {
	ID        int    `json:"id"`
	Name      string `json:"nom"`
	Email     string `json:"email"`
	Specialty string `json:"specialite"`
	CreatedAt string `json:"date_creation,omitempty"`
}

func (p Professor) RecordID() int           { return p.ID }
func (p *Professor) SetRecordID(id int)     { p.ID = id }
func (p *Professor) SetCreatedAt(ts string) { p.CreatedAt = ts }
