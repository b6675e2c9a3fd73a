package models

import "time"

// StatsSummary aggregates collection sizes and the overall grade average.
type StatsSummary struct {
	Professors   int       `json:"nb_professeurs"`
	Students     int       `json:"nb_etudiants"`
	Courses      int       `json:"nb_cours"`
	Evaluations  int       `json:"nb_evaluations"`
	Grades       int       `json:"nb_notes"`
	Reviews      int       `json:"nb_reviews"`
	AverageGrade float64   `json:"moyenne_generale"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Snapshot is every collection at once, as handed to the language model.
type Snapshot struct {
	Professors  []Professor  `json:"professeurs"`
	Students    []Student    `json:"etudiants"`
	Courses     []Course     `json:"cours"`
	Evaluations []Evaluation `json:"evaluations"`
	Grades      []Grade      `json:"notes"`
	Reviews     []Review     `json:"reviews"`
	Stats       StatsSummary `json:"stats"`
}
