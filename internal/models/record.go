package models

import (
	"strings"
	"time"
)

// Record is implemented by every persisted entity kind.
type Record interface {
	RecordID() int
	SetRecordID(id int)
	SetCreatedAt(ts string)
}

// Collection names one persisted record collection. The value doubles as the wire/URL name.
type Collection string

const (
	CollectionProfessors  Collection = "professeurs"
	CollectionStudents    Collection = "etudiants"
	CollectionCourses     Collection = "cours"
	CollectionEvaluations Collection = "evaluations"
	CollectionGrades      Collection = "notes"
	CollectionReviews     Collection = "reviews"
)

// Collections lists every collection in display order.
var Collections = []Collection{
	CollectionProfessors,
	CollectionStudents,
	CollectionCourses,
	CollectionEvaluations,
	CollectionGrades,
	CollectionReviews,
}

// FileName is the flat-file resource backing the collection.
func (c Collection) FileName() string {
	return string(c) + ".json"
}

// ParseCollection resolves a user supplied collection name.
func ParseCollection(raw string) (Collection, bool) {
	candidate := Collection(strings.ToLower(strings.TrimSpace(raw)))
	for _, c := range Collections {
		if c == candidate {
			return c, true
		}
	}
	return "", false
}

// TimestampLayout is the ISO-8601 layout used for date_creation.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// FormatTimestamp renders t the way date_creation is persisted.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
