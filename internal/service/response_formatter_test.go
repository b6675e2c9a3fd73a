package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/edu-agent-api/internal/models"
)

func TestFormatterEmptyCollections(t *testing.T) {
	f := NewResponseFormatter()
	assert.Equal(t, EmptyProfessorsMessage, f.Professors(nil))
	assert.Equal(t, EmptyStudentsMessage, f.Students(nil))
	assert.Equal(t, EmptyCoursesMessage, f.Courses(nil))
	assert.Equal(t, EmptyEvaluationsMessage, f.Evaluations(nil))
	assert.Equal(t, EmptyGradesMessage, f.Grades(nil))
	assert.Equal(t, EmptyReviewsMessage, f.Reviews(nil))
}

func TestFormatterProfessorLayout(t *testing.T) {
	f := NewResponseFormatter()
	got := f.Professors([]models.Professor{
		{ID: 1, Name: "Jean Dupont", Email: "jean.dupont@university.com", Specialty: "Informatique"},
		{ID: 2, Name: "Anne Petit"},
	})
	want := "📋 **Liste des professeurs :**\n\n" +
		"• **Jean Dupont** (ID: 1)\n" +
		"  📧 jean.dupont@university.com\n" +
		"  🎯 Spécialité: Informatique\n\n" +
		"• **Anne Petit** (ID: 2)\n" +
		"  📧 N/A\n" +
		"  🎯 Spécialité: N/A\n\n"
	assert.Equal(t, want, got)
}

func TestFormatterCourseAndEvaluationLayout(t *testing.T) {
	f := NewResponseFormatter()
	courses := f.Courses([]models.Course{{ID: 3, Name: "Python", Code: "PY001", Credits: 3}})
	assert.Equal(t, "📋 **Liste des cours :**\n\n"+
		"• **Python** (ID: 3)\n"+
		"  🔖 Code: PY001\n"+
		"  ⭐ Crédits: 3\n"+
		"  👨‍🏫 Professeur ID: N/A\n\n", courses)

	evaluations := f.Evaluations([]models.Evaluation{{ID: 1, Name: "DS", CourseID: 3, Type: "examen", Coefficient: 1.5}})
	assert.Contains(t, evaluations, "  ⚖️ Coefficient: 1.5\n\n")
	assert.Contains(t, evaluations, "  📚 Cours ID: 3\n")
}

func TestFormatterCommentsOnlyWhenPresent(t *testing.T) {
	f := NewResponseFormatter()
	grades := f.Grades([]models.Grade{
		{ID: 1, StudentID: 1, EvaluationID: 2, Value: 15.5, Comment: "Bon travail"},
		{ID: 2, StudentID: 2, EvaluationID: 2, Value: 12},
	})
	assert.Equal(t, "📋 **Liste des notes :**\n\n"+
		"• **Note: 15.5/20** (ID: 1)\n"+
		"  🎓 Étudiant ID: 1\n"+
		"  📝 Évaluation ID: 2\n"+
		"  💬 Bon travail\n\n"+
		"• **Note: 12/20** (ID: 2)\n"+
		"  🎓 Étudiant ID: 2\n"+
		"  📝 Évaluation ID: 2\n\n", grades)

	reviews := f.Reviews([]models.Review{{ID: 1, StudentID: 1, CourseID: 1, Rating: 5}})
	assert.NotContains(t, reviews, "💬")
	assert.Contains(t, reviews, "• **Note: 5/5** (ID: 1)\n")
}

func TestFormatterStats(t *testing.T) {
	f := NewResponseFormatter()
	got := f.Stats(models.StatsSummary{Professors: 2, Grades: 7})
	assert.Equal(t, "📊 **Statistiques du système :**\n\n"+
		"👨‍🏫 Professeurs: 2\n"+
		"🎓 Étudiants: 0\n"+
		"📚 Cours: 0\n"+
		"📝 Évaluations: 0\n"+
		"📋 Notes: 7\n"+
		"⭐ Reviews: 0\n", got)
}

func TestFormatterConfirmations(t *testing.T) {
	f := NewResponseFormatter()
	assert.Equal(t, "✅ Note 18.25/20 créée (ID: 4)", f.GradeCreated(models.Grade{ID: 4, Value: 18.25}))
	assert.Equal(t, "✅ Review 2/5 créée (ID: 9)", f.ReviewCreated(models.Review{ID: 9, Rating: 2}))
	assert.Equal(t, "✅ Cours Algo créé (ID: 1)", f.CourseCreated(models.Course{ID: 1, Name: "Algo"}))
}
