package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/edu-agent-api/internal/models"
)

const notAvailable = "N/A"

// Empty collection messages.
const (
	EmptyProfessorsMessage  = "📋 Aucun professeur enregistré"
	EmptyStudentsMessage    = "📋 Aucun étudiant enregistré"
	EmptyCoursesMessage     = "📋 Aucun cours enregistré"
	EmptyEvaluationsMessage = "📋 Aucune évaluation enregistrée"
	EmptyGradesMessage      = "📋 Aucune note enregistrée"
	EmptyReviewsMessage     = "📋 Aucune review enregistrée"
)

// ResponseFormatter renders records as the fixed chat layouts.
type ResponseFormatter struct{}

// NewResponseFormatter constructs a ResponseFormatter.
func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

// Professors renders the professor listing.
func (f *ResponseFormatter) Professors(records []models.Professor) string {
	if len(records) == 0 {
		return EmptyProfessorsMessage
	}
	var b strings.Builder
	b.WriteString("📋 **Liste des professeurs :**\n\n")
	for _, p := range records {
		fmt.Fprintf(&b, "• **%s** (ID: %s)\n", displayText(p.Name), displayID(p.ID))
		fmt.Fprintf(&b, "  📧 %s\n", displayText(p.Email))
		fmt.Fprintf(&b, "  🎯 Spécialité: %s\n\n", displayText(p.Specialty))
	}
	return b.String()
}

// Students renders the student listing.
func (f *ResponseFormatter) Students(records []models.Student) string {
	if len(records) == 0 {
		return EmptyStudentsMessage
	}
	var b strings.Builder
	b.WriteString("📋 **Liste des étudiants :**\n\n")
	for _, s := range records {
		fmt.Fprintf(&b, "• **%s** (ID: %s)\n", displayText(s.Name), displayID(s.ID))
		fmt.Fprintf(&b, "  📧 %s\n", displayText(s.Email))
		fmt.Fprintf(&b, "  🎓 Numéro: %s\n\n", displayText(s.StudentNumber))
	}
	return b.String()
}

// Courses renders the course listing.
func (f *ResponseFormatter) Courses(records []models.Course) string {
	if len(records) == 0 {
		return EmptyCoursesMessage
	}
	var b strings.Builder
	b.WriteString("📋 **Liste des cours :**\n\n")
	for _, c := range records {
		fmt.Fprintf(&b, "• **%s** (ID: %s)\n", displayText(c.Name), displayID(c.ID))
		fmt.Fprintf(&b, "  🔖 Code: %s\n", displayText(c.Code))
		fmt.Fprintf(&b, "  ⭐ Crédits: %d\n", c.Credits)
		fmt.Fprintf(&b, "  👨‍🏫 Professeur ID: %s\n\n", displayID(c.ProfessorID))
	}
	return b.String()
}

// Evaluations renders the evaluation listing.
func (f *ResponseFormatter) Evaluations(records []models.Evaluation) string {
	if len(records) == 0 {
		return EmptyEvaluationsMessage
	}
	var b strings.Builder
	b.WriteString("📋 **Liste des évaluations :**\n\n")
	for _, e := range records {
		fmt.Fprintf(&b, "• **%s** (ID: %s)\n", displayText(e.Name), displayID(e.ID))
		fmt.Fprintf(&b, "  📚 Cours ID: %s\n", displayID(e.CourseID))
		fmt.Fprintf(&b, "  📝 Type: %s\n", displayText(e.Type))
		fmt.Fprintf(&b, "  ⚖️ Coefficient: %s\n\n", displayNumber(e.Coefficient))
	}
	return b.String()
}

// Grades renders the grade listing. Comments are shown only when present.
func (f *ResponseFormatter) Grades(records []models.Grade) string {
	if len(records) == 0 {
		return EmptyGradesMessage
	}
	var b strings.Builder
	b.WriteString("📋 **Liste des notes :**\n\n")
	for _, g := range records {
		fmt.Fprintf(&b, "• **Note: %s/20** (ID: %s)\n", displayNumber(g.Value), displayID(g.ID))
		fmt.Fprintf(&b, "  🎓 Étudiant ID: %s\n", displayID(g.StudentID))
		fmt.Fprintf(&b, "  📝 Évaluation ID: %s\n", displayID(g.EvaluationID))
		if g.Comment != "" {
			fmt.Fprintf(&b, "  💬 %s\n", g.Comment)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Reviews renders the review listing.
func (f *ResponseFormatter) Reviews(records []models.Review) string {
	if len(records) == 0 {
		return EmptyReviewsMessage
	}
	var b strings.Builder
	b.WriteString("📋 **Liste des reviews :**\n\n")
	for _, r := range records {
		fmt.Fprintf(&b, "• **Note: %d/5** (ID: %s)\n", r.Rating, displayID(r.ID))
		fmt.Fprintf(&b, "  🎓 Étudiant ID: %s\n", displayID(r.StudentID))
		fmt.Fprintf(&b, "  📚 Cours ID: %s\n", displayID(r.CourseID))
		if r.Comment != "" {
			fmt.Fprintf(&b, "  💬 %s\n", r.Comment)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Stats renders the per-collection counts.
func (f *ResponseFormatter) Stats(stats models.StatsSummary) string {
	var b strings.Builder
	b.WriteString("📊 **Statistiques du système :**\n\n")
	fmt.Fprintf(&b, "👨‍🏫 Professeurs: %d\n", stats.Professors)
	fmt.Fprintf(&b, "🎓 Étudiants: %d\n", stats.Students)
	fmt.Fprintf(&b, "📚 Cours: %d\n", stats.Courses)
	fmt.Fprintf(&b, "📝 Évaluations: %d\n", stats.Evaluations)
	fmt.Fprintf(&b, "📋 Notes: %d\n", stats.Grades)
	fmt.Fprintf(&b, "⭐ Reviews: %d\n", stats.Reviews)
	return b.String()
}

// Creation confirmations.

func (f *ResponseFormatter) ProfessorCreated(p models.Professor) string {
	return fmt.Sprintf("✅ Professeur %s créé (ID: %d)", p.Name, p.ID)
}

func (f *ResponseFormatter) StudentCreated(s models.Student) string {
	return fmt.Sprintf("✅ Étudiant %s créé (ID: %d)", s.Name, s.ID)
}

func (f *ResponseFormatter) CourseCreated(c models.Course) string {
	return fmt.Sprintf("✅ Cours %s créé (ID: %d)", c.Name, c.ID)
}

func (f *ResponseFormatter) EvaluationCreated(e models.Evaluation) string {
	return fmt.Sprintf("✅ Évaluation %s créée (ID: %d)", e.Name, e.ID)
}

func (f *ResponseFormatter) GradeCreated(g models.Grade) string {
	return fmt.Sprintf("✅ Note %s/20 créée (ID: %d)", displayNumber(g.Value), g.ID)
}

func (f *ResponseFormatter) ReviewCreated(r models.Review) string {
	return fmt.Sprintf("✅ Review %d/5 créée (ID: %d)", r.Rating, r.ID)
}

func displayText(value string) string {
	if strings.TrimSpace(value) == "" {
		return notAvailable
	}
	return value
}

func displayID(value int) string {
	if value == 0 {
		return notAvailable
	}
	return strconv.Itoa(value)
}

func displayNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
