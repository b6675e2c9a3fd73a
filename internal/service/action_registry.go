package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/edu-agent-api/internal/dto"
	"github.com/noah-isme/edu-agent-api/internal/models"
)

// ActionKind separates mutating actions from read-only ones.
type ActionKind string

const (
	ActionKindCreate   ActionKind = "create"
	ActionKindRetrieve ActionKind = "retrieve"
)

// Action names recognised inside generated text.
const (
	ActionCreateProfessor  = "create_professeur"
	ActionCreateStudent    = "create_etudiant"
	ActionCreateCourse     = "create_cours"
	ActionCreateEvaluation = "create_evaluation"
	ActionCreateGrade      = "create_note"
	ActionCreateReview     = "create_review"
	ActionGetStudents      = "get_etudiants"
	ActionGetProfessors    = "get_professeurs"
	ActionGetCourses       = "get_cours"
	ActionGetGrades        = "get_notes"
	ActionGetStats         = "get_stats"
	ActionGetReviews       = "get_reviews"
	ActionGetEvaluations   = "get_evaluations"
)

// ActionHandler executes one action against its parsed payload and returns display text.
type ActionHandler interface {
	Handle(ctx context.Context, payload map[string]json.RawMessage) (string, error)
}

// ActionHandlerFunc adapts a function to ActionHandler.
type ActionHandlerFunc func(ctx context.Context, payload map[string]json.RawMessage) (string, error)

// Handle implements ActionHandler.
func (f ActionHandlerFunc) Handle(ctx context.Context, payload map[string]json.RawMessage) (string, error) {
	return f(ctx, payload)
}

// ActionDefinition binds an action name to its handler and the collections it touches.
type ActionDefinition struct {
	Name        string
	Kind        ActionKind
	Collections []models.Collection
	Description string
	Handler     ActionHandler
}

// ActionRegistry is an ordered set of actions. Order decides which action wins when several
// openings appear in the same text.
type ActionRegistry struct {
	ordered []ActionDefinition
	index   map[string]int
}

// NewActionRegistry creates an empty registry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{index: make(map[string]int)}
}

// Register appends an action; names must be unique.
func (r *ActionRegistry) Register(def ActionDefinition) error {
	if def.Name == "" || def.Handler == nil {
		return fmt.Errorf("action definition requires a name and a handler")
	}
	if _, exists := r.index[def.Name]; exists {
		return fmt.Errorf("action %s already registered", def.Name)
	}
	r.index[def.Name] = len(r.ordered)
	r.ordered = append(r.ordered, def)
	return nil
}

// MustRegister is Register for definitions fixed at build time; it panics on a duplicate or
// incomplete definition.
func (r *ActionRegistry) MustRegister(def ActionDefinition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition registered under name.
func (r *ActionRegistry) Lookup(name string) (ActionDefinition, bool) {
	i, ok := r.index[name]
	if !ok {
		return ActionDefinition{}, false
	}
	return r.ordered[i], true
}

// Names lists action names in registration order.
func (r *ActionRegistry) Names() []string {
	names := make([]string, len(r.ordered))
	for i, def := range r.ordered {
		names[i] = def.Name
	}
	return names
}

// Describe lists the registry for API consumers.
func (r *ActionRegistry) Describe() []dto.ActionInfo {
	infos := make([]dto.ActionInfo, 0, len(r.ordered))
	for _, def := range r.ordered {
		collections := make([]string, len(def.Collections))
		for i, c := range def.Collections {
			collections[i] = string(c)
		}
		infos = append(infos, dto.ActionInfo{
			Name:        def.Name,
			Kind:        string(def.Kind),
			Collections: collections,
			Description: def.Description,
		})
	}
	return infos
}

// NewDefaultActionRegistry registers the six creation and seven retrieval actions.
func NewDefaultActionRegistry(creator *EntityCreator, retriever *DataRetriever) *ActionRegistry {
	registry := NewActionRegistry()
	defs := []ActionDefinition{
		{Name: ActionCreateProfessor, Kind: ActionKindCreate, Collections: []models.Collection{models.CollectionProfessors}, Description: "Crée un professeur", Handler: ActionHandlerFunc(creator.HandleCreateProfessor)},
		{Name: ActionCreateStudent, Kind: ActionKindCreate, Collections: []models.Collection{models.CollectionStudents}, Description: "Crée un étudiant", Handler: ActionHandlerFunc(creator.HandleCreateStudent)},
		{Name: ActionCreateCourse, Kind: ActionKindCreate, Collections: []models.Collection{models.CollectionCourses}, Description: "Crée un cours", Handler: ActionHandlerFunc(creator.HandleCreateCourse)},
		{Name: ActionCreateEvaluation, Kind: ActionKindCreate, Collections: []models.Collection{models.CollectionEvaluations}, Description: "Crée une évaluation", Handler: ActionHandlerFunc(creator.HandleCreateEvaluation)},
		{Name: ActionCreateGrade, Kind: ActionKindCreate, Collections: []models.Collection{models.CollectionGrades}, Description: "Crée une note", Handler: ActionHandlerFunc(creator.HandleCreateGrade)},
		{Name: ActionCreateReview, Kind: ActionKindCreate, Collections: []models.Collection{models.CollectionReviews}, Description: "Crée une review", Handler: ActionHandlerFunc(creator.HandleCreateReview)},
		{Name: ActionGetStudents, Kind: ActionKindRetrieve, Collections: []models.Collection{models.CollectionStudents}, Description: "Liste les étudiants", Handler: ActionHandlerFunc(retriever.HandleStudents)},
		{Name: ActionGetProfessors, Kind: ActionKindRetrieve, Collections: []models.Collection{models.CollectionProfessors}, Description: "Liste les professeurs", Handler: ActionHandlerFunc(retriever.HandleProfessors)},
		{Name: ActionGetCourses, Kind: ActionKindRetrieve, Collections: []models.Collection{models.CollectionCourses}, Description: "Liste les cours", Handler: ActionHandlerFunc(retriever.HandleCourses)},
		{Name: ActionGetGrades, Kind: ActionKindRetrieve, Collections: []models.Collection{models.CollectionGrades}, Description: "Liste les notes", Handler: ActionHandlerFunc(retriever.HandleGrades)},
		{Name: ActionGetStats, Kind: ActionKindRetrieve, Collections: append([]models.Collection(nil), models.Collections...), Description: "Statistiques du système", Handler: ActionHandlerFunc(retriever.HandleStats)},
		{Name: ActionGetReviews, Kind: ActionKindRetrieve, Collections: []models.Collection{models.CollectionReviews}, Description: "Liste les reviews", Handler: ActionHandlerFunc(retriever.HandleReviews)},
		{Name: ActionGetEvaluations, Kind: ActionKindRetrieve, Collections: []models.Collection{models.CollectionEvaluations}, Description: "Liste les évaluations", Handler: ActionHandlerFunc(retriever.HandleEvaluations)},
	}
	for _, def := range defs {
		registry.MustRegister(def)
	}
	return registry
}
