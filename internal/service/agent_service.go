package service

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// OutcomeLLMError marks a chat turn where the model call failed.
const OutcomeLLMError DispatchOutcome = "llm_error"

// SystemPrompt instructs the model on the action descriptor formats it may emit.
const SystemPrompt = `Tu es un assistant IA éducatif.

IMPORTANT: Si l'utilisateur fournit directement un JSON de création, réponds UNIQUEMENT avec ce JSON exact, sans texte supplémentaire.

Pour créer des entités, utilise ces formats JSON exacts :

PROFESSEUR:
{"action": "create_professeur", "nom": "Jean Dupont", "specialite": "Mathématiques"}

ÉTUDIANT:
{"action": "create_etudiant", "nom": "Marie Martin", "numero_etudiant": "E2024003"}

COURS:
{"action": "create_cours", "nom": "Python", "code": "PY001", "credits": 3, "professeur_id": 1}

ÉVALUATION:
{"action": "create_evaluation", "nom": "Examen Final", "cours_id": 1, "type": "examen", "coefficient": 2}

NOTE:
{"action": "create_note", "etudiant_id": 1, "evaluation_id": 1, "valeur": 15.5, "commentaire": "Bon travail"}

REVIEW:
{"action": "create_review", "etudiant_id": 1, "cours_id": 1, "note": 4, "commentaire": "Excellent cours"}

Pour consulter des données, utilise ces actions :
{"action": "get_etudiants"}
{"action": "get_professeurs"}
{"action": "get_cours"}
{"action": "get_notes"}
{"action": "get_stats"}
{"action": "get_reviews"}
{"action": "get_evaluations"}

Si l'utilisateur pose une question, réponds naturellement puis ajoute le JSON si nécessaire pour effectuer une action.`

// Completer produces a model reply for a system prompt and a user message.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// AgentService answers chat turns: the model sees the current data, and its reply is dispatched.
type AgentService struct {
	dispatcher *Dispatcher
	stats      *StatsService
	llm        Completer
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewAgentService constructs an AgentService. A nil completer dispatches user messages directly.
func NewAgentService(dispatcher *Dispatcher, stats *StatsService, llm Completer, metrics *MetricsService, logger *zap.Logger) *AgentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgentService{dispatcher: dispatcher, stats: stats, llm: llm, metrics: metrics, logger: logger}
}

// LLMEnabled reports whether chat turns go through the model.
func (s *AgentService) LLMEnabled() bool {
	return s.llm != nil
}

// Chat runs one conversational turn.
func (s *AgentService) Chat(ctx context.Context, query string) DispatchResult {
	if s.llm == nil {
		return s.dispatcher.Dispatch(ctx, query)
	}

	userMessage, err := s.BuildUserMessage(ctx, query)
	if err != nil {
		s.logger.Warn("snapshot unavailable", zap.Error(err))
		return DispatchResult{Reply: "Erreur: " + err.Error(), Outcome: OutcomeLLMError}
	}

	start := time.Now()
	reply, err := s.llm.Complete(ctx, SystemPrompt, userMessage)
	s.metrics.ObserveCompletion(time.Since(start))
	if err != nil {
		s.logger.Error("completion failed", zap.Error(err))
		s.metrics.RecordDispatch("", OutcomeLLMError)
		return DispatchResult{Reply: "Erreur: " + err.Error(), Outcome: OutcomeLLMError}
	}

	return s.dispatcher.Dispatch(ctx, reply)
}

// Dispatch runs text through the dispatcher without the model.
func (s *AgentService) Dispatch(ctx context.Context, text string) DispatchResult {
	return s.dispatcher.Dispatch(ctx, text)
}

// BuildUserMessage embeds the current data snapshot ahead of the question.
func (s *AgentService) BuildUserMessage(ctx context.Context, query string) (string, error) {
	snap, err := s.stats.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return "", err
	}
	return "Données: " + string(bytes.TrimRight(buf.Bytes(), "\n")) + "\n\nQuestion: " + query, nil
}
