package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
)

var registryOrder = []string{
	ActionCreateProfessor, ActionCreateStudent, ActionCreateCourse, ActionCreateEvaluation,
	ActionCreateGrade, ActionCreateReview, ActionGetStudents, ActionGetProfessors, ActionGetCourses,
	ActionGetGrades, ActionGetStats, ActionGetReviews, ActionGetEvaluations,
}

func TestExtractReturnsNilWithoutOpening(t *testing.T) {
	e := NewCommandExtractor(registryOrder, false)
	for _, text := range []string{
		"Bonjour, comment puis-je aider ?",
		`{"action": "delete_everything"}`,
		`{"nom": "Dupont", "action": "create_professeur"}`,
	} {
		cmd, err := e.Extract(text)
		require.NoError(t, err, text)
		assert.Nil(t, cmd, text)
	}
}

func TestExtractIsolatesCommandAmidProse(t *testing.T) {
	e := NewCommandExtractor(registryOrder, false)
	body := `{"action":"create_note","etudiant_id":1,"evaluation_id":1,"valeur":12,"commentaire":"ok"}`
	text := "Voici un exemple {sans action} puis la commande " + body + " et un mot de fin."

	cmd, err := e.Extract(text)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, ActionCreateGrade, cmd.Action)
	assert.Equal(t, body, cmd.Fragment)
	assert.Equal(t, json.RawMessage(`12`), cmd.Payload["valeur"])
	assert.Equal(t, body, text[cmd.Start:cmd.End])
}

func TestExtractToleratesWhitespaceVariants(t *testing.T) {
	e := NewCommandExtractor(registryOrder, false)
	for _, text := range []string{
		`{"action": "get_stats"}`,
		`{"action":"get_stats"}`,
		`{ "action": "get_stats" }`,
		`{ "action":"get_stats"}`,
		"{\n  \"action\"\t:\n \"get_stats\"\n}",
	} {
		cmd, err := e.Extract(text)
		require.NoError(t, err, text)
		require.NotNil(t, cmd, text)
		assert.Equal(t, ActionGetStats, cmd.Action)
	}
}

func TestExtractPrefersRegistryOrderThenEarliestOccurrence(t *testing.T) {
	e := NewCommandExtractor(registryOrder, false)
	text := `{"action": "get_stats"} puis {"action": "create_professeur", "nom": "A"} et {"action": "create_professeur", "nom": "B"}`

	cmd, err := e.Extract(text)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, ActionCreateProfessor, cmd.Action)
	assert.Equal(t, json.RawMessage(`"A"`), cmd.Payload["nom"])
}

func TestExtractBalancedBracesInsideComment(t *testing.T) {
	text := `{"action":"create_review","etudiant_id":1,"cours_id":1,"note":5,"commentaire":"Great, but {note: too short}"}`

	for _, quoteAware := range []bool{false, true} {
		cmd, err := NewCommandExtractor(registryOrder, quoteAware).Extract(text)
		require.NoError(t, err)
		require.NotNil(t, cmd)
		assert.Equal(t, text, cmd.Fragment)
		assert.Equal(t, json.RawMessage(`"Great, but {note: too short}"`), cmd.Payload["commentaire"])
	}
}

func TestExtractUnbalancedBraceInsideComment(t *testing.T) {
	text := `Réponse: {"action":"create_review","etudiant_id":1,"cours_id":1,"note":2,"commentaire":"trop court :}"} merci`

	_, err := NewCommandExtractor(registryOrder, false).Extract(text)
	require.Error(t, err)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, ActionCreateReview, parseErr.Action)
	assert.Equal(t, `{"action":"create_review","etudiant_id":1,"cours_id":1,"note":2,"commentaire":"trop court :}`, parseErr.Fragment)
	assert.True(t, errors.Is(err, appErrors.ErrParse))

	cmd, err := NewCommandExtractor(registryOrder, true).Extract(text)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, json.RawMessage(`"trop court :}"`), cmd.Payload["commentaire"])
}

func TestExtractQuoteAwareHandlesEscapedQuotes(t *testing.T) {
	text := `{"action":"create_note","commentaire":"il a dit \"}\" puis {"}`
	cmd, err := NewCommandExtractor(registryOrder, true).Extract(text)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, text, cmd.Fragment)
}

func TestExtractUnterminatedObject(t *testing.T) {
	text := `ok {"action": "create_cours", "nom": "Python"`
	_, err := NewCommandExtractor(registryOrder, false).Extract(text)
	require.Error(t, err)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, `{"action": "create_cours", "nom": "Python"`, parseErr.Fragment)
	assert.Equal(t, "accolade fermante manquante", err.Error())
}

func TestExtractInvalidJSON(t *testing.T) {
	text := `{"action": "get_cours", }`
	_, err := NewCommandExtractor(registryOrder, false).Extract(text)
	require.Error(t, err)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, text, parseErr.Fragment)
}
