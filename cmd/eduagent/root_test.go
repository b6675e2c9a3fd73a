package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-agent-api/internal/app"
	"github.com/noah-isme/edu-agent-api/pkg/config"
)

func tempFactory(t *testing.T) (containerFactory, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Env:   config.EnvDevelopment,
		Store: config.StoreConfig{Backend: config.StoreBackendFile, DataDir: dir},
		Agent: config.AgentConfig{LenientCreation: true},
	}
	return func(ctx context.Context) (*app.Container, error) {
		return app.New(ctx, cfg, nil)
	}, dir
}

func run(t *testing.T, build containerFactory, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(build)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootRegistersCommands(t *testing.T) {
	build, _ := tempFactory(t)
	root := newRootCmd(build)
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"dispatch", "list", "stats", "delete", "export"})
}

func TestDispatchFromArgumentAndStdin(t *testing.T) {
	build, _ := tempFactory(t)

	out, err := run(t, build, "", "dispatch", `{"action": "create_professeur", "nom": "Jean Dupont"}`)
	require.NoError(t, err)
	assert.Equal(t, "✅ Professeur Jean Dupont créé (ID: 1)\n", out)

	out, err = run(t, build, "{\"action\": \"get_professeurs\"}\n", "dispatch")
	require.NoError(t, err)
	assert.Contains(t, out, "• **Jean Dupont** (ID: 1)")
}

func TestListStatsAndDelete(t *testing.T) {
	build, _ := tempFactory(t)
	_, err := run(t, build, "", "dispatch", `{"action": "create_note", "valeur": 14}`)
	require.NoError(t, err)

	out, err := run(t, build, "", "list", "notes")
	require.NoError(t, err)
	assert.Contains(t, out, "• **Note: 14/20** (ID: 1)")

	out, err = run(t, build, "", "stats", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"nb_notes": 1`)
	assert.Contains(t, out, `"moyenne_generale": 14`)

	out, err = run(t, build, "", "delete", "notes", "1")
	require.NoError(t, err)
	assert.Equal(t, "deleted notes 1\n", out)

	out, err = run(t, build, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "📋 Notes: 0")

	_, err = run(t, build, "", "delete", "notes", "1")
	assert.Error(t, err)
}

func TestExportWritesFile(t *testing.T) {
	build, dir := tempFactory(t)
	_, err := run(t, build, "", "dispatch", `{"action": "create_cours", "nom": "Python"}`)
	require.NoError(t, err)

	target := filepath.Join(dir, "cours-export.csv")
	out, err := run(t, build, "", "export", "cours", "--format", "csv", "--out", target)
	require.NoError(t, err)
	assert.Equal(t, "exported 1 rows to "+target+"\n", out)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "id,nom,code,credits,professeur_id,date_creation\n1,Python,PYT001,3,1,"))
}

func TestUnknownCollectionIsRejected(t *testing.T) {
	build, _ := tempFactory(t)
	_, err := run(t, build, "", "list", "salles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown collection")
}
