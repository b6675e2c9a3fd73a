package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Professeurs",
		Headers: []string{"id", "nom", "email"},
		Rows: [][]string{
			{"1", "Émile Durand", "emile.durand@university.com"},
			{"2", "Ada, Lovelace", "ada@university.com"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())
	assert.Equal(t, ".pdf", f.Extension())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVRendererQuotesCells(t *testing.T) {
	out, err := NewCSVRenderer().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "id,nom,email\n1,Émile Durand,emile.durand@university.com\n2,\"Ada, Lovelace\",ada@university.com\n", string(out))
}

func TestRenderersRejectRaggedRows(t *testing.T) {
	data := Dataset{Headers: []string{"a", "b"}, Rows: [][]string{{"1"}}}
	_, err := NewCSVRenderer().Render(data)
	assert.Error(t, err)
	_, err = NewPDFRenderer().Render(data)
	assert.Error(t, err)
	_, err = NewCSVRenderer().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRendererProducesDocument(t *testing.T) {
	out, err := NewPDFRenderer().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
