package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Professores",
		Headers: []string{"Matrícula", "Nome", "Observação"},
		Rows: [][]string{
			{"1001", "Ana Souza", "manhã; tarde"},
			{"1002", "João Lima", ""},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("\uFEFF")))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(out), "\uFEFF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Matrícula;Nome;Observação", lines[0])
	assert.Equal(t, `1001;Ana Souza;"manhã; tarde"`, lines[1])
	assert.Equal(t, "1002;João Lima;", lines[2])
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	data := sampleDataset()
	data.Rows = append(data.Rows, []string{"only-one"})

	_, err := NewCSVExporter().Render(data)
	assert.Error(t, err)
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter(20, 80).Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFExporterColumnWidths(t *testing.T) {
	widths := NewPDFExporter(27, 50).columnWidths(4)
	require.Len(t, widths, 4)
	assert.Equal(t, 27.0, widths[0])
	assert.Equal(t, 50.0, widths[1])
	assert.InDelta(t, 100.0, widths[2], 0.001)
	assert.InDelta(t, 100.0, widths[3], 0.001)
}
