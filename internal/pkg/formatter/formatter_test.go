package formatter

import (
	"bytes"
	"testing"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTranscript() *Transcript {
	return NewTranscript(&entity.PlaygroundSession{
		ID:    "s1",
		Title: "Survey design",
		Messages: []entity.Message{
			{Role: entity.RoleUser, Content: "How big should the sample be?"},
			{Role: entity.RoleAssistant, Content: "At least 400 respondents.\nUse a 5-point scale."},
		},
	})
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory("")

	tests := []struct {
		format      entity.ResultFormat
		contentType string
		ext         string
	}{
		{entity.FormatMarkdown, markdownContentType, ".md"},
		{entity.FormatPDF, pdfContentType, ".pdf"},
		{entity.FormatDOCX, docxContentType, ".docx"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			fm, err := f.Create(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, fm.ContentType())
			assert.Equal(t, tt.ext, fm.FileExtension())
		})
	}

	_, err := f.Create("html")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleTranscript())
	require.NoError(t, err)

	assert.Equal(t, "# Survey design\n"+
		"\n## User\n\nHow big should the sample be?\n"+
		"\n## Assistant\n\nAt least 400 respondents.\nUse a 5-point scale.\n", string(out))
}

func TestNewTranscript_DefaultTitle(t *testing.T) {
	tr := NewTranscript(&entity.PlaygroundSession{ID: "x"})
	assert.Equal(t, untitledTranscript, tr.Title)
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter("").Format(sampleTranscript())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFFormatter_MissingFontFallsBack(t *testing.T) {
	out, err := NewPDFFormatter("/nonexistent/font.ttf").Format(sampleTranscript())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
