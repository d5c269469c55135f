package prompt

import (
	"strings"
	"testing"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		history []entity.Message
		want    entity.Language
	}{
		{name: "ascii prompt, no history", prompt: "What were Q1 sales?", want: entity.LanguageEnglish},
		{name: "hebrew prompt, no history", prompt: "מה היו המכירות?", want: entity.LanguageHebrew},
		{name: "single hebrew rune", prompt: "sales א", want: entity.LanguageHebrew},
		{name: "block upper bound", prompt: "x\u05ff", want: entity.LanguageHebrew},
		{name: "just outside block", prompt: "x\u0600", want: entity.LanguageEnglish},
		{
			name:   "latest user message wins over prompt",
			prompt: "מה היו המכירות?",
			history: []entity.Message{
				{Role: entity.RoleUser, Content: "שלום"},
				{Role: entity.RoleAssistant, Content: "hi"},
				{Role: entity.RoleUser, Content: "and the totals?"},
			},
			want: entity.LanguageEnglish,
		},
		{
			name:   "assistant messages are ignored",
			prompt: "totals?",
			history: []entity.Message{
				{Role: entity.RoleUser, Content: "totals please"},
				{Role: entity.RoleAssistant, Content: "שלום"},
			},
			want: entity.LanguageEnglish,
		},
		{
			name:   "empty user content falls back to prompt",
			prompt: "מכירות",
			history: []entity.Message{
				{Role: entity.RoleUser, Content: ""},
			},
			want: entity.LanguageHebrew,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.prompt, tt.history))
		})
	}
}

func TestGroundedInstruction_Localized(t *testing.T) {
	en := GroundedInstruction(entity.LanguageEnglish)
	assert.Contains(t, en, "1. Answer in English ONLY.")
	assert.Contains(t, en, `cite "from slides"`)
	assert.Contains(t, en, `cite "from data"`)
	assert.Contains(t, en, `cite "based on general knowledge"`)

	he := GroundedInstruction(entity.LanguageHebrew)
	assert.Contains(t, he, "1. Answer in Hebrew ONLY.")
	assert.Contains(t, he, `cite "מהשקופיות"`)
	assert.Contains(t, he, `cite "מהנתונים"`)
	assert.Contains(t, he, `cite "על בסיס ידע כללי"`)

	for _, s := range []string{en, he} {
		assert.Contains(t, s, "DO NOT mention specific 'Source File' names")
		assert.Contains(t, s, "Don't refuse to answer")
		assert.NotContains(t, s, "%!")
	}
}

func TestGroundedPrompt(t *testing.T) {
	assert.Equal(t, "What changed?", GroundedPrompt("What changed?", ""))

	got := GroundedPrompt("What changed?", "Slide 3: revenue up 10%")
	assert.Equal(t,
		"SLIDE CONTENT (Primary Source - Use this first):\nSlide 3: revenue up 10%\n\n---\n\nUSER QUESTION:\nWhat changed?",
		got)
}

func TestReportPrompt(t *testing.T) {
	got := ReportPrompt("oral care for kids")
	assert.True(t, strings.HasPrefix(got, `Generate a comprehensive modular research report for: "oral care for kids"`))
	assert.Contains(t, got, "4-5 distinct components")
	assert.Contains(t, got, "Return ONLY valid JSON.")
	assert.Contains(t, ReportInstruction(), `Return a JSON object with a "components" array`)
}

func TestPlaygroundInstruction(t *testing.T) {
	got := PlaygroundInstruction()
	assert.Contains(t, got, "Senior Market Research Consultant")
	assert.Contains(t, got, "Guard Against Bias")
	assert.Contains(t, got, "respond in Hebrew")
}
