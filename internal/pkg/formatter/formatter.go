package formatter

import (
	"fmt"

	"github.com/convrt/rag-backend/internal/entity"
)

const untitledTranscript = "Untitled session"

// Transcript is a titled conversation ready for export.
type Transcript struct {
	Title    string
	Messages []entity.Message
}

// NewTranscript builds the export view of a playground session.
func NewTranscript(session *entity.PlaygroundSession) *Transcript {
	title := session.Title
	if title == "" {
		title = untitledTranscript
	}
	return &Transcript{
		Title:    title,
		Messages: session.Messages,
	}
}

type Formatter interface {
	Format(t *Transcript) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct {
	pdfFontPath string
}

// NewFactory returns a factory whose PDF formatter embeds the TTF font at
// pdfFontPath, falling back to the bundled font locations when empty.
func NewFactory(pdfFontPath string) *Factory {
	return &Factory{pdfFontPath: pdfFontPath}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(f.pdfFontPath), nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", entity.ErrInvalidParameter, format)
	}
}

func roleLabel(role entity.Role) string {
	if role == entity.RoleAssistant {
		return "Assistant"
	}
	return "User"
}
