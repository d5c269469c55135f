package entity

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

type ChatQueryRequest struct {
	Prompt       string    `json:"prompt" validate:"required"`
	ModelID      string    `json:"model_id"`
	History      []Message `json:"history" validate:"dive"`
	SlideContext string    `json:"slide_context"`
	ReportID     string    `json:"report_id"`
}

type SaveChatHistoryRequest struct {
	SessionID string    `json:"session_id" validate:"required"`
	Messages  []Message `json:"messages" validate:"dive"`
}

type PlaygroundQueryRequest struct {
	Prompt    string    `json:"prompt" validate:"required"`
	SessionID string    `json:"session_id" validate:"required"`
	ModelID   string    `json:"model_id"`
	History   []Message `json:"history" validate:"dive"`
}

type ReportGenerateRequest struct {
	Question string `json:"question" validate:"required"`
	ModelID  string `json:"model_id"`
}

type QueryResponse struct {
	Response string `json:"response"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ChatHistoryResponse struct {
	Messages []Message `json:"messages"`
}

type ListSessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

type ListFilesResponse struct {
	Files []string `json:"files"`
}

type HealthResponse struct {
	Status               string `json:"status"`
	ChatHistoryDir       string `json:"chat_history_dir"`
	PlaygroundHistoryDir string `json:"playground_history_dir"`
	CorpusReady          bool   `json:"corpus_ready"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ExportFile is a rendered transcript ready to be served as a download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
