package llm

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Tools             []tool            `json:"tools,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	Retrieval *retrieval `json:"retrieval,omitempty"`
}

type retrieval struct {
	VertexRagStore vertexRagStore `json:"vertexRagStore"`
}

type vertexRagStore struct {
	RagResources       []ragResource      `json:"ragResources"`
	RagRetrievalConfig ragRetrievalConfig `json:"ragRetrievalConfig"`
}

type ragResource struct {
	RagCorpus string `json:"ragCorpus"`
}

type ragRetrievalConfig struct {
	TopK   int             `json:"topK"`
	Filter retrievalFilter `json:"filter"`
}

type retrievalFilter struct {
	VectorDistanceThreshold float64 `json:"vectorDistanceThreshold"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateContentResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason"`
}
