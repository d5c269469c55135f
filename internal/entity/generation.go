package entity

// GenerateRequest is a single model call. When Corpus is set the call is
// grounded on that corpus through the retrieval tool.
type GenerateRequest struct {
	Model             string
	SystemInstruction string
	History           []Message
	Prompt            string
	Corpus            *Corpus
	ResponseMIMEType  string
}

const ResponseMIMETypeJSON = "application/json"
