package entity

import "io"

// Corpus is a handle to a remote retrieval corpus. Name is the full resource
// name, e.g. projects/p/locations/l/ragCorpora/123.
type Corpus struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type CorpusFile struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
}

// IngestRequest describes one uploaded dataset.
type IngestRequest struct {
	Filename    string
	Content     io.Reader
	Description string
	ReportID    string
}

type IngestResult struct {
	File    *CorpusFile
	Corpus  *Corpus
	Records int
}

const DefaultDatasetDescription = "Imported CSV Data"
