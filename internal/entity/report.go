package entity

import "encoding/json"

// Report is the model-produced report document. Raw holds the JSON exactly as
// parsed; the typed view is decoded on demand and never enforced.
type Report struct {
	Raw json.RawMessage
}

func (r *Report) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// Components decodes the "components" array. Documents of another shape yield nil.
func (r *Report) Components() []ReportComponent {
	var doc struct {
		Components []ReportComponent `json:"components"`
	}
	if err := json.Unmarshal(r.Raw, &doc); err != nil {
		return nil
	}
	return doc.Components
}

type ReportComponent struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	DataSource    string              `json:"data_source"`
	Width         string              `json:"width"`
	Visualization ReportVisualization `json:"visualization"`
	Narrative     ReportNarrative     `json:"narrative"`
	Result        ReportResult        `json:"result"`
}

type ReportVisualization struct {
	Type string `json:"type"`
}

type ReportNarrative struct {
	Enabled bool `json:"enabled"`
}

type ReportResult struct {
	VisualizationData ReportVisualizationData `json:"visualization_data"`
	Narrative         string                  `json:"narrative"`
}

type ReportVisualizationData struct {
	Items   []ReportItem `json:"items,omitempty"`
	Content string       `json:"content,omitempty"`
}

type ReportItem struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}
