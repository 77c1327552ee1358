package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run  RunMetadata `json:"run"`
	Rows []ExportRow `json:"trajectory"`
}

type ExportRow struct {
	Element string    `json:"element"`
	Type    string    `json:"type"`
	S       float64   `json:"s"`
	Time    float64   `json:"time"`
	Energy  float64   `json:"energy"`
	Phase   float64   `json:"phase"`
	Values  []float64 `json:"values"`
}

// ExportJSON writes a run and its trajectory as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, rows []Row) error {
	data := ExportData{
		Run:  meta,
		Rows: make([]ExportRow, len(rows)),
	}
	for i, r := range rows {
		data.Rows[i] = ExportRow{
			Element: r.Element,
			Type:    r.Type,
			S:       r.S,
			Time:    r.Time,
			Energy:  r.Energy,
			Phase:   r.Phase,
			Values:  append([]float64(nil), r.Values[:]...),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
