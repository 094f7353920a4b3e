package diag

// Marker is an editor marker record. Lines and columns are 1-based.
type Marker struct {
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	StartLine   int      `json:"startLineNumber"`
	StartColumn int      `json:"startColumn"`
	EndLine     int      `json:"endLineNumber"`
	EndColumn   int      `json:"endColumn"`
}

// ToMarkers converts diagnostics into editor markers. A diagnostic without an end
// position is marked at its start.
func ToMarkers(ds []Diagnostic) []Marker {
	markers := make([]Marker, 0, len(ds))
	for _, d := range ds {
		start, end := d.Token.Start, d.Token.End
		if end.Line == 0 {
			end = start
		}
		markers = append(markers, Marker{
			Severity:    d.Severity,
			Message:     d.Message,
			StartLine:   start.Line,
			StartColumn: start.Column,
			EndLine:     end.Line,
			EndColumn:   end.Column,
		})
	}
	return markers
}
