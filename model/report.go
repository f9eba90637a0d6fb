package model

// SkipReason explains why a field produced no triple on purpose.
type SkipReason string

const (
	SkipNone             SkipReason = ""
	SkipEmptySignal      SkipReason = "empty_signal"
	SkipNoLinks          SkipReason = "no_links"
	SkipNegativeRelation SkipReason = "negative_relation"
	SkipGenderNotAllowed SkipReason = "gender_not_allowed"
)

// SkipDecision records one skipped field of a page.
type SkipDecision struct {
	Field     string     `json:"field"`
	Predicate string     `json:"predicate"`
	Reason    SkipReason `json:"reason"`
}

// PageReport summarizes the extraction of one page.
type PageReport struct {
	Title        string         `json:"title"`
	Subject      string         `json:"subject,omitempty"`
	Status       PageStatus     `json:"status"`
	TemplateName string         `json:"template_name,omitempty"`
	Triples      int            `json:"triples"`
	Skips        []SkipDecision `json:"skips,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// Apply copies the extraction outcome onto the stored page.
func (r *PageReport) Apply(page *Page) {
	page.Subject = r.Subject
	page.Status = r.Status
	page.TemplateName = r.TemplateName
	page.TripleCount = r.Triples
	if page.Metadata == nil {
		page.Metadata = Metadata{}
	}
	if len(r.Skips) > 0 {
		page.Metadata["skipped"] = len(r.Skips)
	}
	if r.Error != "" {
		page.Metadata["error"] = r.Error
	}
}
