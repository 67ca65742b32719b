package canvas

import (
	"errors"
	"fmt"
)

// Field names one of the 13 canvas values. The string form is the JSON key
// used in the persisted record.
type Field string

const (
	ProductName            Field = "productName"
	Problem                Field = "problem"
	ExistingAlternatives   Field = "existingAlternatives"
	Solution               Field = "solution"
	KeyMetrics             Field = "keyMetrics"
	UniqueValueProposition Field = "uniqueValueProposition"
	HighLevelConcept       Field = "highLevelConcept"
	UnfairAdvantage        Field = "unfairAdvantage"
	Channels               Field = "channels"
	CustomerSegments       Field = "customerSegments"
	EarlyAdopters          Field = "earlyAdopters"
	CostStructure          Field = "costStructure"
	RevenueStreams         Field = "revenueStreams"
)

var ErrUnknownField = errors.New("unknown field")

// Record is the whole canvas. Values may be empty and may contain newlines.
type Record struct {
	ProductName            string `json:"productName" yaml:"productName"`
	Problem                string `json:"problem" yaml:"problem"`
	ExistingAlternatives   string `json:"existingAlternatives" yaml:"existingAlternatives"`
	Solution               string `json:"solution" yaml:"solution"`
	KeyMetrics             string `json:"keyMetrics" yaml:"keyMetrics"`
	UniqueValueProposition string `json:"uniqueValueProposition" yaml:"uniqueValueProposition"`
	HighLevelConcept       string `json:"highLevelConcept" yaml:"highLevelConcept"`
	UnfairAdvantage        string `json:"unfairAdvantage" yaml:"unfairAdvantage"`
	Channels               string `json:"channels" yaml:"channels"`
	CustomerSegments       string `json:"customerSegments" yaml:"customerSegments"`
	EarlyAdopters          string `json:"earlyAdopters" yaml:"earlyAdopters"`
	CostStructure          string `json:"costStructure" yaml:"costStructure"`
	RevenueStreams         string `json:"revenueStreams" yaml:"revenueStreams"`
}

// Empty returns a record with every field set to "".
func Empty() Record { return Record{} }

// ptr maps a field onto its storage in r; nil for unknown fields.
func (r *Record) ptr(f Field) *string {
	switch f {
	case ProductName:
		return &r.ProductName
	case Problem:
		return &r.Problem
	case ExistingAlternatives:
		return &r.ExistingAlternatives
	case Solution:
		return &r.Solution
	case KeyMetrics:
		return &r.KeyMetrics
	case UniqueValueProposition:
		return &r.UniqueValueProposition
	case HighLevelConcept:
		return &r.HighLevelConcept
	case UnfairAdvantage:
		return &r.UnfairAdvantage
	case Channels:
		return &r.Channels
	case CustomerSegments:
		return &r.CustomerSegments
	case EarlyAdopters:
		return &r.EarlyAdopters
	case CostStructure:
		return &r.CostStructure
	case RevenueStreams:
		return &r.RevenueStreams
	}
	return nil
}

// Get returns the value of f, or "" for an unknown field.
func (r Record) Get(f Field) string {
	if p := r.ptr(f); p != nil {
		return *p
	}
	return ""
}

// Set returns a copy of r with f replaced by the complete value v.
func (r Record) Set(f Field, v string) (Record, error) {
	p := r.ptr(f)
	if p == nil {
		return r, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	*p = v
	return r, nil
}

// IsEmpty reports whether every field is "".
func (r Record) IsEmpty() bool { return r == Record{} }

// Values returns the record as a key/value map in JSON key form.
func (r Record) Values() map[string]string {
	out := make(map[string]string, len(allFields))
	for _, f := range allFields {
		out[string(f)] = r.Get(f)
	}
	return out
}
