package schema

import "math"

// Criterion identifies one of the seven fixed evaluation dimensions.
type Criterion int

// The seven criteria, in display and export order.
const (
	TopicalConsistency Criterion = iota
	LogicalFlow
	LinguisticComplexity
	PresenceEntities
	AccuracyDetails
	OmissionRate
	ComissionRate
)

// NumCriteria is the number of evaluated criteria.
const NumCriteria = 7

// AllCriteria lists every criterion in display order.
var AllCriteria = []Criterion{
	TopicalConsistency,
	LogicalFlow,
	LinguisticComplexity,
	PresenceEntities,
	AccuracyDetails,
	OmissionRate,
	ComissionRate,
}

type criterionInfo struct {
	key     string
	label   string
	inverse bool
}

// criteria keys match the stored columns; "logica_flow" is the historical spelling.
var criteria = [NumCriteria]criterionInfo{
	{"topical_consistency", "Consistencia temática", false},
	{"logica_flow", "Flujo lógico", false},
	{"linguistic_complexity", "Complejidad lingüística", false},
	{"presence_entities", "Mención de entidades", false},
	{"accuracy_details", "Precisión en detalles", false},
	{"omission_rate", "Tasa de omisión", true},
	{"comission_rate", "Tasa de comisión", true},
}

// Key returns the storage column and JSON key of the criterion.
func (c Criterion) Key() string { return criteria[c].key }

// Label returns the Spanish display label of the criterion.
func (c Criterion) Label() string { return criteria[c].label }

// Inverse reports whether lower values are better. Values are never flipped;
// this is a display hint only.
func (c Criterion) Inverse() bool { return criteria[c].inverse }

// String implements fmt.Stringer.
func (c Criterion) String() string { return c.Key() }

// CriterionScores holds one value per criterion.
type CriterionScores struct {
	TopicalConsistency   float64 `json:"topical_consistency"`
	LogicalFlow          float64 `json:"logica_flow"`
	LinguisticComplexity float64 `json:"linguistic_complexity"`
	PresenceEntities     float64 `json:"presence_entities"`
	AccuracyDetails      float64 `json:"accuracy_details"`
	OmissionRate         float64 `json:"omission_rate"`
	ComissionRate        float64 `json:"comission_rate"`
}

// Get returns the value for a criterion.
func (s CriterionScores) Get(c Criterion) float64 {
	switch c {
	case TopicalConsistency:
		return s.TopicalConsistency
	case LogicalFlow:
		return s.LogicalFlow
	case LinguisticComplexity:
		return s.LinguisticComplexity
	case PresenceEntities:
		return s.PresenceEntities
	case AccuracyDetails:
		return s.AccuracyDetails
	case OmissionRate:
		return s.OmissionRate
	case ComissionRate:
		return s.ComissionRate
	default:
		return math.NaN()
	}
}

// Set stores the value for a criterion.
func (s *CriterionScores) Set(c Criterion, v float64) {
	switch c {
	case TopicalConsistency:
		s.TopicalConsistency = v
	case LogicalFlow:
		s.LogicalFlow = v
	case LinguisticComplexity:
		s.LinguisticComplexity = v
	case PresenceEntities:
		s.PresenceEntities = v
	case AccuracyDetails:
		s.AccuracyDetails = v
	case OmissionRate:
		s.OmissionRate = v
	case ComissionRate:
		s.ComissionRate = v
	}
}

// Values returns the scores in AllCriteria order.
func (s CriterionScores) Values() [NumCriteria]float64 {
	var out [NumCriteria]float64
	for i, c := range AllCriteria {
		out[i] = s.Get(c)
	}
	return out
}

// ScoresFromValues builds CriterionScores from values in AllCriteria order.
func ScoresFromValues(values [NumCriteria]float64) CriterionScores {
	var s CriterionScores
	for i, c := range AllCriteria {
		s.Set(c, values[i])
	}
	return s
}
