package guardrails

import "strings"

// Category is the classification bucket assigned to a user query.
type Category string

const (
	CategoryMedicationInfo Category = "medication_info"
	CategorySideEffects    Category = "side_effects"
	CategoryDosage         Category = "dosage"
	CategoryDiagnosis      Category = "diagnosis"
	CategoryTreatment      Category = "treatment"
	CategoryInteraction    Category = "interaction"
	CategoryGeneral        Category = "general"
	CategoryHarmful        Category = "harmful"
)

// Keywords that indicate harmful intent. Checked first, before anything else.
var harmfulKeywords = []string{
	"overdose", "get high", "abuse", "recreational",
	"suicide", "self-harm", "kill myself",
}

// Keywords that indicate a personal medical-advice request.
var medicalAdviceKeywords = []string{
	"should i take", "can i take", "how much should i",
	"what should i do", "diagnose", "treat my", "cure",
	"prescribe", "recommend dosage", "stop taking",
	"increase dose", "decrease dose", "substitute",
	"500mg or 1000mg", "mg or", "can i stop",
}

// Cues that sub-classify an advice request as a dosage question.
// "mg or" catches amount-comparison phrasing like "500mg or 1000mg".
var dosageCues = []string{"dosage", "dose", "mg or"}

// Safe informational patterns, answerable with a disclaimer.
var safePatterns = []string{
	"what is", "tell me about", "information about",
	"side effects of", "used for", "how does", "what are",
}

// classifierRule inspects a lower-cased query and either decides a category
// or abstains. Rules run in fixed precedence order; the first rule that
// decides wins.
type classifierRule func(q string) (Category, bool)

var classifierRules = []classifierRule{
	// Harmful intent outranks everything, including safe phrasing.
	func(q string) (Category, bool) {
		if containsAny(q, harmfulKeywords) {
			return CategoryHarmful, true
		}
		return "", false
	},
	// Advice requests sub-classify by secondary cue. An advice phrase with
	// no dosage/diagnosis/treatment cue abstains and falls through to the
	// informational rules below. Known gap in the original policy, kept
	// as-is pending a product decision.
	func(q string) (Category, bool) {
		if !containsAny(q, medicalAdviceKeywords) {
			return "", false
		}
		switch {
		case containsAny(q, dosageCues):
			return CategoryDosage, true
		case strings.Contains(q, "diagnose") || strings.Contains(q, "diagnosis"):
			return CategoryDiagnosis, true
		case strings.Contains(q, "treat") || strings.Contains(q, "cure"):
			return CategoryTreatment, true
		}
		return "", false
	},
	func(q string) (Category, bool) {
		if strings.Contains(q, "side effect") {
			return CategorySideEffects, true
		}
		return "", false
	},
	func(q string) (Category, bool) {
		if strings.Contains(q, "interact") {
			return CategoryInteraction, true
		}
		return "", false
	},
	func(q string) (Category, bool) {
		if containsAny(q, safePatterns) {
			return CategoryMedicationInfo, true
		}
		return "", false
	},
}

// Classify maps a raw user query to exactly one Category. It is pure,
// case-insensitive, and total: queries no rule claims are CategoryGeneral.
func Classify(query string) Category {
	q := strings.ToLower(query)
	for _, rule := range classifierRules {
		if category, ok := rule(q); ok {
			return category
		}
	}
	return CategoryGeneral
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
