package guardrails

// Decision is the policy outcome derived from a query's Category.
type Decision string

const (
	DecisionAllow               Decision = "allow"
	DecisionRefuseMedicalAdvice Decision = "refuse_medical_advice"
	DecisionRefuseHarmful       Decision = "refuse_harmful"
	DecisionRequireDisclaimer   Decision = "require_disclaimer"
)

const refuseHarmfulMessage = "I cannot provide information that could be harmful. " +
	"If you're experiencing a crisis, please contact emergency services " +
	"or call the National Suicide Prevention Lifeline at 988."

const refuseAdviceMessage = "I can provide general information about medications, but I cannot " +
	"give medical advice, recommend dosages, diagnose conditions, or " +
	"suggest treatments. Please consult your doctor or pharmacist for " +
	"personalized medical guidance."

const disclaimerLeadIn = "This is general information only. Always consult your healthcare provider."

// Decide maps a category to a policy decision and a short policy message.
// Pure and total: every category yields exactly one decision.
func Decide(category Category) (Decision, string) {
	switch category {
	case CategoryHarmful:
		return DecisionRefuseHarmful, refuseHarmfulMessage
	case CategoryDosage, CategoryDiagnosis, CategoryTreatment:
		return DecisionRefuseMedicalAdvice, refuseAdviceMessage
	default:
		return DecisionRequireDisclaimer, disclaimerLeadIn
	}
}

// Refused reports whether a decision blocks the query from reaching the model.
func (d Decision) Refused() bool {
	return d == DecisionRefuseMedicalAdvice || d == DecisionRefuseHarmful
}

var refusalTexts = map[Category]string{
	CategoryDosage: "I cannot provide dosage recommendations. Medication dosages must be " +
		"determined by your doctor based on your specific health condition, " +
		"age, weight, and other factors. Please consult your healthcare provider.",
	CategoryDiagnosis: "I cannot diagnose medical conditions. If you're experiencing symptoms, " +
		"please consult a qualified healthcare professional for proper evaluation " +
		"and diagnosis.",
	CategoryTreatment: "I cannot recommend treatments or medical interventions. Treatment plans " +
		"should be developed by your doctor based on your individual health needs. " +
		"Please schedule an appointment with your healthcare provider.",
	CategoryHarmful: "I cannot provide information that could be harmful. If you're in crisis, " +
		"please reach out for help:\n" +
		"• Emergency: 911\n" +
		"• Suicide Prevention Lifeline: 988\n" +
		"• Crisis Text Line: Text HOME to 741741",
}

const genericRefusal = "I can provide general medication information, but I cannot give medical advice. " +
	"Please consult your healthcare provider."

// RefusalText returns the canned refusal for a refused category. Categories
// that are never refused get a generic refusal rather than an error.
func RefusalText(category Category) string {
	if text, ok := refusalTexts[category]; ok {
		return text
	}
	return genericRefusal
}

var disclaimerTexts = map[Category]string{
	CategoryMedicationInfo: "\n\n⚠️ **Disclaimer**: This is general information about this medication. " +
		"Always follow your doctor's instructions and consult your healthcare " +
		"provider for personalized medical advice.",
	CategorySideEffects: "\n\n⚠️ **Disclaimer**: These are potential side effects. Not everyone " +
		"experiences them. Contact your doctor if you experience concerning symptoms.",
	CategoryInteraction: "\n\n⚠️ **Disclaimer**: This information is for educational purposes. " +
		"Always inform your doctor and pharmacist about all medications you're taking.",
	CategoryGeneral: "\n\n⚠️ **Disclaimer**: This is general health information only. " +
		"Consult your healthcare provider for medical advice.",
}

const genericDisclaimer = "\n\n⚠️ **Disclaimer**: Always consult your healthcare provider for medical advice."

// DisclaimerText returns the disclaimer appended to allowed responses.
// Selection depends only on the category, so it is stable across calls.
func DisclaimerText(category Category) string {
	if text, ok := disclaimerTexts[category]; ok {
		return text
	}
	return genericDisclaimer
}

// AddDisclaimer appends the category's disclaimer to a model response.
func AddDisclaimer(response string, category Category) string {
	return response + DisclaimerText(category)
}
