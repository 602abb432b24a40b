package categorizer

// modelRecommendations is ordered most-preferred first.
var modelRecommendations = map[Category][]string{
	CategoryChat:       {"openai/gpt-4o", "anthropic/claude-3-opus", "anthropic/claude-3-sonnet"},
	CategoryCode:       {"openai/gpt-3.5-turbo", "anthropic/claude-3-haiku", "mistralai/mistral-7b-instruct"},
	CategoryReasoning:  {"anthropic/claude-3-opus", "anthropic/claude-3-sonnet", "meta-llama/llama-3-70b-instruct"},
	CategoryWriting:    {"anthropic/claude-3-opus", "openai/gpt-4o", "meta-llama/llama-3-70b-instruct"},
	CategoryMultimodal: {"openai/gpt-4o", "anthropic/claude-3-opus", "anthropic/claude-3-sonnet"},
}

// UserSpecifiedConfidence is reported when the caller chose the category.
const UserSpecifiedConfidence = 1.0

// Recommendation is the answer of the model recommendation endpoint.
type Recommendation struct {
	Category          Category `json:"category"`
	RecommendedModels []string `json:"recommendedModels"`
	Confidence        float64  `json:"confidence"`
}

// RecommendedModels returns the three preferred model ids for c. Unknown
// categories get the chat list. The returned slice is a copy.
func RecommendedModels(c Category) []string {
	models, ok := modelRecommendations[c]
	if !ok {
		models = modelRecommendations[DefaultCategory]
	}
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// Recommend builds a Recommendation for c with the given confidence.
func Recommend(c Category, confidence float64) Recommendation {
	if !c.Valid() {
		c = DefaultCategory
	}
	return Recommendation{
		Category:          c,
		RecommendedModels: RecommendedModels(c),
		Confidence:        confidence,
	}
}
