package categorizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_TierPrecedence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{"code beats writing", "Write a function that reverses a string", CategoryCode},
		{"code beats everything", "Explain this program and draft an image caption", CategoryCode},
		{"reasoning beats writing", "Compare these essays and write a summary", CategoryReasoning},
		{"writing beats multimodal", "Create a picture description", CategoryWriting},
		{"multimodal", "Describe this image in detail", CategoryMultimodal},
		{"case insensitive", "ANALYZE the market", CategoryReasoning},
		{"substring match", "Recreate the scene", CategoryWriting},
		{"default chat", "Hello, how are you today?", CategoryChat},
		{"empty", "", CategoryChat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestDetect_FunctionAlwaysCode(t *testing.T) {
	for _, text := range []string{
		"function",
		"write a function",
		"Please write, draft and create a FUNCTION for images",
		"visual picture explain function",
	} {
		assert.Equal(t, CategoryCode, Detect(text), text)
	}
}

func TestKeywordCategorizer_CustomRules(t *testing.T) {
	k := NewKeywordCategorizer([]Rule{
		{Keywords: []string{"PAINT"}, Category: CategoryMultimodal},
		{Keywords: []string{"paint", "code"}, Category: CategoryCode},
	})

	assert.Equal(t, CategoryMultimodal, k.Detect("paint some code"))
	assert.Equal(t, CategoryCode, k.Detect("just code"))
	assert.Equal(t, DefaultCategory, k.Detect("nothing here"))

	res, err := k.Categorize(context.Background(), "paint")
	require.NoError(t, err)
	assert.Equal(t, CategoryMultimodal, res.Category)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" Code ")
	assert.True(t, ok)
	assert.Equal(t, CategoryCode, c)

	c, ok = ParseCategory("poetry")
	assert.False(t, ok)
	assert.Equal(t, CategoryChat, c)

	assert.True(t, CategoryWriting.Valid())
	assert.False(t, Category("other").Valid())
	assert.Len(t, AllCategories, 5)
}

func TestRecommendedModels_Stable(t *testing.T) {
	want := []string{"anthropic/claude-3-opus", "anthropic/claude-3-sonnet", "meta-llama/llama-3-70b-instruct"}
	for i := 0; i < 5; i++ {
		assert.Equal(t, want, RecommendedModels(CategoryReasoning))
	}

	got := RecommendedModels(CategoryReasoning)
	got[0] = "mutated"
	assert.Equal(t, want, RecommendedModels(CategoryReasoning))
}

func TestRecommendedModels_AllCategories(t *testing.T) {
	for _, c := range AllCategories {
		assert.Len(t, RecommendedModels(c), 3, c)
	}
	assert.Equal(t, RecommendedModels(CategoryChat), RecommendedModels(Category("unknown")))
	assert.Equal(t, []string{"openai/gpt-3.5-turbo", "anthropic/claude-3-haiku", "mistralai/mistral-7b-instruct"}, RecommendedModels(CategoryCode))
}

func TestRecommend(t *testing.T) {
	r := Recommend(CategoryWriting, UserSpecifiedConfidence)
	assert.Equal(t, CategoryWriting, r.Category)
	assert.Equal(t, 1.0, r.Confidence)
	assert.Equal(t, []string{"anthropic/claude-3-opus", "openai/gpt-4o", "meta-llama/llama-3-70b-instruct"}, r.RecommendedModels)
}
