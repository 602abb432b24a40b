package services

import "strings"

const generateSystemPrompt = "You are an expert prompt engineer. Your task is to create an effective prompt based on the user's goal. Your response should ONLY include the prompt text, with no additional explanations or commentary."

const improveSystemPrompt = "You are an expert prompt engineer. Your task is to improve prompts to make them more effective. Your response should ONLY include the improved prompt text, with no additional explanations or commentary."

// DefaultGenerateTemplate is the user message for prompt generation.
// {{GOAL}} is the goal; {{CONTEXT}} expands to an "Additional context" line or nothing.
const DefaultGenerateTemplate = `I need help crafting an effective AI prompt for the following goal:

Goal: {{GOAL}}
{{CONTEXT}}

Consider the following when crafting the prompt:
1. Be specific and clear about what you want the AI to do
2. Provide necessary context and constraints
3. Structure the prompt logically
4. Use appropriate tone and style for the intended purpose
5. Include any relevant examples if needed

Please create a well-crafted prompt that will achieve this goal effectively.`

// DefaultImproveTemplate is the user message for prompt improvement.
// {{PROMPT}} is the original prompt; {{FEEDBACK}} expands to a feedback paragraph or nothing.
const DefaultImproveTemplate = `I need help improving the following prompt to make it more effective:

Original prompt:
"{{PROMPT}}"

{{FEEDBACK}}
Please analyze the prompt and improve it by:
1. Making it more specific and clear
2. Adding necessary context or constraints
3. Improving the structure and flow
4. Adjusting the tone and style for the intended purpose
5. Adding examples or clarifications if needed

Provide only the improved prompt without explanations or commentary.`

// BuildGenerateMessages renders the generate conversation. An empty template
// selects DefaultGenerateTemplate.
func BuildGenerateMessages(template, goal, context string) []ChatMessage {
	if template == "" {
		template = DefaultGenerateTemplate
	}
	contextLine := ""
	if context != "" {
		contextLine = "\nAdditional context: " + context
	}
	user := strings.NewReplacer("{{GOAL}}", goal, "{{CONTEXT}}", contextLine).Replace(template)
	return []ChatMessage{
		{Role: ChatMessageRoleSystem, Content: generateSystemPrompt},
		{Role: ChatMessageRoleUser, Content: user},
	}
}

// BuildImproveMessages renders the improve conversation. An empty template
// selects DefaultImproveTemplate.
func BuildImproveMessages(template, prompt, feedback string) []ChatMessage {
	if template == "" {
		template = DefaultImproveTemplate
	}
	feedbackBlock := ""
	if feedback != "" {
		feedbackBlock = "User feedback on what to improve: " + feedback + "\n\n"
	}
	user := strings.NewReplacer("{{PROMPT}}", prompt, "{{FEEDBACK}}", feedbackBlock).Replace(template)
	return []ChatMessage{
		{Role: ChatMessageRoleSystem, Content: improveSystemPrompt},
		{Role: ChatMessageRoleUser, Content: user},
	}
}
