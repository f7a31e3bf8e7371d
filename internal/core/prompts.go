package core

import "strings"

// Prompt templates combine retrieved context, conversation history and the
// current query. The named variants mirror the assistant's deployment
// profiles.
const (
	TemplateDefault            = "default"
	TemplateEmployeeAssistance = "employee_assistance"
	TemplateKnowledge          = "knowledge_management"
)

var promptTemplates = map[string]string{
	TemplateDefault: `You are a multimodal enterprise assistant based on retrieval-augmented generation.
Answer questions using the context provided from the company knowledge base.
If the answer is not found in the provided context, say so clearly.
Always answer professionally and concisely.

{context}

Conversation history:
{history}

Question: {query}
Answer:`,

	TemplateEmployeeAssistance: `You are an enterprise assistant specialized in employee support.
You answer questions about human resources, IT, logistics and onboarding.
Base your answers only on the context provided from the company knowledge base.
If the answer is not found in the provided context, say so clearly.
Always answer professionally and concisely.

{context}

Conversation history:
{history}

Question: {query}
Answer:`,

	TemplateKnowledge: `You are an enterprise assistant specialized in knowledge management.
You help employees find, summarize and relate documents in the knowledge base.
Base your answers only on the context provided from the company knowledge base.
If the answer is not found in the provided context, say so clearly.
Always answer professionally and concisely.

{context}

Conversation history:
{history}

Question: {query}
Answer:`,
}

// BuildPrompt fills the named template with context, history and query.
// Unknown template names fall back to the default template.
func BuildPrompt(template, context, history, query string) string {
	tpl, ok := promptTemplates[template]
	if !ok {
		tpl = promptTemplates[TemplateDefault]
	}
	prompt := strings.ReplaceAll(tpl, "{context}", context)
	prompt = strings.ReplaceAll(prompt, "{history}", history)
	prompt = strings.ReplaceAll(prompt, "{query}", query)
	return prompt
}
