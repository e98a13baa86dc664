package qa

import (
	"fmt"

	"infomat-hq/infomat/pkg/llm"
	"infomat-hq/infomat/pkg/mapreduce"
)

// defaultContext is the assistant persona used when the document gives
// no better one.
const defaultContext = "You are a helpful assistant."

// gatherPrompt asks the model to pull everything relevant to the
// question out of one excerpt of the source. Used for the map pass.
func gatherPrompt(question, systemContext, sourceType string) mapreduce.PromptFunc {
	return func(chunkText string) []llm.Message {
		return []llm.Message{
			{Role: llm.RoleSystem, Content: systemContext},
			{Role: llm.RoleSystem, Content: fmt.Sprintf("Excerpt from the %s\n\n%s", sourceType, chunkText)},
			{Role: llm.RoleUser, Content: question},
		}
	}
}

// combinePrompt folds gathered partial answers into a single one. Used
// for the reduce run, so it must keep compressing its own output.
func combinePrompt(question, systemContext string) mapreduce.PromptFunc {
	return func(chunkText string) []llm.Message {
		return []llm.Message{
			{Role: llm.RoleSystem, Content: fmt.Sprintf("%s. Given that:\n%s", systemContext, chunkText)},
			{Role: llm.RoleUser, Content: question},
		}
	}
}

// summarizePrompt asks for a plain summary of the chunk.
func summarizePrompt() mapreduce.PromptFunc {
	return func(chunkText string) []llm.Message {
		return []llm.Message{
			{Role: llm.RoleSystem, Content: ""},
			{Role: llm.RoleUser, Content: chunkText + "\n\nSummarize the text"},
		}
	}
}
