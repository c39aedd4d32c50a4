package codegen

import "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/llm"

// Sampling parameters for the two completion calls. Generation runs
// warmer and longer than the review pass.
var (
	generationParams = llm.Params{Temperature: 0.7, MaxTokens: 2000}
	reviewParams     = llm.Params{Temperature: 0.5, MaxTokens: 500}
)

const defaultLanguage = "python"
