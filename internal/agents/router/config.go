package router

import "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/llm"

var (
	intentParams = llm.Params{Temperature: 0.3, MaxTokens: 150}
	chatParams   = llm.Params{Temperature: 0.7, MaxTokens: 500}
)

// Classifications below this confidence are routed to general chat.
const confidenceThreshold = 0.6

const chatSystemMessage = `You are a helpful AI assistant in a chatbot that can:
1. Generate code when requested (just ask me to write any code!)
2. Extract text from PDF files when uploaded
3. Analyze CSV files and provide intelligent suggestions when uploaded

For general questions, provide helpful and concise responses.`
