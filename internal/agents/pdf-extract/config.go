package pdfextract

import "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/llm"

var summaryParams = llm.Params{Temperature: 0.5, MaxTokens: 200}

// summarySampleWords bounds how much extracted text the summary call sees.
const summarySampleWords = 2000
