package codegen

// Input is one code generation request.
type Input struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language,omitempty"`
}
