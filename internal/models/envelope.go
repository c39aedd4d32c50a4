package models

// Status is the closed success/error discriminator carried by every Envelope.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Mode identifies which pipeline produced an Envelope.
type Mode string

const (
	ModeCodeGeneration Mode = "code_generation"
	ModePDFExtraction  Mode = "pdf_extraction"
	ModeCSVAnalysis    Mode = "csv_analysis"
	ModeCSVAction      Mode = "csv_action"
	ModeGeneralChat    Mode = "general_chat"
	ModeError          Mode = "error"
)

// Suggestion is one numbered action proposed after CSV analysis. The ID is
// a positional routing key starting at 1; it carries no other meaning.
type Suggestion struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Intent is the ephemeral classification of a free-text message.
type Intent struct {
	Type       string  `json:"type"`
	Language   string  `json:"language,omitempty"`
	Confidence float64 `json:"confidence"`
}

const (
	IntentCodeGeneration = "code_generation"
	IntentGeneralChat    = "general_chat"
)

// CodeResult is the payload variant produced by the code generation pipeline.
type CodeResult struct {
	Code     string `json:"code"`
	Review   string `json:"review"`
	FilePath string `json:"filepath,omitempty"`
	Filename string `json:"filename,omitempty"`
	Language string `json:"language,omitempty"`
}

// PDFResult is the payload variant produced by the document extraction pipeline.
type PDFResult struct {
	Text      string `json:"text"`
	PageCount int    `json:"page_count"`
	WordCount int    `json:"word_count"`
	FilePath  string `json:"filepath,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// CSVAnalysis is the payload variant produced by Stage A of the data
// analysis pipeline. SampleData holds at most the first 3 rows.
type CSVAnalysis struct {
	Filename       string              `json:"filename"`
	NumRows        int                 `json:"num_rows"`
	NumCols        int                 `json:"num_cols"`
	Columns        []string            `json:"columns"`
	ContentSummary string              `json:"content_summary"`
	Suggestions    []Suggestion        `json:"suggestions"`
	SampleData     []map[string]string `json:"sample_data"`
	FilePath       string              `json:"file_path,omitempty"`
}

// ActionResult is the payload variant produced by Stage B action execution.
type ActionResult struct {
	Action       string      `json:"action"`
	Summary      string      `json:"summary"`
	Output       string      `json:"output"`
	Detail       interface{} `json:"detail,omitempty"`
	FilesCreated []string    `json:"files_created,omitempty"`
	ReportPath   string      `json:"report_path,omitempty"`
}

// Envelope is the uniform result of every pipeline stage and the router.
// Exactly one payload pointer is set on success; all are nil on error.
// Callers never receive a raised fault, only a tagged error envelope.
type Envelope struct {
	Status      Status        `json:"status"`
	Message     string        `json:"message"`
	Mode        Mode          `json:"mode,omitempty"`
	UserMessage string        `json:"user_message,omitempty"`
	LogFile     string        `json:"log_file,omitempty"`
	Code        *CodeResult   `json:"code_result,omitempty"`
	PDF         *PDFResult    `json:"pdf_result,omitempty"`
	Analysis    *CSVAnalysis  `json:"analysis,omitempty"`
	Action      *ActionResult `json:"action_result,omitempty"`
}

// IsSuccess reports whether the envelope carries a successful result.
func (e *Envelope) IsSuccess() bool {
	return e.Status == StatusSuccess
}

// ErrorEnvelope builds an error envelope tagged with the given mode.
func ErrorEnvelope(mode Mode, message string) *Envelope {
	return &Envelope{
		Status:  StatusError,
		Message: message,
		Mode:    mode,
	}
}

// UploadedFile describes a file attached to an incoming message.
type UploadedFile struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Name string `json:"name"`
}
