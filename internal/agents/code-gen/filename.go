package codegen

import "strings"

var filenameStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "to": true, "for": true,
	"of": true, "in": true, "on": true, "with": true,
	"write": true, "create": true, "make": true, "code": true,
}

var languageExtensions = map[string]string{
	"python":     ".py",
	"javascript": ".js",
	"java":       ".java",
	"cpp":        ".cpp",
	"c":          ".c",
	"html":       ".html",
	"css":        ".css",
	"sql":        ".sql",
}

// deriveFilename builds a stable filename stem from the prompt: lowercase
// words, minus stop words and non-alphanumeric tokens, first four joined
// with underscores, capped at 50 characters.
func deriveFilename(prompt string) string {
	var parts []string
	for _, word := range strings.Fields(strings.ToLower(prompt)) {
		if filenameStopWords[word] || !isAlnum(word) {
			continue
		}
		parts = append(parts, word)
		if len(parts) == 4 {
			break
		}
	}
	if len(parts) == 0 {
		parts = []string{"generated_code"}
	}

	name := strings.Join(parts, "_")
	if len(name) > 50 {
		name = name[:50]
	}
	return name
}

func extensionFor(language string) string {
	if ext, ok := languageExtensions[strings.ToLower(language)]; ok {
		return ext
	}
	return ".txt"
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
