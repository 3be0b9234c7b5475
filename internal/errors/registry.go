package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (D100-D199)
	// ============================================

	"D100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No dropzone.json was found.",
	},
	"D101": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "dropzone.json could not be read or parsed.",
	},
	"D102": {
		Category: CategoryConfig,
		Message:  "Invalid reload delay",
		Detail:   "reloadDelay must be a non-negative Go duration such as \"2s\" or \"1500ms\".",
	},
	"D103": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "Port must be between 0 and 65535.",
	},
	"D104": {
		Category: CategoryConfig,
		Message:  "Invalid upstream URL",
		Detail:   "server.upstream must be an absolute http or https URL.",
	},

	// ============================================
	// Source Errors (D200-D299)
	// ============================================

	"D200": {
		Category: CategorySource,
		Message:  "File not found",
		Detail:   "The referenced file does not exist or cannot be opened.",
	},
	"D201": {
		Category: CategorySource,
		Message:  "Unsupported file reference",
		Detail:   "File references must be local paths or s3://bucket/key URIs.",
	},
	"D202": {
		Category: CategorySource,
		Message:  "S3 object fetch failed",
		Detail:   "The object could not be read from S3.",
	},

	// ============================================
	// Upload Errors (D300-D399)
	// ============================================

	"D300": {
		Category: CategoryUpload,
		Message:  "Upload rejected by server",
	},
	"D301": {
		Category: CategoryUpload,
		Message:  "Network error",
		Detail:   "The upload request did not complete.",
	},
	"D302": {
		Category: CategoryUpload,
		Message:  "Multipart encoding failed",
		Detail:   "A selected file could not be read while building the request body.",
	},

	// ============================================
	// CLI Errors (D400-D499)
	// ============================================

	"D400": {
		Category: CategoryCLI,
		Message:  "No files given",
		Detail:   "The upload command needs at least one file reference.",
	},
}

// Register adds or overrides an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ByCategory returns the sorted codes registered under category.
func ByCategory(category Category) []string {
	var codes []string
	for code, t := range registry {
		if t.Category == category {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}
