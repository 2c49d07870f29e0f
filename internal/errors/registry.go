package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "The configuration file exists but could not be read or parsed.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or has the wrong type.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "No route table source",
		Detail:   "Neither the command line nor the configuration names a route table to load.",
	},

	// ============================================
	// Load and Parse Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryLoad,
		Message:  "Route table not found",
		Detail:   "The route table file or object does not exist. The generator writes it to .docusaurus/routes.js during a build.",
	},
	"E202": {
		Category: CategoryParse,
		Message:  "Route table syntax error",
		Detail:   "The document could not be parsed in the selected format.",
	},
	"E203": {
		Category: CategoryLoad,
		Message:  "Route table too large",
		Detail:   "The document exceeds the configured size limit.",
	},
	"E204": {
		Category: CategoryParse,
		Message:  "Unknown route table format",
		Detail:   "The format could not be inferred from the file name. Supported formats are js, json, yaml and toml.",
	},
	"E205": {
		Category: CategoryParse,
		Message:  "Route table could not be decoded",
		Detail:   "The document parsed but does not hold route table entries of the expected types.",
	},
	"E206": {
		Category: CategoryLoad,
		Message:  "Route table source unreachable",
		Detail:   "Fetching the route table failed.",
	},

	// ============================================
	// Validation Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryValidation,
		Message:  "Route table is malformed",
		Detail:   "The table breaks one or more structural rules: unique sibling paths, a trailing wildcard, and no nested routes under exact entries.",
	},
	"E302": {
		Category: CategoryValidation,
		Message:  "Invalid JSONPath expression",
		Detail:   "The query expression could not be parsed.",
	},

	// ============================================
	// Resolve Errors (E400-E499)
	// ============================================

	"E401": {
		Category: CategoryResolve,
		Message:  "Invalid request path",
		Detail:   "The path contains a backslash, a NUL byte, a malformed percent escape or climbs above the root.",
	},
	"E402": {
		Category: CategoryResolve,
		Message:  "No route matches",
		Detail:   "No entry matched and the table has no trailing wildcard route.",
	},

	// ============================================
	// Server Errors (E500-E599)
	// ============================================

	"E501": {
		Category: CategoryServer,
		Message:  "Server failed to start",
		Detail:   "The HTTP listener could not be opened.",
	},
	"E502": {
		Category: CategoryServer,
		Message:  "Watcher failed",
		Detail:   "The route table watcher stopped unexpectedly.",
	},
	"E503": {
		Category: CategoryServer,
		Message:  "Route table not loaded",
		Detail:   "No route table snapshot is available yet.",
	},

	// ============================================
	// CLI Errors (E900-E999)
	// ============================================

	"E901": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "A command argument or flag is invalid.",
	},
	"E999": {
		Category: CategoryCLI,
		Message:  "Unexpected error",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
