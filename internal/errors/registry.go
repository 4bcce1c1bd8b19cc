package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// Registered error codes.
const (
	CodeInvalidBasePath   = "R001"
	CodeInvalidTarget     = "R002"
	CodeTooManyRedirects  = "R003"
	CodeTerminalParent    = "R004"
	CodeInvalidRoutePath  = "R005"
	CodeInvalidPattern    = "R006"
	CodeNoRouter          = "R007"
	CodeRouterDisposed    = "R008"
	CodeInvalidParam      = "R009"
	CodeConfigRead        = "C001"
	CodeConfigFormat      = "C002"
	CodeConfigInvalid     = "C003"
	CodeIntegrationClosed = "I001"
	CodeInvalidFrame      = "I002"
)

// Sentinels for errors.Is. Every error created with New(code) matches the
// sentinel of the same code.
var (
	ErrInvalidBasePath   = New(CodeInvalidBasePath)
	ErrInvalidTarget     = New(CodeInvalidTarget)
	ErrTooManyRedirects  = New(CodeTooManyRedirects)
	ErrTerminalParent    = New(CodeTerminalParent)
	ErrInvalidRoutePath  = New(CodeInvalidRoutePath)
	ErrInvalidPattern    = New(CodeInvalidPattern)
	ErrNoRouter          = New(CodeNoRouter)
	ErrRouterDisposed    = New(CodeRouterDisposed)
	ErrInvalidParam      = New(CodeInvalidParam)
	ErrConfigInvalid     = New(CodeConfigInvalid)
	ErrIntegrationClosed = New(CodeIntegrationClosed)
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Router Errors (R001-R099)
	// ============================================

	CodeInvalidBasePath: {
		Category: CategoryRoute,
		Message:  "invalid base path",
		Detail:   "The router base must be an in-app path. Paths with a scheme or a leading // are not resolvable.",
	},
	CodeInvalidTarget: {
		Category: CategoryNavigation,
		Message:  "invalid navigation target",
		Detail:   "The navigation target could not be resolved to an in-app path. Use a plain path instead of an absolute URL.",
	},
	CodeTooManyRedirects: {
		Category: CategoryNavigation,
		Message:  "too many redirects",
		Detail:   "More than 100 navigations were requested inside one update pass. An effect is probably redirecting in a loop.",
	},
	CodeTerminalParent: {
		Category: CategoryRoute,
		Message:  "cannot nest a route under a terminal route",
		Detail:   "A route declared with end=true matches exactly and cannot host nested routes.",
	},
	CodeInvalidRoutePath: {
		Category: CategoryRoute,
		Message:  "invalid route path",
		Detail:   "The route path could not be resolved against its parent route.",
	},
	CodeInvalidPattern: {
		Category: CategoryPattern,
		Message:  "invalid route pattern",
		Detail:   "The route pattern could not be compiled. Parameters need a name, e.g. /users/:id.",
	},
	CodeNoRouter: {
		Category: CategoryRoute,
		Message:  "no router in scope",
		Detail:   "Routes can only be created inside a router's scope. Call it from Router.Run or an owner below it.",
	},
	CodeRouterDisposed: {
		Category: CategoryNavigation,
		Message:  "router disposed",
		Detail:   "The router was disposed and no longer accepts navigations or routes.",
	},
	CodeInvalidParam: {
		Category: CategoryRoute,
		Message:  "invalid route parameter",
		Detail:   "A matched parameter could not be decoded into the target field.",
	},

	// ============================================
	// Config Errors (C001-C099)
	// ============================================

	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "cannot read config file",
		Detail:   "The configuration file could not be opened or read.",
	},
	CodeConfigFormat: {
		Category: CategoryConfig,
		Message:  "cannot parse config file",
		Detail:   "The configuration file is not valid JSON, TOML or YAML, or its extension is not recognized.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "invalid configuration",
		Detail:   "The configuration file parsed but contains invalid values.",
	},

	// ============================================
	// Integration Errors (I001-I099)
	// ============================================

	CodeIntegrationClosed: {
		Category: CategoryIntegration,
		Message:  "integration closed",
		Detail:   "The location source was closed and no longer accepts updates.",
	},
	CodeInvalidFrame: {
		Category: CategoryIntegration,
		Message:  "invalid location frame",
		Detail:   "A location frame received from a remote client could not be decoded or carried an unsafe path.",
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
