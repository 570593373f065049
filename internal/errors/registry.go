package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// Registered codes.
const (
	CodeInvalidArgument    = "E001"
	CodeInvalidMountTarget = "E002"
	CodeInvalidIndex       = "E003"
	CodeUnknownNodeType    = "E004"
	CodeAlreadyMounted     = "E005"
	CodeNotMounted         = "E006"
	CodeReservedMethodName = "E007"
	CodeUnhandledEvent     = "E008"
	CodeReentrantUpdate    = "E009"
	CodeJobFailed          = "E010"
	CodeConfigInvalid      = "E020"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Structural errors (E001-E004)
	// ============================================

	CodeInvalidArgument: {
		Category: CategoryArgument,
		Message:  "Invalid argument",
		Detail:   "A builder or definition received input of the wrong shape. Children must be nodes, node slices or primitives; props must be a mapping; render functions are required.",
	},
	CodeInvalidMountTarget: {
		Category: CategoryPlacement,
		Message:  "Invalid mount target",
		Detail:   "Nodes can only be mounted into an existing host element. The parent element was nil.",
	},
	CodeInvalidIndex: {
		Category: CategoryPlacement,
		Message:  "Invalid insertion index",
		Detail:   "Host insertion indices must be zero or greater, or host.End to append.",
	},
	CodeUnknownNodeType: {
		Category: CategoryInternal,
		Message:  "Unknown node type",
		Detail:   "The virtual node kind is not one the engine can mount, patch or destroy. Slot nodes must be filled by their component before mounting.",
	},

	// ============================================
	// Lifecycle errors (E005-E009)
	// ============================================

	CodeAlreadyMounted: {
		Category: CategoryLifecycle,
		Message:  "Already mounted",
		Detail:   "Mount was called twice without an intervening Unmount.",
	},
	CodeNotMounted: {
		Category: CategoryLifecycle,
		Message:  "Not mounted",
		Detail:   "The operation requires a mounted instance. Unmount was called before Mount, or an update reached an unmounted component.",
	},
	CodeReservedMethodName: {
		Category: CategoryArgument,
		Message:  "Reserved method name",
		Detail:   "Component methods cannot shadow the instance operations (mount, unmount, render, updateProps, updateState, emit and the accessors).",
	},
	CodeUnhandledEvent: {
		Category: CategoryEvent,
		Message:  "Unhandled event",
		Detail:   "An event was emitted under a name with no subscribers.",
	},
	CodeReentrantUpdate: {
		Category: CategoryLifecycle,
		Message:  "Re-entrant update loop",
		Detail:   "A component kept requesting updates from inside its own render or patch.",
	},

	// ============================================
	// Scheduler errors (E010-E019)
	// ============================================

	CodeJobFailed: {
		Category: CategoryScheduler,
		Message:  "Scheduled job failed",
		Detail:   "A deferred lifecycle callback returned an error or panicked. Remaining jobs still ran.",
	},

	// ============================================
	// Configuration errors (E020-E039)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "relax.yaml could not be parsed or contains an unsupported value.",
	},
}

// Sentinels for errors.Is comparisons. Returned errors are fresh values
// carrying details; they match these by code.
var (
	ErrInvalidArgument    = New(CodeInvalidArgument)
	ErrInvalidMountTarget = New(CodeInvalidMountTarget)
	ErrInvalidIndex       = New(CodeInvalidIndex)
	ErrUnknownNodeType    = New(CodeUnknownNodeType)
	ErrAlreadyMounted     = New(CodeAlreadyMounted)
	ErrNotMounted         = New(CodeNotMounted)
	ErrReservedMethodName = New(CodeReservedMethodName)
	ErrUnhandledEvent     = New(CodeUnhandledEvent)
	ErrReentrantUpdate    = New(CodeReentrantUpdate)
	ErrJobFailed          = New(CodeJobFailed)
	ErrConfigInvalid      = New(CodeConfigInvalid)
)

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
