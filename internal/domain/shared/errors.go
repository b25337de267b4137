package shared

// ErrorKind classifies domain errors into the failure classes callers are
// expected to branch on.
type ErrorKind string

const (
	// KindValidation indicates bad or missing input
	KindValidation ErrorKind = "VALIDATION"
	// KindNotFound indicates a referenced entity is absent
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindInvalidState indicates an operation not legal from the current state
	KindInvalidState ErrorKind = "INVALID_STATE"
	// KindConflict indicates a uniqueness or concurrency violation
	KindConflict ErrorKind = "CONFLICT"
	// KindDependency indicates a required collaborator could not be resolved
	KindDependency ErrorKind = "DEPENDENCY"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target matches this error. A sentinel with an empty Code
// matches every error of the same kind, so callers can test against the class
// sentinels below or against a specific coded error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return t.Kind == e.Kind
}

// NewValidationError creates a validation error with a specific code
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewNotFoundError creates a not-found error with a specific code
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// NewInvalidStateError creates an invalid-state error with a specific code
func NewInvalidStateError(code, message string) *DomainError {
	return &DomainError{Kind: KindInvalidState, Code: code, Message: message}
}

// NewConflictError creates a conflict error with a specific code
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// NewDependencyError creates a dependency error with a specific code
func NewDependencyError(code, message string) *DomainError {
	return &DomainError{Kind: KindDependency, Code: code, Message: message}
}

// Common domain errors. The class sentinels (empty code) match any error of
// the same kind under errors.Is.
var (
	ErrValidation          = &DomainError{Kind: KindValidation, Message: "Invalid input provided"}
	ErrNotFound            = &DomainError{Kind: KindNotFound, Message: "Resource not found"}
	ErrInvalidState        = &DomainError{Kind: KindInvalidState, Message: "Operation not allowed in current state"}
	ErrConflict            = &DomainError{Kind: KindConflict, Message: "Resource already exists"}
	ErrDependencyFailed    = &DomainError{Kind: KindDependency, Message: "Required collaborator could not be resolved"}
	ErrConcurrencyConflict = NewConflictError("CONCURRENT_MODIFICATION", "Resource was modified by another process")
)
