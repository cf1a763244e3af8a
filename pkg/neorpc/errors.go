package neorpc

import "fmt"

// Standard JSON-RPC 2.0 error codes plus the Neo N3-specific codes
// neo-go's RPC server defines above -32000.
const (
	ParseErrorCode        = -32700
	InvalidRequestCode     = -32600
	MethodNotFoundCode     = -32601
	InvalidParamsCode      = -32602
	InternalServerErrorCode = -32603

	BadRequestCode           = -32000
	InvalidSignerScopeErrCode = -32001
	InvalidContractVerificationCode = -32002
	UnknownErrorCode         = -32099

	RPCErrorCode = -400
	RPCUnsupportedCode = -401
	BadContractCode = -500
	BadTransactionCode = -501
	OutOfGasCode = -502
	VMErrorCode = -503
	AlreadyExistsCode = -504
	SessionsDisabledCode = -505
	UnknownSessionCode = -506
	IteratorNotFoundCode = -507
	UnsupportedStateCode = -508
	WSConnectionErrorCode = -510
)

// Error is the JSON-RPC 2.0 error object, with a Cause retained for
// errors.Is/errors.As chaining even though it never serializes.
type Error struct {
	Code     int64  `json:"code"`
	HTTPCode int    `json:"-"`
	Message  string `json:"message"`
	Data     string `json:"data,omitempty"`
	Cause    error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s (%d) - %s", e.Message, e.Code, e.Data)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s - %s", msg, e.Cause.Error())
	}
	return msg
}

// Unwrap exposes Cause to errors.As/errors.Unwrap.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports equality by Code only, so a freshly constructed sentinel
// error of the same code matches an error value carrying different
// Data/Cause, mirroring how neo-go callers check RPC error class.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newError(code int64, httpCode int, message string) func(data string) *Error {
	return func(data string) *Error {
		return &Error{Code: code, HTTPCode: httpCode, Message: message, Data: data}
	}
}

// NewParseError creates an error of ParseErrorCode (invalid JSON).
func NewParseError(data string) *Error { return newError(ParseErrorCode, 400, "Parse error")(data) }

// NewInvalidRequestError creates an error of InvalidRequestCode.
func NewInvalidRequestError(data string) *Error {
	return newError(InvalidRequestCode, 400, "Invalid request")(data)
}

// NewMethodNotFoundError creates an error of MethodNotFoundCode.
func NewMethodNotFoundError(data string) *Error {
	return newError(MethodNotFoundCode, 404, "Method not found")(data)
}

// NewInvalidParamsError creates an error of InvalidParamsCode.
func NewInvalidParamsError(data string) *Error {
	return newError(InvalidParamsCode, 400, "Invalid params")(data)
}

// NewInternalServerError creates an error of InternalServerErrorCode.
func NewInternalServerError(data string) *Error {
	return newError(InternalServerErrorCode, 500, "Internal error")(data)
}

// NewRPCError creates a generic "something about this request is bad"
// error, the catch-all neo-go's RPC server returns for most handler
// failures.
func NewRPCError(message, data string) *Error {
	e := newError(RPCErrorCode, 500, message)(data)
	return e
}

// NewInvalidSignerScopeError creates an error for a request carrying a
// Signer whose declared scope is malformed.
func NewInvalidSignerScopeError(data string) *Error {
	return newError(InvalidSignerScopeErrCode, 400, "Invalid signer scope")(data)
}

// NewBadRequestError creates a generic bad-request error.
func NewBadRequestError(data string) *Error { return newError(BadRequestCode, 400, "Bad request")(data) }

// NewContractStateError creates an error for a request referencing a
// contract that doesn't exist or is not deployable as given.
func NewContractStateError(data string) *Error {
	return newError(BadContractCode, 400, "Failed contract state check")(data)
}

// NewInvalidVerificationFunctionError creates an error when a
// preflight invocation's verification trigger reports FAULT.
func NewInvalidVerificationFunctionError(data string) *Error {
	return newError(InvalidContractVerificationCode, 400, "Invalid verification function")(data)
}

// NewUnknownSessionError creates an error for an invokeresult iterator
// session the node no longer recognizes (expired or never existed).
func NewUnknownSessionError(data string) *Error {
	return newError(UnknownSessionCode, 404, "Unknown session")(data)
}

// NewSessionsDisabledError creates an error for a traverseiterator
// request against a node that doesn't keep iterator sessions.
func NewSessionsDisabledError() *Error {
	return newError(SessionsDisabledCode, 400, "Sessions are disabled")("")
}

// NewIteratorNotFoundError creates an error for a traverseiterator
// request naming an iterator ID the session doesn't hold.
func NewIteratorNotFoundError(data string) *Error {
	return newError(IteratorNotFoundCode, 404, "Iterator not found")(data)
}

// NewInternalServerErrorf wraps a Go error chain into an Internal
// error, preserving it as Cause so errors.As still finds the original.
func NewInternalServerErrorf(format string, args ...interface{}) *Error {
	e := NewInternalServerError("")
	err := fmt.Errorf(format, args...)
	e.Data = err.Error()
	e.Cause = err
	return e
}
