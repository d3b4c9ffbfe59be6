package response

// Response is the JSON envelope every endpoint returns
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorData  `json:"error,omitempty"`
}

// ErrorData carries a machine-readable code and a human-readable message
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success wraps data in a successful envelope
func Success(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// Error builds a failed envelope with the given code and message
func Error(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorData{
			Code:    code,
			Message: message,
		},
	}
}

// BadRequest builds a BAD_REQUEST envelope
func BadRequest(message string) Response {
	return Error("BAD_REQUEST", message)
}

// NotFound builds a NOT_FOUND envelope
func NotFound(message string) Response {
	return Error("NOT_FOUND", message)
}

// Unauthorized builds an UNAUTHORIZED envelope
func Unauthorized(message string) Response {
	return Error("UNAUTHORIZED", message)
}

// InternalError builds an INTERNAL_ERROR envelope
func InternalError(message string) Response {
	return Error("INTERNAL_ERROR", message)
}
