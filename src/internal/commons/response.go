package commons

type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// FailureResponse builds the error envelope for err using its stable code and message.
func FailureResponse[T any](err error, details ...string) Response[T] {
	info := Classify(err)
	return Response[T]{
		Success: false,
		Message: info.Message,
		Code:    info.Code,
		Errors:  details,
	}
}
