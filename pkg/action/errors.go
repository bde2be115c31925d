package action

import "errors"

// CodeUnknown is used when an error carries no machine-readable code.
const CodeUnknown = "UNKNOWN"

// ErrorDetail is the serializable form of a failure.
type ErrorDetail struct {
	Code     string   `json:"code"`
	Messages []string `json:"messages"`
}

// coded is implemented by errors that know their own code and messages,
// such as the API gateway's *api.Error.
type coded interface {
	ErrorCode() string
	ErrorMessages() []string
}

// NewErrorDetail converts err into an ErrorDetail.
func NewErrorDetail(err error) ErrorDetail {
	if err == nil {
		return ErrorDetail{Code: CodeUnknown}
	}

	var c coded
	if errors.As(err, &c) {
		msgs := c.ErrorMessages()
		if len(msgs) == 0 {
			msgs = []string{err.Error()}
		}
		code := c.ErrorCode()
		if code == "" {
			code = CodeUnknown
		}
		return ErrorDetail{Code: code, Messages: append([]string(nil), msgs...)}
	}

	return ErrorDetail{Code: CodeUnknown, Messages: []string{err.Error()}}
}
