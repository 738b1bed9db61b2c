// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable kind of a TranslatorError.
type ErrorCode string

const (
	CodeConfiguration     ErrorCode = "CONFIGURATION_ERROR"
	CodeContentExtraction ErrorCode = "CONTENT_EXTRACTION_ERROR"
	CodeURLFetch          ErrorCode = "URL_FETCH_ERROR"
	CodePDFParse          ErrorCode = "PDF_PARSE_ERROR"
	CodeAIClassification  ErrorCode = "AI_CLASSIFICATION_ERROR"
	CodeAIExtraction      ErrorCode = "AI_EXTRACTION_ERROR"
	CodeAIValidation      ErrorCode = "AI_VALIDATION_ERROR"
)

// TranslatorError is the base error of the translation pipeline. Every
// failure surfaced by the translator carries one of the codes above.
type TranslatorError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *TranslatorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TranslatorError) Unwrap() error {
	return e.Cause
}

// Is matches any TranslatorError with the same code, so the sentinels below
// work with errors.Is regardless of message or cause.
func (e *TranslatorError) Is(target error) bool {
	var t *TranslatorError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrConfiguration     = &TranslatorError{Code: CodeConfiguration}
	ErrContentExtraction = &TranslatorError{Code: CodeContentExtraction}
	ErrURLFetch          = &TranslatorError{Code: CodeURLFetch}
	ErrPDFParse          = &TranslatorError{Code: CodePDFParse}
	ErrAIClassification  = &TranslatorError{Code: CodeAIClassification}
	ErrAIExtraction      = &TranslatorError{Code: CodeAIExtraction}
	ErrAIValidation      = &TranslatorError{Code: CodeAIValidation}
)

func newError(code ErrorCode, cause error, format string, args ...any) *TranslatorError {
	return &TranslatorError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NewConfigurationError reports invalid caller-supplied configuration or input.
func NewConfigurationError(format string, args ...any) error {
	return newError(CodeConfiguration, nil, format, args...)
}

func NewContentExtractionError(cause error, format string, args ...any) error {
	return newError(CodeContentExtraction, cause, format, args...)
}

func NewURLFetchError(cause error, format string, args ...any) error {
	return newError(CodeURLFetch, cause, format, args...)
}

func NewPDFParseError(cause error, format string, args ...any) error {
	return newError(CodePDFParse, cause, format, args...)
}

func NewAIClassificationError(cause error, format string, args ...any) error {
	return newError(CodeAIClassification, cause, format, args...)
}

func NewAIExtractionError(cause error, format string, args ...any) error {
	return newError(CodeAIExtraction, cause, format, args...)
}

func NewAIValidationError(cause error, format string, args ...any) error {
	return newError(CodeAIValidation, cause, format, args...)
}

// ErrorCodeOf returns the code of the outermost TranslatorError in err's
// chain, or "" when there is none.
func ErrorCodeOf(err error) ErrorCode {
	var te *TranslatorError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// IsAIError reports whether err belongs to the AI-path error kinds that the
// translator recovers from by falling back.
func IsAIError(err error) bool {
	switch ErrorCodeOf(err) {
	case CodeAIClassification, CodeAIExtraction, CodeAIValidation:
		return true
	default:
		return false
	}
}
