package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeValidation         ErrorCode = "COMMON_005"
	ErrCodeSerialization      ErrorCode = "COMMON_006"
	ErrCodeDatabaseError      ErrorCode = "COMMON_007"
	ErrCodeCacheError         ErrorCode = "COMMON_008"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_009"
	ErrCodeNotImplemented     ErrorCode = "COMMON_010"
)

// Calendar / jurisdiction configuration codes
const (
	ErrCodeJurisdictionUnknown ErrorCode = "CAL_001"
	ErrCodeHolidaySetMissing   ErrorCode = "CAL_002"
	ErrCodeInvalidDate         ErrorCode = "CAL_003"
)

// Rule template codes
const (
	ErrCodeRuleTemplateNotFound     ErrorCode = "RULE_001"
	ErrCodeRuleTemplateInvalid      ErrorCode = "RULE_002"
	ErrCodeJurisdictionNotOnboarded ErrorCode = "RULE_003"
)

// Docket engine codes
const (
	ErrCodeTriggerNotFound        ErrorCode = "DOCKET_001"
	ErrCodeDeadlineNotFound       ErrorCode = "DOCKET_002"
	ErrCodeRecalculationConflict  ErrorCode = "DOCKET_003"
	ErrCodeInvalidDayCount        ErrorCode = "DOCKET_004"
	ErrCodeTriggerStateInvalid    ErrorCode = "DOCKET_005"
	ErrCodeCascadeExpansionFailed ErrorCode = "DOCKET_006"
)

// Aliases kept for call-site readability.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeJurisdictionUnknown: http.StatusBadRequest,
	ErrCodeHolidaySetMissing:   http.StatusInternalServerError,
	ErrCodeInvalidDate:         http.StatusBadRequest,

	ErrCodeRuleTemplateNotFound:     http.StatusNotFound,
	ErrCodeRuleTemplateInvalid:      http.StatusInternalServerError,
	ErrCodeJurisdictionNotOnboarded: http.StatusNotFound,

	ErrCodeTriggerNotFound:        http.StatusNotFound,
	ErrCodeDeadlineNotFound:       http.StatusNotFound,
	ErrCodeRecalculationConflict:  http.StatusConflict,
	ErrCodeInvalidDayCount:        http.StatusBadRequest,
	ErrCodeTriggerStateInvalid:    http.StatusConflict,
	ErrCodeCascadeExpansionFailed: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeJurisdictionUnknown: "unknown jurisdiction",
	ErrCodeHolidaySetMissing:   "holiday calendar not configured",
	ErrCodeInvalidDate:         "invalid calendar date",

	ErrCodeRuleTemplateNotFound:     "rule template not found",
	ErrCodeRuleTemplateInvalid:      "rule template invalid",
	ErrCodeJurisdictionNotOnboarded: "jurisdiction not onboarded",

	ErrCodeTriggerNotFound:        "trigger not found",
	ErrCodeDeadlineNotFound:       "deadline not found",
	ErrCodeRecalculationConflict:  "recalculation conflicts with completed deadlines",
	ErrCodeInvalidDayCount:        "invalid day count",
	ErrCodeTriggerStateInvalid:    "invalid trigger state transition",
	ErrCodeCascadeExpansionFailed: "cascade expansion failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
