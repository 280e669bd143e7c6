package errors

// Error codes for the search engine. The numeric ranges group codes by
// category: 1xx configuration, 2xx validation, 3xx network, 4xx cancellation.
const (
	// ErrCodeNotConfigured indicates no usable index key (missing, wrong
	// length, or not provisioned remotely). Suppresses all remote traffic.
	ErrCodeNotConfigured = "ERR_101_NOT_CONFIGURED"

	// ErrCodeConfigInvalid indicates a malformed configuration file or value.
	ErrCodeConfigInvalid = "ERR_102_CONFIG_INVALID"

	// ErrCodeInvalidInput indicates input that failed validation.
	ErrCodeInvalidInput = "ERR_201_INVALID_INPUT"

	// ErrCodeNetwork indicates a transport error or non-2xx response from the
	// remote index service. Retryable on the next natural trigger.
	ErrCodeNetwork = "ERR_301_NETWORK"

	// ErrCodeCancelled indicates a request aborted because it was superseded.
	// Never logged as an error and never surfaced as a failure state.
	ErrCodeCancelled = "ERR_401_CANCELLED"

	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// isRetryableCode reports whether operations failing with this code may
// succeed on a later attempt without operator intervention.
func isRetryableCode(code string) bool {
	return code == ErrCodeNetwork
}
