package iflytek

// Application result codes returned by the raasr v2 endpoints.
const (
	CodeSuccess             = 0
	CodeInvalidParameter    = 10005
	CodeInvalidSignature    = 10006
	CodeSignatureExpired    = 10007
	CodeRateLimited         = 10008
	CodeInsufficientBalance = 10009
	CodeInvalidOrderID      = 10010
	CodeInvalidAudioFile    = 10011
	CodeDurationExceeded    = 10012
	CodeConcurrencyExceeded = 10019
	CodeOrderNotFound       = 10029
	CodeInternalError       = 10101
	CodeTranscribeFailed    = 10102
	CodeTranscribeTimeout   = 10103
	CodeBadInput            = 10163
	CodeInvalidAppID        = 10205
	CodeInvalidAudioFormat  = 10800
)

var codeMessages = map[int]string{
	CodeSuccess:             "success",
	CodeInvalidParameter:    "invalid parameter",
	CodeInvalidSignature:    "invalid signature",
	CodeSignatureExpired:    "signature expired",
	CodeRateLimited:         "rate limited",
	CodeInsufficientBalance: "insufficient balance",
	CodeInvalidOrderID:      "invalid order id",
	CodeInvalidAudioFile:    "invalid audio file",
	CodeDurationExceeded:    "duration exceeds limit",
	CodeConcurrencyExceeded: "concurrency exceeded",
	CodeOrderNotFound:       "order not found",
	CodeInternalError:       "internal error",
	CodeTranscribeFailed:    "transcription failed",
	CodeTranscribeTimeout:   "transcription timeout",
	CodeBadInput:            "bad input",
	CodeInvalidAppID:        "invalid app id",
	CodeInvalidAudioFormat:  "invalid audio format",
}

// CodeMessage resolves an application code to its description. Codes
// outside the fixed table resolve to "unknown error".
func CodeMessage(code int) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return "unknown error"
}
