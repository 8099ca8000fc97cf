package exc

const (
	CodeUnknownFatal                  = "M0000"
	CodeFileNotFound                  = "M0001"
	CodeUnsuportedFileSystemOperation = "M0002"
	CodePermissionDenied              = "M0003"
	CodeUnsupportedFileFormat         = "M0004"
	CodeUnexpectedEOF                 = "M0005"
	CodeFileReadError                 = "M0006"
	CodeInvalidNumber                 = "M0007"
	CodeUnexpectedInput               = "M0008"
	CodeUnterminatedString            = "M0009"
	CodeInvalidEscape                 = "M0010"
	CodeExpectedToken                 = "M0011"
	CodeExpectedExpression            = "M0012"
	CodeExpectedIdentifier            = "M0013"
	CodeMissingWhitespace             = "M0014"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
