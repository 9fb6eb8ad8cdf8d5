package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// LogFormat represents the format of diagnostic logs.
	LogFormat string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv" // default
	TextOut    OutputMode = "text"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All log formats supported.
const (
	AutoLogFormat    LogFormat = "auto" // default
	ConsoleLogFormat LogFormat = "console"
	JSONLogFormat    LogFormat = "json"
)

// NotApplicableText is how an undefined capacity accuracy is rendered.
const NotApplicableText = "N/A"

// DateLayout is the calendar-day layout used for cycle boundaries in reports.
const DateLayout = "2006-01-02"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidLogFormats lists all valid log formats.
var ValidLogFormats = map[LogFormat]struct{}{
	AutoLogFormat:    {},
	ConsoleLogFormat: {},
	JSONLogFormat:    {},
}

// FileExtension returns the file extension used for the default output path.
func (m OutputMode) FileExtension() string {
	switch m {
	case TextOut:
		return "txt"
	case JSONOut:
		return "json"
	case ParquetOut:
		return "parquet"
	default:
		return "csv"
	}
}
