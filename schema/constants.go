package schema

import "strings"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the relational backend holding reports, images and groups.
	DatabaseBackend string

	// StorageBackend represents where stimulus image binaries live.
	StorageBackend string

	// DayGuardMode selects how "already completed today" is decided.
	DayGuardMode string

	// Role is the role a profile plays inside a care group.
	Role string

	// SessionState is one state of the daily test session.
	SessionState string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// All storage backends supported.
const (
	S3Storage    StorageBackend = "s3"
	LocalStorage StorageBackend = "local" // default
)

// Day guard modes.
const (
	// CalendarDayGuard compares year, month and day.
	CalendarDayGuard DayGuardMode = "calendar" // default

	// DayOfMonthGuard compares only the day of the month. It is kept for parity with
	// historical deployments and false-positives across month boundaries.
	DayOfMonthGuard DayGuardMode = "day-of-month"
)

// Profile roles.
const (
	PatientRole   Role = "paciente"
	CaregiverRole Role = "cuidador"
	DoctorRole    Role = "medico"
	AdminRole     Role = "administrador"
)

// Session states.
const (
	SessionIdle       SessionState = "idle"
	SessionBlocked    SessionState = "blocked"
	SessionInProgress SessionState = "in_progress"
	SessionScoring    SessionState = "scoring"
	SessionPersisting SessionState = "persisting"
	SessionDone       SessionState = "done"
)

// Report kinds written or recognized by the system.
const (
	InitialKind = "Inicial"
	GeneralKind = "General"

	// misspelledInitialKind exists in stored data and must still count as a benchmark.
	misspelledInitialKind = "inical"
)

// Score scale bounds.
const (
	MinScore = 1.0
	MaxScore = 5.0
)

// DefaultPatientName is shown when a patient profile cannot be loaded.
const DefaultPatientName = "Paciente asignado"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// ValidStorageBackends lists all valid storage backends.
var ValidStorageBackends = map[StorageBackend]struct{}{
	S3Storage:    {},
	LocalStorage: {},
}

// ValidDayGuardModes lists all valid day guard modes.
var ValidDayGuardModes = map[DayGuardMode]struct{}{
	CalendarDayGuard: {},
	DayOfMonthGuard:  {},
}

// ValidRoles lists all valid profile roles.
var ValidRoles = map[Role]struct{}{
	PatientRole:   {},
	CaregiverRole: {},
	DoctorRole:    {},
	AdminRole:     {},
}

// IsInitialKind reports whether a report kind marks the benchmark assessment.
// Both the correct spelling and the historical "inical" typo match, ignoring case.
func IsInitialKind(kind string) bool {
	return strings.EqualFold(kind, InitialKind) || strings.EqualFold(kind, misspelledInitialKind)
}
