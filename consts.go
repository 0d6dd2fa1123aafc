package logging

import "time"

const (
	// ServiceName is the DI/service locator name for the logging service.
	ServiceName = "logging"
	emptyString = ""
)

const (
	// DefaultMaxFileSize is the size cap of a single rotating log file.
	DefaultMaxFileSize int64 = 1024 * 1024
	// DefaultMaxFiles is the number of log files kept in the log directory.
	DefaultMaxFiles = 20
	// DefaultRelLogFileDir is where the rotating file sink writes, relative to the working dir.
	DefaultRelLogFileDir = "Logs"

	defaultShutdownTimeout  = 2 * time.Second
	defaultFailureReportsPS = 1.0
	defaultFailureBurst     = 5

	entryTimeLayout = "2006/01/02 15:04:05.000"
	fileTimeLayout  = "2006-01-02-15-04-05"
	logFileExt      = ".txt"
	gzipExt         = ".gz"
)

const (
	errMsgNilConfig        = "Logging config is nil."
	errMsgNilService       = "Logger service is nil."
	errMsgWorkingDirNotSet = "Working dir is not set."
	errMsgConfigInvalid    = "Logging configuration is invalid."
	errMsgNoSinks          = "No logging channels enabled."
	errMsgBadLevel         = "Unknown logging level."
	errMsgSinkInit         = "Failed to initialize log sink."
)
