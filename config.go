package logging

// Config is the logging section of an application's configuration file.
type Config struct {
	// Level is the least severe level that reaches the sinks.
	Level string `json:"level" yaml:"level" toml:"level" validate:"required,severity"`

	ConsoleLogging bool `json:"console_logging" yaml:"console_logging" toml:"console_logging"`
	ConsoleNoColor bool `json:"console_no_color" yaml:"console_no_color" toml:"console_no_color"`

	FileLogging bool `json:"file_logging" yaml:"file_logging" toml:"file_logging"`
	// RelLogFileDir is resolved against Service.WorkingDir.
	RelLogFileDir       string `json:"rel_log_file_dir" yaml:"rel_log_file_dir" toml:"rel_log_file_dir" validate:"required_if=FileLogging true,relpath"`
	LogFileMaxSizeBytes int64  `json:"log_file_max_size_bytes" yaml:"log_file_max_size_bytes" toml:"log_file_max_size_bytes" validate:"gte=0"`
	LogFileMaxFiles     int    `json:"log_file_max_files" yaml:"log_file_max_files" toml:"log_file_max_files" validate:"gte=0"`
	LogFileCompress     bool   `json:"log_file_compress" yaml:"log_file_compress" toml:"log_file_compress"`
	LogFileSyncOnWrite  bool   `json:"log_file_sync_on_write" yaml:"log_file_sync_on_write" toml:"log_file_sync_on_write"`

	JournalLogging    bool   `json:"journal_logging" yaml:"journal_logging" toml:"journal_logging"`
	JournalIdentifier string `json:"journal_identifier" yaml:"journal_identifier" toml:"journal_identifier"`

	ArchiveLogging    bool   `json:"archive_logging" yaml:"archive_logging" toml:"archive_logging"`
	ArchiveRelFile    string `json:"archive_rel_file" yaml:"archive_rel_file" toml:"archive_rel_file" validate:"required_if=ArchiveLogging true,relpath"`
	ArchiveMaxSizeMB  int    `json:"archive_max_size_mb" yaml:"archive_max_size_mb" toml:"archive_max_size_mb" validate:"gte=0"`
	ArchiveMaxBackups int    `json:"archive_max_backups" yaml:"archive_max_backups" toml:"archive_max_backups" validate:"gte=0"`
	ArchiveMaxAgeDays int    `json:"archive_max_age_days" yaml:"archive_max_age_days" toml:"archive_max_age_days" validate:"gte=0"`
	ArchiveCompress   bool   `json:"archive_compress" yaml:"archive_compress" toml:"archive_compress"`

	// FailureReportsPerSecond limits Error entries generated from sink failures. 0 means unlimited.
	FailureReportsPerSecond float64 `json:"failure_reports_per_second" yaml:"failure_reports_per_second" toml:"failure_reports_per_second" validate:"gte=0"`
	FailureReportBurst      int     `json:"failure_report_burst" yaml:"failure_report_burst" toml:"failure_report_burst" validate:"gte=0"`

	DiagnosticsLevel string `json:"diagnostics_level" yaml:"diagnostics_level" toml:"diagnostics_level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`

	ShutdownTimeoutMS      int  `json:"shutdown_timeout_ms" yaml:"shutdown_timeout_ms" toml:"shutdown_timeout_ms" validate:"gte=0"`
	ShutdownTimeoutWarning bool `json:"shutdown_timeout_warning" yaml:"shutdown_timeout_warning" toml:"shutdown_timeout_warning"`
	// FlushOnSignal releases file-backed sinks when SIGINT or SIGTERM arrives.
	FlushOnSignal bool `json:"flush_on_signal" yaml:"flush_on_signal" toml:"flush_on_signal"`
}

// DefaultConfig mirrors the behaviour of a freshly started service: debug
// level, console and rotating file output, 1 MiB files, 20 kept.
func DefaultConfig() Config {
	return Config{
		Level:                   "debug",
		ConsoleLogging:          true,
		FileLogging:             true,
		RelLogFileDir:           DefaultRelLogFileDir,
		LogFileMaxSizeBytes:     DefaultMaxFileSize,
		LogFileMaxFiles:         DefaultMaxFiles,
		ArchiveRelFile:          "archive/log.jsonl",
		ArchiveMaxSizeMB:        10,
		ArchiveMaxBackups:       5,
		ArchiveMaxAgeDays:       30,
		FailureReportsPerSecond: defaultFailureReportsPS,
		FailureReportBurst:      defaultFailureBurst,
		ShutdownTimeoutMS:       int(defaultShutdownTimeout.Milliseconds()),
		ShutdownTimeoutWarning:  true,
		FlushOnSignal:           true,
	}
}
