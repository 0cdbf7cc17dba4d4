package constants

const (
	AppName            = "logsheet"
	Version            = "v0.3.0"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/logsheet"
	DefaultConfigPath  = "~/.config/logsheet/config.yaml"
	DefaultStorePath   = "~/.config/logsheet/logsheet.db"
	DefaultOutputDir   = "logs"

	// EnvDBConnection supplies a PostgreSQL connection string without putting it on the command line.
	EnvDBConnection = "LOGSHEET_DB_CONNECTION"

	// CalibrationKey is the well-known key the active calibration is stored under.
	CalibrationKey = "calibration_config"
	// TemplateKey remembers the template image the last calibration was made against.
	TemplateKey = "template_path"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "logsheet-"
	BackupFileSuffix = ".db"

	// Lockfile used to keep a single calibration session per machine
	CalibrationLockfileName = "logsheet-calibrate.lock"
)
