package ctxlogger

import (
	stderrs "errors"
	"strings"

	"github.com/Station-Manager/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding configuration keys,
// e.g. CTXLOG_LEVEL or CTXLOG_FILE_LOGGING.
const EnvPrefix = "CTXLOG"

// Config configures the zerolog Service.
type Config struct {
	// Level is the minimum level written. Empty lets every record through.
	Level string `validate:"omitempty,oneof=debug info warning warn error critical fatal"`

	// JSONLogging writes JSON records to Service.Output (stdout by default).
	JSONLogging bool

	// ConsoleLogging writes human readable records to stderr.
	ConsoleLogging    bool
	ConsoleNoColor    bool
	ConsoleTimeFormat string

	// FileLogging writes JSON records to a rolling file under
	// WorkingDir/RelLogFileDir.
	FileLogging       bool
	RelLogFileDir     string `validate:"required_if=FileLogging true,omitempty,relpath"`
	LogFileName       string `validate:"omitempty,excludesall=/\\"`
	LogFileMaxBackups int    `validate:"gte=0"`
	LogFileMaxAgeDays int    `validate:"gte=0"`
	LogFileMaxSizeMB  int    `validate:"gte=0"`
	LogFileCompress   bool
}

// DefaultConfig writes every level as JSON to stdout, like the process-wide
// default logger.
func DefaultConfig() *Config {
	return &Config{
		JSONLogging:       true,
		RelLogFileDir:     "logs",
		LogFileMaxBackups: 3,
		LogFileMaxAgeDays: 7,
		LogFileMaxSizeMB:  10,
	}
}

// LoadConfig reads the configuration from path (any format viper understands)
// and applies CTXLOG_* environment overrides on top of DefaultConfig.
// With an empty path, ctxlogger.{yaml,json,toml} is looked up in the current
// and ./config directories and its absence is not an error.
func LoadConfig(path string) (*Config, error) {
	const op errors.Op = "ctxlogger.LoadConfig"

	v := viper.New()
	if path != emptyString {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ctxlogger")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("level", def.Level)
	v.SetDefault("json_logging", def.JSONLogging)
	v.SetDefault("console_logging", def.ConsoleLogging)
	v.SetDefault("console_no_color", def.ConsoleNoColor)
	v.SetDefault("console_time_format", def.ConsoleTimeFormat)
	v.SetDefault("file_logging", def.FileLogging)
	v.SetDefault("rel_log_file_dir", def.RelLogFileDir)
	v.SetDefault("log_file_name", def.LogFileName)
	v.SetDefault("log_file_max_backups", def.LogFileMaxBackups)
	v.SetDefault("log_file_max_age_days", def.LogFileMaxAgeDays)
	v.SetDefault("log_file_max_size_mb", def.LogFileMaxSizeMB)
	v.SetDefault("log_file_compress", def.LogFileCompress)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrs.As(err, &notFound) {
			return nil, errors.New(op).Err(err).Msg(errMsgLoadConfig)
		}
	}

	cfg := &Config{
		Level:             v.GetString("level"),
		JSONLogging:       v.GetBool("json_logging"),
		ConsoleLogging:    v.GetBool("console_logging"),
		ConsoleNoColor:    v.GetBool("console_no_color"),
		ConsoleTimeFormat: v.GetString("console_time_format"),
		FileLogging:       v.GetBool("file_logging"),
		RelLogFileDir:     v.GetString("rel_log_file_dir"),
		LogFileName:       v.GetString("log_file_name"),
		LogFileMaxBackups: v.GetInt("log_file_max_backups"),
		LogFileMaxAgeDays: v.GetInt("log_file_max_age_days"),
		LogFileMaxSizeMB:  v.GetInt("log_file_max_size_mb"),
		LogFileCompress:   v.GetBool("log_file_compress"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
