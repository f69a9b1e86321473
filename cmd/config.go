package cmd

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"branchgen.dev/pkg/branchgen/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	initCmdName = "init"

	configBaseName   = "branchgen"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName     = "output"
	noCacheFlagName    = "no-cache"
	excludeFlagName    = "exclude"
	parallelFlagName   = "parallel"
	forceFlagName      = "force"
	dryRunFlagName     = "dry-run"
	templateFlagName   = "template"
	falseLabelFlagName = "false-label"
	debounceFlagName   = "debounce"
	verboseFlagName    = "verbose"
	logFileFlagName    = "log-file"

	excludeConfigKey    = "paths.exclude"
	manifestConfigKey   = "manifest"
	parallelConfigKey   = "generate.parallel"
	forceConfigKey      = "generate.force"
	templateConfigKey   = "generate.template"
	falseLabelConfigKey = "generate.false_label"
	debounceConfigKey   = "watch.debounce"

	defaultOutputDir  = ""
	defaultNoCache    = false
	defaultManifest   = ".branchgen/manifest.yaml"
	defaultParallel   = 4
	defaultForce      = false
	defaultTemplate   = domain.TemplateAuto
	defaultFalseLabel = domain.DefaultFalseLabel
	defaultDebounce   = domain.DefaultDebounce

	envPrefix = "BRANCHGEN"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".branchgen.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

// logFile is the rotating writer behind globalLogger.
var logFile *lumberjack.Logger

// configLoadErr records a branchgen.yaml that exists but could not be read.
var configLoadErr error

func init() {
	initConfig()
}

// initConfig registers config file lookup, env binding and defaults with viper.
func initConfig() {
	viper.SetConfigName(configBaseName)
	viper.AddConfigPath(configFolderPath)
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultOutputDir)
	viper.SetDefault(noCacheFlagName, defaultNoCache)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(manifestConfigKey, defaultManifest)
	viper.SetDefault(parallelConfigKey, defaultParallel)
	viper.SetDefault(forceConfigKey, defaultForce)
	viper.SetDefault(templateConfigKey, defaultTemplate)
	viper.SetDefault(falseLabelConfigKey, defaultFalseLabel)
	viper.SetDefault(debounceConfigKey, defaultDebounce.String())

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	configLoadErr = readConfig()
}

// readConfig loads branchgen.yaml when present. Only a missing file is tolerated.
func readConfig() error {
	err := viper.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}

	return fmt.Errorf("load %s: %w", configFileName, err)
}

// checkConfig fails every command but init while branchgen.yaml is unreadable,
// so init --force can replace a broken file.
func checkConfig(cmd *cobra.Command) error {
	if configLoadErr != nil && cmd.Name() != initCmdName {
		return configLoadErr
	}

	return nil
}

// parseSlogLevel accepts slog level names with optional offsets ("info+2"),
// "warning", and plain integers. Anything else yields fallback.
func parseSlogLevel(value string, fallback slog.Level) slog.Level {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	if strings.EqualFold(value, "warning") {
		return slog.LevelWarn
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err == nil {
		return level
	}

	if n, err := strconv.Atoi(value); err == nil {
		return slog.Level(n)
	}

	return fallback
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}

	return parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
}

// configureLogger points the default slog logger at a rotating log file,
// closing the file of a previous configuration.
func configureLogger(logPath string, verbose bool) {
	logPath = cmp.Or(strings.TrimSpace(logPath), strings.TrimSpace(viper.GetString(logFilenameKey)), defaultLogFilename)

	if logFile != nil {
		_ = logFile.Close()
	}

	logFile = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	globalLogger = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel(verbose),
	}))
	slog.SetDefault(globalLogger)
}
