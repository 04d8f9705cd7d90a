package config

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultSeparator       = ";"
	defaultMalformedPolicy = MalformedCount
	defaultChunkSize       = 0
	defaultOutputFormat    = "text"
	defaultKafkaBatchSize  = 1000
	defaultMetricsJobName  = "measurelens"
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultLogFileEnabled  = false
	defaultLogDirectory    = "log"
	defaultLogFilename     = "measurelens.log"
	defaultLogMaxSizeMB    = 100
	defaultLogMaxBackups   = 3
	defaultLogMaxAgeDays   = 7
	defaultLogCompress     = false

	// Environment variable prefix
	envPrefix = "MEASURELENS"
)

// MalformedPolicy controls how unparsable lines are reported. They never abort a run.
type MalformedPolicy string

const (
	MalformedCount  MalformedPolicy = "count"
	MalformedLog    MalformedPolicy = "log"
	MalformedIgnore MalformedPolicy = "ignore"
)

type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Output   OutputConfig   `mapstructure:"output"`
	Sink     SinkConfig     `mapstructure:"sink"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

type InputConfig struct {
	Path string `mapstructure:"path"`
}

type PipelineConfig struct {
	Workers         int             `mapstructure:"workers"`
	ChunkSize       int             `mapstructure:"chunkSize"` // bytes per partition, 0 splits into Workers partitions
	Separator       string          `mapstructure:"separator"`
	MalformedPolicy MalformedPolicy `mapstructure:"malformedPolicy"`
}

// SeparatorByte returns the configured separator. Only meaningful after validation.
func (c PipelineConfig) SeparatorByte() byte {
	if len(c.Separator) != 1 {
		return defaultSeparator[0]
	}
	return c.Separator[0]
}

type OutputConfig struct {
	Format string `mapstructure:"format"` // text, jsonl or none
	Path   string `mapstructure:"path"`   // empty writes to stdout
}

type SinkConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers   []string `mapstructure:"brokers"`
	Topic     string   `mapstructure:"topic"`
	BatchSize int      `mapstructure:"batchSize"`
}

// Enabled reports whether results should be published to Kafka.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

type MetricsConfig struct {
	PushGatewayURL string `mapstructure:"pushGatewayURL"`
	JobName        string `mapstructure:"jobName"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"input":            "input.path",
	"workers":          "pipeline.workers",
	"chunk-size":       "pipeline.chunkSize",
	"separator":        "pipeline.separator",
	"malformed-policy": "pipeline.malformedPolicy",
	"output":           "output.format",
	"output-path":      "output.path",
	"log-level":        "log.level",
}

// RegisterFlags defines the command-line flags that Load understands on flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("input", "i", "", "Path to the measurements file")
	flags.IntP("workers", "w", runtime.NumCPU(), "Number of parallel workers")
	flags.Int("chunk-size", defaultChunkSize, "Partition size in bytes (0 splits the input into one partition per worker)")
	flags.String("separator", defaultSeparator, "Separator between key and measurement")
	flags.String("malformed-policy", string(defaultMalformedPolicy), "How to report malformed lines: count, log or ignore")
	flags.StringP("output", "o", defaultOutputFormat, "Output format: text, jsonl or none")
	flags.String("output-path", "", "Write results to this file instead of stdout")
	flags.String("log-level", defaultLogLevel, "Log level")
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
// configPath may be empty, in which case only defaults, environment and flags apply.
// flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	// Set default values before reading config source .yaml
	setDefaults(v)

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := readConfigFile(v); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults applies default configuration values using Viper.
// Every key needs a default so that AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "")
	v.SetDefault("pipeline.workers", runtime.NumCPU())
	v.SetDefault("pipeline.chunkSize", defaultChunkSize)
	v.SetDefault("pipeline.separator", defaultSeparator)
	v.SetDefault("pipeline.malformedPolicy", string(defaultMalformedPolicy))
	v.SetDefault("output.format", defaultOutputFormat)
	v.SetDefault("output.path", "")
	v.SetDefault("sink.kafka.brokers", []string{})
	v.SetDefault("sink.kafka.topic", "")
	v.SetDefault("sink.kafka.batchSize", defaultKafkaBatchSize)
	v.SetDefault("metrics.pushGatewayURL", "")
	v.SetDefault("metrics.jobName", defaultMetricsJobName)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// bindFlags binds every known flag present in flags to its configuration key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrBindingFlags, name, err)
		}
	}
	return nil
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) || errors.Is(err, fs.ErrNotExist) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

// validateConfig reports every violation at once.
func validateConfig(cfg *Config) error {
	var result *multierror.Error

	if cfg.Input.Path == "" {
		result = multierror.Append(result, ErrEmptyInputPath)
	}
	if cfg.Pipeline.Workers <= 0 {
		result = multierror.Append(result, ErrInvalidWorkers)
	}
	if cfg.Pipeline.ChunkSize < 0 {
		result = multierror.Append(result, ErrInvalidChunkSize)
	}
	if len(cfg.Pipeline.Separator) != 1 || cfg.Pipeline.Separator == "\n" {
		result = multierror.Append(result, ErrInvalidSeparator)
	}
	switch cfg.Pipeline.MalformedPolicy {
	case MalformedCount, MalformedLog, MalformedIgnore:
	default:
		result = multierror.Append(result, ErrInvalidMalformedPolicy)
	}
	switch cfg.Output.Format {
	case "text", "jsonl", "none":
	default:
		result = multierror.Append(result, ErrInvalidOutputFormat)
	}
	if cfg.Sink.Kafka.Enabled() {
		if cfg.Sink.Kafka.Topic == "" {
			result = multierror.Append(result, ErrEmptyKafkaTopic)
		}
		if cfg.Sink.Kafka.BatchSize <= 0 {
			result = multierror.Append(result, ErrInvalidKafkaBatchSize)
		}
	}
	if cfg.Metrics.PushGatewayURL != "" && cfg.Metrics.JobName == "" {
		result = multierror.Append(result, ErrEmptyMetricsJobName)
	}

	return result.ErrorOrNil()
}
