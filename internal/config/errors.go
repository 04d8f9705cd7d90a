package config

import "errors"

var (
	ErrReadingConfigFile      = errors.New("failed to read config file")
	ErrUnmarshallingConfig    = errors.New("failed to unmarshal config")
	ErrBindingFlags           = errors.New("failed to bind command-line flags")
	ErrConfigFileMissing      = errors.New("config file not found")
	ErrEmptyInputPath         = errors.New("input path cannot be empty")
	ErrInvalidWorkers         = errors.New("pipeline workers must be positive")
	ErrInvalidChunkSize       = errors.New("pipeline chunkSize cannot be negative")
	ErrInvalidSeparator       = errors.New("pipeline separator must be a single byte other than newline")
	ErrInvalidMalformedPolicy = errors.New("pipeline malformedPolicy must be one of count, log, ignore")
	ErrInvalidOutputFormat    = errors.New("output format must be one of text, jsonl, none")
	ErrEmptyKafkaTopic        = errors.New("kafka topic cannot be empty when brokers are set")
	ErrInvalidKafkaBatchSize  = errors.New("kafka batchSize must be positive")
	ErrEmptyMetricsJobName    = errors.New("metrics jobName cannot be empty when a push gateway is set")
)
