package pipeline

import "errors"

var (
	ErrInvalidPipelineConfig = errors.New("invalid pipeline configuration")
	ErrOpenSourceFailed      = errors.New("failed to open input")
	ErrMetricsPushFailed     = errors.New("failed to push metrics")
)
