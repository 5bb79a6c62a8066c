// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"
)

// Stage names a pipeline step in errors and logs.
type Stage string

const (
	StageAcquire   Stage = "acquire"
	StageExtract   Stage = "extract"
	StageNormalize Stage = "normalize"
	StageGenerate  Stage = "generate"
	StageSearch    Stage = "search"
)

// ErrNoQueries is returned when the model reply contains no usable query lines.
var ErrNoQueries = errors.New("no queries generated: model reply contained no usable lines")

// ConfigError reports missing or invalid configuration. The pipeline does
// not start when one is returned.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "configuration: " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// StageError wraps the failure of one stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
