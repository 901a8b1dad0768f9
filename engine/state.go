package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// stage names one phase of the per-request pipeline.
type stage string

const (
	stageValidating stage = "validating"
	stageExecuting  stage = "executing"
	stageTracing    stage = "tracing"
	stageAssembling stage = "assembling"
	stageDone       stage = "done"
	stageFailed     stage = "failed"
)

// stageTransitions is the closed set of legal pipeline moves. Failed absorbs
// from every non-terminal stage; Done is reachable only through Assembling.
var stageTransitions = map[stage][]stage{
	stageValidating: {stageExecuting, stageFailed},
	stageExecuting:  {stageTracing, stageFailed},
	stageTracing:    {stageAssembling, stageFailed},
	stageAssembling: {stageDone, stageFailed},
	stageDone:       {},
	stageFailed:     {},
}

// pipeline tracks the stage of a single request, starting at Validating.
type pipeline struct {
	current stage
}

func newPipeline() *pipeline {
	return &pipeline{current: stageValidating}
}

// advance moves to the next stage. A move outside stageTransitions is a
// programming error, not a request error.
func (p *pipeline) advance(to stage) error {
	for _, allowed := range stageTransitions[p.current] {
		if allowed == to {
			p.current = to
			return nil
		}
	}
	return fmt.Errorf("illegal pipeline transition from %s to %s", p.current, to)
}

// execution bundles the request-scoped logger and pipeline of one Execute
// call.
type execution struct {
	log    *zap.Logger
	stages *pipeline
}

func (e *Engine) newExecution(id string) *execution {
	return &execution{
		log:    e.logger.With(zap.String("execution_id", id)),
		stages: newPipeline(),
	}
}

// to advances the pipeline. An illegal transition is reported through
// DPanic: loud in development, a logged error in production.
func (x *execution) to(s stage) {
	if err := x.stages.advance(s); err != nil {
		x.log.DPanic("pipeline corrupted", zap.Error(err))
		return
	}
	x.log.Debug("stage entered", zap.String("stage", string(s)))
}
