package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineHappyPath(t *testing.T) {
	p := newPipeline()
	require.Equal(t, stageValidating, p.current)

	for _, next := range []stage{stageExecuting, stageTracing, stageAssembling, stageDone} {
		require.NoError(t, p.advance(next))
		assert.Equal(t, next, p.current)
	}
}

func TestPipelineFailedAbsorbsFromEveryStage(t *testing.T) {
	paths := map[string][]stage{
		"validating": {},
		"executing":  {stageExecuting},
		"tracing":    {stageExecuting, stageTracing},
		"assembling": {stageExecuting, stageTracing, stageAssembling},
	}

	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			p := newPipeline()
			for _, next := range path {
				require.NoError(t, p.advance(next))
			}
			require.NoError(t, p.advance(stageFailed))
			assert.Equal(t, stageFailed, p.current)
		})
	}
}

func TestPipelineRejectsIllegalMoves(t *testing.T) {
	t.Run("skipping a stage", func(t *testing.T) {
		p := newPipeline()
		err := p.advance(stageTracing)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "illegal pipeline transition")
		assert.Equal(t, stageValidating, p.current, "a rejected move leaves the stage unchanged")
	})

	t.Run("leaving a terminal stage", func(t *testing.T) {
		p := newPipeline()
		require.NoError(t, p.advance(stageFailed))
		assert.Error(t, p.advance(stageExecuting))
		assert.Error(t, p.advance(stageFailed))
	})

	t.Run("moving backwards", func(t *testing.T) {
		p := newPipeline()
		require.NoError(t, p.advance(stageExecuting))
		require.NoError(t, p.advance(stageTracing))
		assert.Error(t, p.advance(stageExecuting))
	})
}
