package worker

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsAllJobs(t *testing.T) {
	p := NewPool(3)
	var n atomic.Int32
	for i := 0; i < 50; i++ {
		assert.True(t, p.Submit(func() { n.Add(1) }))
	}
	p.Stop()
	assert.Equal(t, int32(50), n.Load())
}

func TestPoolSurvivesPanicAndRejectsAfterStop(t *testing.T) {
	p := NewPool(1)
	var ran atomic.Bool
	p.Submit(func() { panic("boom") })
	p.Submit(func() { ran.Store(true) })
	p.Stop()
	assert.True(t, ran.Load())

	assert.False(t, p.Submit(func() {}))
	p.Stop()
}
