package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRegistryRemoveEvictsBothModes(t *testing.T) {
	r := NewRegistry()
	r.Put("tok-single", NewOrchestrator(&fakeSource{}, &fakeRecorder{}, "tok-single", "s1", zap.NewNop()))
	r.PutBatch("tok-batch", NewBatchOrchestrator(&fakeSource{}, &fakeRecorder{}, "tok-batch", "s2", 5, zap.NewNop()))

	r.Remove("tok-single")
	r.Remove("tok-batch")

	_, ok := r.Get("tok-single")
	assert.False(t, ok)
	_, ok = r.GetBatch("tok-batch")
	assert.False(t, ok)
}

func TestRegistryModesAreSeparate(t *testing.T) {
	r := NewRegistry()
	r.Put("tok", NewOrchestrator(&fakeSource{}, &fakeRecorder{}, "tok", "s1", zap.NewNop()))

	_, ok := r.GetBatch("tok")
	assert.False(t, ok)
	_, ok = r.Get("tok")
	assert.True(t, ok)
}
