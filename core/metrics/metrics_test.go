package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersNormalizeLabels(t *testing.T) {
	before := testutil.ToFloat64(adminCommandsTotal.WithLabelValues("add_proxy", "ok"))
	IncAdminCommand(" ADD_PROXY ", "OK")
	assert.Equal(t, before+1, testutil.ToFloat64(adminCommandsTotal.WithLabelValues("add_proxy", "ok")))
}

func TestStaleDeleteResult(t *testing.T) {
	ok := testutil.ToFloat64(staleDeletesTotal.WithLabelValues("ok"))
	failed := testutil.ToFloat64(staleDeletesTotal.WithLabelValues("failed"))
	IncStaleDelete(true)
	IncStaleDelete(false)
	IncStaleDelete(false)
	assert.Equal(t, ok+1, testutil.ToFloat64(staleDeletesTotal.WithLabelValues("ok")))
	assert.Equal(t, failed+2, testutil.ToFloat64(staleDeletesTotal.WithLabelValues("failed")))
}

func TestMustRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		MustRegister()
		MustRegister()
	})
}
