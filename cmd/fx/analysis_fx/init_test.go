package analysis_fx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

type closingClient struct {
	closed int
	err    error
}

func (c *closingClient) Close() error {
	c.closed++
	return c.err
}

func TestCloseOnStop(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	client := &closingClient{}
	closeOnStop(lc, client, zap.NewNop())

	lc.RequireStart()
	assert.Zero(t, client.closed)
	lc.RequireStop()
	assert.Equal(t, 1, client.closed)
}

func TestCloseOnStop_ReportsError(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	client := &closingClient{err: errors.New("conn reset")}
	closeOnStop(lc, client, zap.NewNop())

	lc.RequireStart()
	assert.Error(t, lc.Stop(t.Context()))
	assert.Equal(t, 1, client.closed)
}

func TestCloseOnStop_IgnoresPlainClients(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	closeOnStop(lc, struct{}{}, zap.NewNop())

	lc.RequireStart()
	lc.RequireStop()
}
