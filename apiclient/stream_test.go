package apiclient_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/analogdpad/apiclient"
	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/log"
	"github.com/Alia5/analogdpad/internal/server/api"
	"github.com/Alia5/analogdpad/internal/server/api/handler"
	"github.com/Alia5/analogdpad/internal/store"
	th "github.com/Alia5/analogdpad/internal/testing"
)

func TestStreamOverAuthenticatedConnection(t *testing.T) {
	addr, _ := th.StartAPIServer(t, api.ServerConfig{Password: "s3cret"}, func(r *api.Router, st store.Store) {
		r.RegisterStream("stream/{mode}", handler.Stream(st, log.NewRaw(nil)))
		r.Register("ping", handler.Ping("test"))
	})

	c := apiclient.NewWithPassword(addr, "s3cret")
	ping, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", ping.Version)

	s, err := c.OpenStream(context.Background(), dpad.FourWay)
	require.NoError(t, err)
	defer s.Close()

	for _, step := range []struct {
		sample dpad.Sample
		want   dpad.Direction
	}{
		{dpad.Sample{X: 0.7, Y: 0.7}, dpad.Up},
		{dpad.Sample{X: 0.72, Y: 0.7}, dpad.Up},
		{dpad.Sample{X: 0.8, Y: 0.7}, dpad.Right},
		{dpad.Sample{}, 0},
	} {
		got, err := s.SendSample(step.sample)
		require.NoError(t, err)
		assert.Equal(t, step.want, got, "sample %+v", step.sample)
	}

	require.NoError(t, s.Close())
	_, err = s.SendSample(dpad.Sample{})
	assert.EqualError(t, err, "stream closed")
}
