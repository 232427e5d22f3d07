package handler_test

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/analogdpad/apiclient"
	"github.com/Alia5/analogdpad/apitypes"
	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/server/api"
	"github.com/Alia5/analogdpad/internal/server/api/handler"
	"github.com/Alia5/analogdpad/internal/store"
	th "github.com/Alia5/analogdpad/internal/testing"
)

func TestPreview(t *testing.T) {
	cfg := api.ServerConfig{PreviewSize: 24, MaxPreviewSize: 64}
	tests := []struct {
		name          string
		path          string
		req           apitypes.PreviewRequest
		width, height int
		status        int
	}{
		{name: "server default size", path: "8way", width: 24, height: 24},
		{name: "square from width", path: "4way", req: apitypes.PreviewRequest{Width: 10}, width: 10, height: 10},
		{name: "explicit size", path: "8way", req: apitypes.PreviewRequest{Width: 12, Height: 7}, width: 12, height: 7},
		{name: "too large", path: "8way", req: apitypes.PreviewRequest{Width: 65}, status: 400},
		{name: "negative", path: "8way", req: apitypes.PreviewRequest{Width: 4, Height: -1}, status: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, _ := th.StartAPIServer(t, cfg, func(r *api.Router, st store.Store) {
				r.Register("preview/{mode}", handler.Preview(st, cfg))
			})
			mode, err := dpad.ParseMode(tt.path)
			require.NoError(t, err)

			resp, err := apiclient.New(addr).Preview(context.Background(), mode, tt.req)
			if tt.status != 0 {
				var apiErr *apitypes.ApiError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.status, apiErr.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, mode, resp.Mode)
			assert.Equal(t, tt.width, resp.Width)
			assert.Equal(t, tt.height, resp.Height)

			img, err := png.Decode(bytes.NewReader(resp.PNG))
			require.NoError(t, err)
			assert.Equal(t, tt.width, img.Bounds().Dx())
			assert.Equal(t, tt.height, img.Bounds().Dy())
		})
	}
}

func TestPreviewWithoutPayload(t *testing.T) {
	cfg := api.ServerConfig{PreviewSize: 8, MaxPreviewSize: 8}
	addr, _ := th.StartAPIServer(t, cfg, func(r *api.Router, st store.Store) {
		r.Register("preview/{mode}", handler.Preview(st, cfg))
	})
	line := th.ExecCmd(t, addr, "preview/8way")
	assert.Contains(t, line, `"width":8`)
	assert.Contains(t, line, `"png":"iVBORw0KGgo`)
}
