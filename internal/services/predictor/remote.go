package predictor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tilevision/segserve/pkg/tcpclient"
)

// RemotePredictor forwards inference to an external model worker over a
// framed TCP connection, with msgpack-encoded payloads. This mirrors the
// usual deployment where the model runs in a separate Python process.
type RemotePredictor struct {
	client  *tcpclient.Client
	dataset string
	model   string
}

type remoteRequest struct {
	Dataset string `msgpack:"dataset"`
	Model   string `msgpack:"model"`
	Image   []byte `msgpack:"image"`
}

type remoteResponse struct {
	Mask  [][]uint8 `msgpack:"mask"`
	Error string    `msgpack:"error"`
}

func NewRemotePredictor(client *tcpclient.Client, dataset, model string) *RemotePredictor {
	return &RemotePredictor{client: client, dataset: dataset, model: model}
}

func (p *RemotePredictor) Predict(ctx context.Context, img image.Image) ([][]uint8, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode tile: %w", err)
	}

	payload, err := msgpack.Marshal(remoteRequest{
		Dataset: p.dataset,
		Model:   p.model,
		Image:   buf.Bytes(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	raw, err := p.client.Call(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("model worker call failed: %w", err)
	}

	var response remoteResponse
	if err := msgpack.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("model worker error: %s", response.Error)
	}

	return response.Mask, nil
}

// Close is a no-op; the TCP client is shared across models and closed by
// the owning application.
func (p *RemotePredictor) Close() error {
	return nil
}
