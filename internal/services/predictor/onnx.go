package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"
)

// Metadata describes an exported segmentation model: tensor shapes are
// NCHW, the output carries one score plane per label.
type Metadata struct {
	InputShape  []int64 `json:"input_shape"`
	OutputShape []int64 `json:"output_shape"`
	ImageSize   int     `json:"image_size"`
	NbLabels    int     `json:"nb_labels"`
}

var (
	ortOnce    sync.Once
	ortInitErr error
)

func initONNXRuntime() error {
	ortOnce.Do(func() {
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// ONNXPredictor runs a segmentation model in-process through the ONNX
// runtime. The session tensors are reused across calls, so Predict is
// serialized with a mutex.
type ONNXPredictor struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	meta    Metadata
}

func NewONNXPredictor(modelPath, metadataPath string) (*ONNXPredictor, error) {
	if err := initONNXRuntime(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	metaBytes, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse model metadata: %w", err)
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXPredictor{
		session: session,
		input:   input,
		output:  output,
		meta:    meta,
	}, nil
}

func (p *ONNXPredictor) Predict(ctx context.Context, img image.Image) ([][]uint8, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	copy(p.input.GetData(), imageToTensor(img, p.meta.ImageSize))

	if err := p.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	return argmaxMask(p.output.GetData(), p.meta.NbLabels, p.meta.ImageSize, p.meta.ImageSize), nil
}

func (p *ONNXPredictor) Close() error {
	if p.input != nil {
		p.input.Destroy()
	}
	if p.output != nil {
		p.output.Destroy()
	}
	if p.session != nil {
		p.session.Destroy()
	}
	return nil
}

// imageToTensor resizes the tile to size x size and lays it out as a CHW
// float32 tensor with channel values scaled to [0, 1].
func imageToTensor(img image.Image, size int) []float32 {
	resized := resize.Resize(uint(size), uint(size), img, resize.Bilinear)

	data := make([]float32, 3*size*size)
	plane := size * size
	bounds := resized.Bounds()

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*size + x
			data[idx] = float32(r>>8) / 255.0
			data[plane+idx] = float32(g>>8) / 255.0
			data[2*plane+idx] = float32(b>>8) / 255.0
		}
	}

	return data
}

// argmaxMask reduces CHW class scores to a label-ID mask by picking the
// highest-scoring class per pixel.
func argmaxMask(scores []float32, classes, height, width int) [][]uint8 {
	plane := height * width
	mask := make([][]uint8, height)

	for y := 0; y < height; y++ {
		mask[y] = make([]uint8, width)
		for x := 0; x < width; x++ {
			idx := y*width + x
			best := 0
			bestScore := scores[idx]
			for c := 1; c < classes; c++ {
				if score := scores[c*plane+idx]; score > bestScore {
					bestScore = score
					best = c
				}
			}
			mask[y][x] = uint8(best)
		}
	}

	return mask
}
