package predictor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
)

var ErrUnknownModel = errors.New("unknown model")

// Predictor turns an input tile into a per-pixel label-ID mask, indexed
// mask[y][x].
type Predictor interface {
	Predict(ctx context.Context, img image.Image) ([][]uint8, error)
	Close() error
}

// Registry holds the predictors exposed by the server, keyed by model name.
type Registry struct {
	predictors map[string]Predictor
}

func NewRegistry() *Registry {
	return &Registry{predictors: make(map[string]Predictor)}
}

func (r *Registry) Register(name string, p Predictor) {
	r.predictors[name] = p
}

func (r *Registry) Get(name string) (Predictor, error) {
	p, ok := r.predictors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}

	return p, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.predictors))
	for name := range r.predictors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Close() {
	for _, p := range r.predictors {
		p.Close()
	}
}
