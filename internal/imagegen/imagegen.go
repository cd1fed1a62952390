// Package imagegen sends text prompts to a generative image model and
// returns the decoded image bytes.
package imagegen

import (
	"context"
	"errors"
	"math/rand/v2"
)

// ErrNoImage is returned when the model answered without an image payload.
var ErrNoImage = errors.New("model response contained no image")

// MaxSeed is the largest seed Titan Image Generator accepts.
const MaxSeed = 2147483646

// DefaultNegativePrompt steers the model away from the usual failure modes
// of illustrated character cards.
const DefaultNegativePrompt = "blurry, low quality, distorted face, extra limbs, watermark, text, signature"

// Generator produces one image for one prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// Request describes a single text-to-image task.
type Request struct {
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
	CFGScale       float64
	Seed           int64
}

// Options holds the fixed parts of every request.
type Options struct {
	Width          int
	Height         int
	CFGScale       float64
	NegativePrompt string
}

// DefaultOptions returns the card defaults: a 1024 square at guidance 8.
func DefaultOptions() Options {
	return Options{
		Width:          1024,
		Height:         1024,
		CFGScale:       8.0,
		NegativePrompt: DefaultNegativePrompt,
	}
}

// NewRequest builds a Request for prompt with a random seed.
func NewRequest(prompt string, opts Options) Request {
	return Request{
		Prompt:         prompt,
		NegativePrompt: opts.NegativePrompt,
		Width:          opts.Width,
		Height:         opts.Height,
		CFGScale:       opts.CFGScale,
		Seed:           rand.Int64N(MaxSeed + 1),
	}
}
