package card

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hunterjsb/leaguecard/internal/imagegen"
	"github.com/hunterjsb/leaguecard/internal/metrics"
	"github.com/hunterjsb/leaguecard/internal/riot"
	"github.com/hunterjsb/leaguecard/internal/riot/riottest"
)

// fakeGenerator returns a solid PNG of the requested size.
type fakeGenerator struct {
	calls int
	req   imagegen.Request
	err   error
}

func (g *fakeGenerator) Generate(_ context.Context, req imagegen.Request) ([]byte, error) {
	g.calls++
	g.req = req
	if g.err != nil {
		return nil, g.err
	}

	img := image.NewRGBA(image.Rect(0, 0, req.Width, req.Height))
	for y := 0; y < req.Height; y++ {
		for x := 0; x < req.Width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 150, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newTestService(t *testing.T, srv *riottest.Server, gen imagegen.Generator, m *metrics.Collectors) *Service {
	t.Helper()
	return &Service{
		Aggregator: &Aggregator{
			Riot:        srv.Client(),
			Champions:   bundledTable(t),
			MatchCount:  DefaultMatchCount,
			Concurrency: DefaultConcurrency,
		},
		Generator:   gen,
		Image:       imagegen.Options{Width: 256, Height: 192},
		OutputWidth: 128,
		Quality:     70,
		Metrics:     m,
	}
}

func TestCreate_FakerEndToEnd(t *testing.T) {
	srv := riottest.NewServer(t, riottest.Faker())
	gen := &fakeGenerator{}
	svc := newTestService(t, srv, gen, nil)

	c, err := svc.Create(context.Background(), "Faker", "KR1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(c.Summary.Champions) != 3 {
		t.Errorf("Expected 3 champions, got %d", len(c.Summary.Champions))
	}
	if len(c.Summary.Ranked) != 2 {
		t.Errorf("Expected 2 ranked entries, got %d", len(c.Summary.Ranked))
	}
	if len(c.Summary.Matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(c.Summary.Matches))
	}
	if !c.Summary.Matches[0].Win {
		t.Error("Expected the stubbed win to carry through")
	}

	if c.Prompt == "" {
		t.Fatal("Expected a prompt")
	}
	for _, want := range []string{"873", "mastery level 42", "CHALLENGER I", "MASTER I"} {
		if !strings.Contains(c.Prompt, want) {
			t.Errorf("Expected prompt to contain %q, got:\n%s", want, c.Prompt)
		}
	}

	if gen.calls != 1 || gen.req.Prompt != c.Prompt {
		t.Errorf("Expected one generation with the built prompt, got %d calls", gen.calls)
	}
	if gen.req.CFGScale != 8.0 || gen.req.NegativePrompt != imagegen.DefaultNegativePrompt {
		t.Errorf("Expected default guidance and negative prompt, got %+v", gen.req)
	}

	img, err := imaging.Decode(bytes.NewReader(c.Image))
	if err != nil {
		t.Fatalf("Card image is not decodable: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 96 {
		t.Errorf("Expected 128x96 card, got %dx%d", b.Dx(), b.Dy())
	}
	if !bytes.HasPrefix(c.Image, []byte{0xFF, 0xD8}) {
		t.Error("Expected JPEG output")
	}
}

func TestCreate_UpstreamErrorShortCircuits(t *testing.T) {
	f := riottest.Faker()
	f.Fail = map[string]int{"/lol/league/v4/": http.StatusForbidden}
	srv := riottest.NewServer(t, f)
	gen := &fakeGenerator{}
	svc := newTestService(t, srv, gen, nil)

	_, err := svc.Create(context.Background(), "Faker", "KR1")

	var apiErr *riot.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Message != riottest.ErrorMessage(http.StatusForbidden) {
		t.Errorf("Unexpected APIError %+v", apiErr)
	}
	if gen.calls != 0 {
		t.Error("Expected no image generation after an upstream failure")
	}
}

func TestCreate_GenerationFailure(t *testing.T) {
	srv := riottest.NewServer(t, riottest.Faker())
	svc := newTestService(t, srv, &fakeGenerator{err: imagegen.ErrNoImage}, nil)

	_, err := svc.Create(context.Background(), "Faker", "KR1")
	if !errors.Is(err, imagegen.ErrNoImage) {
		t.Errorf("Expected ErrNoImage, got %v", err)
	}
}

func TestCreate_RecordsStages(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("Failed to create metrics: %v", err)
	}

	srv := riottest.NewServer(t, riottest.Faker())
	svc := newTestService(t, srv, &fakeGenerator{}, m)
	if _, err := svc.Create(context.Background(), "Faker", "KR1"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := testutil.GatherAndCount(reg, "leaguecard_stage_duration_seconds")
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if n != 5 {
		t.Errorf("Expected 5 stage series, got %d", n)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	var promptSamples uint64
	for _, mf := range families {
		if mf.GetName() != "leaguecard_stage_duration_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "stage" && lp.GetValue() == StagePrompt {
					promptSamples += metric.GetHistogram().GetSampleCount()
				}
			}
		}
	}
	if promptSamples != 1 {
		t.Errorf("Expected one prompt stage observation, got %d", promptSamples)
	}
}
