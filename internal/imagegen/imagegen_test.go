package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestNewRequest_SeedInRange(t *testing.T) {
	opts := DefaultOptions()
	for i := 0; i < 1000; i++ {
		req := NewRequest("p", opts)
		if req.Seed < 0 || req.Seed > MaxSeed {
			t.Fatalf("Seed %d out of range", req.Seed)
		}
	}

	req := NewRequest("a card", opts)
	if req.Width != 1024 || req.Height != 1024 || req.CFGScale != 8.0 {
		t.Errorf("Unexpected defaults %+v", req)
	}
	if req.NegativePrompt != DefaultNegativePrompt {
		t.Errorf("Expected default negative prompt, got %q", req.NegativePrompt)
	}
}

func TestBedrock_TaskDescriptor(t *testing.T) {
	png := []byte("\x89PNG fake")
	inv := &fakeInvoker{body: fmt.Sprintf(`{"images":[%q],"error":null}`, base64.StdEncoding.EncodeToString(png))}
	gen := NewBedrock(inv, "amazon.titan-image-generator-v2:0", nil)

	img, err := gen.Generate(context.Background(), Request{
		Prompt:         "a card",
		NegativePrompt: "blurry",
		Width:          1024,
		Height:         768,
		CFGScale:       7.5,
		Seed:           42,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if string(img) != string(png) {
		t.Errorf("Expected decoded image bytes")
	}

	if *inv.input.ModelId != "amazon.titan-image-generator-v2:0" {
		t.Errorf("Unexpected model id %s", *inv.input.ModelId)
	}

	var sent map[string]interface{}
	if err := json.Unmarshal(inv.input.Body, &sent); err != nil {
		t.Fatalf("Request body is not json: %v", err)
	}
	if sent["taskType"] != "TEXT_IMAGE" {
		t.Errorf("Expected TEXT_IMAGE task, got %v", sent["taskType"])
	}
	params := sent["textToImageParams"].(map[string]interface{})
	if params["text"] != "a card" || params["negativeText"] != "blurry" {
		t.Errorf("Unexpected textToImageParams %v", params)
	}
	cfg := sent["imageGenerationConfig"].(map[string]interface{})
	if cfg["width"].(float64) != 1024 || cfg["height"].(float64) != 768 ||
		cfg["cfgScale"].(float64) != 7.5 || cfg["seed"].(float64) != 42 ||
		cfg["numberOfImages"].(float64) != 1 {
		t.Errorf("Unexpected imageGenerationConfig %v", cfg)
	}
}

func TestBedrock_TruncatesPrompt(t *testing.T) {
	inv := &fakeInvoker{body: `{"images":["aGk="]}`}
	gen := NewBedrock(inv, "m", nil)

	if _, err := gen.Generate(context.Background(), Request{Prompt: strings.Repeat("é", 900)}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var sent titanRequest
	if err := json.Unmarshal(inv.input.Body, &sent); err != nil {
		t.Fatalf("Request body is not json: %v", err)
	}
	if n := len([]rune(sent.TextToImageParams.Text)); n != MaxPromptLen {
		t.Errorf("Expected prompt cut to %d runes, got %d", MaxPromptLen, n)
	}
}

func TestBedrock_NoImage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing images", `{}`},
		{"empty images", `{"images":[]}`},
		{"empty string", `{"images":[""]}`},
		{"model error", `{"images":[],"error":"content filtered"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewBedrock(&fakeInvoker{body: tt.body}, "m", nil)
			_, err := gen.Generate(context.Background(), Request{Prompt: "p"})
			if !errors.Is(err, ErrNoImage) {
				t.Errorf("Expected ErrNoImage, got %v", err)
			}
		})
	}
}

func TestBedrock_InvokeError(t *testing.T) {
	gen := NewBedrock(&fakeInvoker{err: errors.New("throttled")}, "m", nil)
	_, err := gen.Generate(context.Background(), Request{Prompt: "p"})
	if err == nil || errors.Is(err, ErrNoImage) {
		t.Errorf("Expected a plain invoke error, got %v", err)
	}
}

func TestOpenAI_Generate(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"created":1,"data":[{"b64_json":%q}]}`, base64.StdEncoding.EncodeToString([]byte("img")))
	}))
	defer srv.Close()

	gen := NewOpenAI("sk-test", "dall-e-3", srv.URL+"/v1")
	img, err := gen.Generate(context.Background(), Request{
		Prompt:         "a card",
		NegativePrompt: "blurry",
		Width:          1024,
		Height:         1024,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if string(img) != "img" {
		t.Errorf("Expected decoded bytes, got %q", img)
	}
	if got["size"] != "1024x1024" || got["response_format"] != "b64_json" || got["model"] != "dall-e-3" {
		t.Errorf("Unexpected request %v", got)
	}
	if !strings.Contains(got["prompt"].(string), "Avoid: blurry") {
		t.Errorf("Expected negative prompt folded in, got %v", got["prompt"])
	}
}

func TestOpenAI_NoImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"created":1,"data":[]}`)
	}))
	defer srv.Close()

	gen := NewOpenAI("sk-test", "dall-e-3", srv.URL+"/v1")
	if _, err := gen.Generate(context.Background(), Request{Prompt: "p", Width: 1024, Height: 1024}); !errors.Is(err, ErrNoImage) {
		t.Errorf("Expected ErrNoImage, got %v", err)
	}
}
