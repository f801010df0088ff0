package services

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nutriscan/config"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func visionConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.Gemini.APIKey = "test-key"
	cfg.Gemini.BaseURL = baseURL
	cfg.Gemini.Timeout = 5
	return cfg
}

func geminiHandler(t *testing.T, replyText string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Error("missing api key header")
		}
		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": replyText}},
				},
			}},
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAnalyzeNormalizesWrappedReply(t *testing.T) {
	reply := "Sure! Here is the analysis:\n" +
		`{"main_food":"Dal Curry","top":[{"label":"Dal Curry","score":0.92}],` +
		`"nutrition_per100g":{"protein":"9","fat":3,"carbohydrates":14},` +
		`"calories_per100g":"120","hygiene":{"reasons":["clean surface"]}}` +
		"\nHope that helps."
	srv := httptest.NewServer(geminiHandler(t, reply))
	defer srv.Close()

	svc := NewVisionService(visionConfig(srv.URL))
	analysis, err := svc.Analyze(context.Background(), pngBytes(t))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if analysis.MainFood != "Dal Curry" {
		t.Errorf("main food = %q", analysis.MainFood)
	}
	if len(analysis.Top) != 1 || analysis.Top[0].Label != "dal curry" {
		t.Fatalf("top = %+v", analysis.Top)
	}
	// Fractional confidences scale to a 0-100 percentage.
	if analysis.Top[0].Score != 92 {
		t.Errorf("score = %v, want 92", analysis.Top[0].Score)
	}
	if analysis.NutritionPer100g["protein"] != 9 {
		t.Errorf("protein = %v, want 9 (coerced from string)", analysis.NutritionPer100g["protein"])
	}
	if analysis.CaloriesPer100g != 120 {
		t.Errorf("calories = %v, want 120", analysis.CaloriesPer100g)
	}
	if analysis.HygieneScore != 60 {
		t.Errorf("hygiene score = %d, want default 60", analysis.HygieneScore)
	}
	if len(analysis.HygieneReasons) != 1 || analysis.HygieneReasons[0] != "clean surface" {
		t.Errorf("reasons = %v", analysis.HygieneReasons)
	}
}

func TestAnalyzeSynthesizesPredictionFromMainFood(t *testing.T) {
	srv := httptest.NewServer(geminiHandler(t, `{"main_food":"rice"}`))
	defer srv.Close()

	svc := NewVisionService(visionConfig(srv.URL))
	analysis, err := svc.Analyze(context.Background(), pngBytes(t))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(analysis.Top) != 1 || analysis.Top[0].Label != "rice" || analysis.Top[0].Score != 85 {
		t.Errorf("top = %+v, want synthesized rice@85", analysis.Top)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		cfg := config.Default()
		cfg.Gemini.APIKey = ""
		if _, err := NewVisionService(cfg).Analyze(context.Background(), pngBytes(t)); err == nil {
			t.Error("expected error without API key")
		}
	})

	t.Run("invalid image", func(t *testing.T) {
		svc := NewVisionService(visionConfig("http://unused.example"))
		if _, err := svc.Analyze(context.Background(), []byte("not an image")); err == nil {
			t.Error("expected error for undecodable bytes")
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer srv.Close()
		if _, err := NewVisionService(visionConfig(srv.URL)).Analyze(context.Background(), pngBytes(t)); err == nil {
			t.Error("expected error on non-200")
		}
	})

	t.Run("reply without JSON", func(t *testing.T) {
		srv := httptest.NewServer(geminiHandler(t, "I cannot identify this food."))
		defer srv.Close()
		if _, err := NewVisionService(visionConfig(srv.URL)).Analyze(context.Background(), pngBytes(t)); err == nil {
			t.Error("expected error when no JSON object present")
		}
	})
}

func TestParseAnalysisTextDirect(t *testing.T) {
	raw, err := parseAnalysisText(`{"main_food":"soup"}`)
	if err != nil {
		t.Fatalf("parseAnalysisText: %v", err)
	}
	if raw.MainFood != "soup" {
		t.Errorf("main food = %v", raw.MainFood)
	}
}

func TestParseAnalysisTextCodeFence(t *testing.T) {
	raw, err := parseAnalysisText("```json\n{\"main_food\":\"soup\"}\n```")
	if err != nil {
		t.Fatalf("parseAnalysisText: %v", err)
	}
	if raw.MainFood != "soup" {
		t.Errorf("main food = %v", raw.MainFood)
	}
}
