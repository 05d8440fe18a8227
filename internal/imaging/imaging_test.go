package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scrapbook/internal/domain"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func pngDataURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeDataURL(t *testing.T) {
	url := pngDataURL(t, solid(4, 3, color.NRGBA{R: 200, A: 255}))
	img, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("Expected 4x3, got %v", b)
	}
}

func TestDecodeDataURL_Invalid(t *testing.T) {
	tests := []string{
		"image/png;base64,AAAA",
		"data:image/png,raw",
		"data:image/png;base64,!!!",
	}
	for _, url := range tests {
		if _, err := DecodeDataURL(url); err == nil {
			t.Errorf("Expected error for %q", url)
		}
	}
	if _, err := DecodeDataURL("nope"); !errors.Is(err, ErrNotDataURL) {
		t.Errorf("Expected ErrNotDataURL, got %v", err)
	}
}

func TestEncodeDataURL_RoundTrip(t *testing.T) {
	url, err := EncodeDataURL(solid(8, 8, color.NRGBA{G: 255, A: 255}), 90)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Fatalf("Expected jpeg data URL, got %.30s", url)
	}
	if _, err := DecodeDataURL(url); err != nil {
		t.Errorf("Expected encoded URL to decode: %v", err)
	}
}

func TestFileDataURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")
	var buf bytes.Buffer
	png.Encode(&buf, solid(2, 2, color.NRGBA{B: 255, A: 255}))
	os.WriteFile(path, buf.Bytes(), 0644)

	url, err := FileDataURL(path)
	if err != nil {
		t.Fatalf("FileDataURL: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("Expected png data URL, got %.30s", url)
	}

	bad := filepath.Join(dir, "broken.jpg")
	os.WriteFile(bad, []byte("not an image"), 0644)
	if _, err := FileDataURL(bad); err == nil {
		t.Error("Expected decode error for broken file")
	}
	if _, err := FileDataURL(filepath.Join(dir, "notes.txt")); err == nil {
		t.Error("Expected unsupported type error")
	}
}

func TestApply_NeutralIsIdentity(t *testing.T) {
	src := solid(3, 3, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
	out := Apply(src, domain.DefaultAdjustment(), 1)
	if got := out.NRGBAAt(1, 1); got != src.NRGBAAt(1, 1) {
		t.Errorf("Expected unchanged pixel, got %v", got)
	}
}

func TestApply_Brightness(t *testing.T) {
	src := solid(2, 2, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	adj := domain.DefaultAdjustment()
	adj.Brightness = 150
	if got := Apply(src, adj, 1).NRGBAAt(0, 0); got.R != 150 {
		t.Errorf("Expected R=150 at 150%% brightness, got %d", got.R)
	}
	adj.Brightness = 0
	if got := Apply(src, adj, 1).NRGBAAt(0, 0); got.R != 0 || got.A != 255 {
		t.Errorf("Expected black at 0%% brightness, got %v", got)
	}
}

func TestApply_BlackAndWhite(t *testing.T) {
	src := solid(2, 2, color.NRGBA{R: 200, G: 30, B: 90, A: 255})
	adj := domain.DefaultAdjustment()
	adj.Filter = domain.FilterBlackAndWhite
	got := Apply(src, adj, 1).NRGBAAt(0, 0)
	if got.R != got.G || got.G != got.B {
		t.Errorf("Expected grey pixel, got %v", got)
	}
}

func TestApply_FreeFormFilterPassesThrough(t *testing.T) {
	src := solid(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	adj := domain.DefaultAdjustment()
	adj.Filter = "invert(1)"
	if got := Apply(src, adj, 1).NRGBAAt(0, 0); got != src.NRGBAAt(0, 0) {
		t.Errorf("Expected free-form filter to leave pixels alone, got %v", got)
	}
}

func TestRenderPage(t *testing.T) {
	page := domain.Page{
		ID:         1,
		Background: "#ff0000",
		Photos: []domain.Photo{{
			ID: "p1", Src: pngDataURL(t, solid(10, 10, color.NRGBA{B: 255, A: 255})),
			X: 10, Y: 10, Width: 20, Height: 20, Adjustment: domain.DefaultAdjustment(),
		}},
	}
	img, err := RenderPage(page, domain.Extent{Width: 60, Height: 40}, 2)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Fatalf("Expected 120x80 raster, got %v", b)
	}
	if got := img.NRGBAAt(2, 2); got.R != 255 || got.B != 0 {
		t.Errorf("Expected red background, got %v", got)
	}
	if got := img.NRGBAAt(40, 40); got.B < 250 || got.R > 5 {
		t.Errorf("Expected blue photo at its scaled box, got %v", got)
	}
}

func TestRenderPage_BadPhoto(t *testing.T) {
	page := domain.Page{ID: 1, Photos: []domain.Photo{{ID: "broken", Src: "data:image/png;base64,AAAA", Width: 10, Height: 10}}}
	_, err := RenderPage(page, domain.Extent{Width: 50, Height: 50}, 1)
	var pe *PhotoError
	if !errors.As(err, &pe) || pe.PhotoID != "broken" {
		t.Fatalf("Expected PhotoError for broken, got %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#FFFBEB", color.NRGBA{R: 0xFF, G: 0xFB, B: 0xEB, A: 255}, true},
		{"#abc", color.NRGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 255}, true},
		{"linear-gradient(red, blue)", color.NRGBA{}, false},
		{"#12345", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseHexColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBake_AppliesAdjustment(t *testing.T) {
	url := pngDataURL(t, solid(12, 8, color.NRGBA{R: 200, G: 200, B: 200, A: 255}))
	adj := domain.DefaultAdjustment()
	adj.Brightness = 50

	out, err := Bake(url, adj, 0, 0, 90)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if !strings.HasPrefix(out, "data:image/jpeg;base64,") {
		t.Fatalf("Expected jpeg data URL, got %.30s", out)
	}
	img, err := DecodeDataURL(out)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
		t.Errorf("Expected 12x8, got %dx%d", b.Dx(), b.Dy())
	}
	if c := color.NRGBAModel.Convert(img.At(6, 4)).(color.NRGBA); c.R > 130 {
		t.Errorf("Expected darkened pixel, got %+v", c)
	}
}

func TestBake_RotatesInsideFrame(t *testing.T) {
	url := pngDataURL(t, solid(40, 20, color.NRGBA{R: 220, A: 255}))

	out, err := Bake(url, domain.DefaultAdjustment(), 90, 0, 95)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	img, err := DecodeDataURL(out)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("Expected the original 40x20 frame, got %dx%d", b.Dx(), b.Dy())
	}
	centre := color.NRGBAModel.Convert(img.At(20, 10)).(color.NRGBA)
	if centre.R < 180 || centre.G > 60 {
		t.Errorf("Expected red centre, got %+v", centre)
	}
	corner := color.NRGBAModel.Convert(img.At(2, 10)).(color.NRGBA)
	if corner.R < 200 || corner.G < 200 || corner.B < 200 {
		t.Errorf("Expected white where the turn uncovered the frame, got %+v", corner)
	}
}

func TestBake_ShrinksToMaxSide(t *testing.T) {
	url := pngDataURL(t, solid(40, 20, color.NRGBA{B: 255, A: 255}))
	out, err := Bake(url, domain.DefaultAdjustment(), 0, 10, 80)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	img, _ := DecodeDataURL(out)
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
		t.Errorf("Expected 10x5, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestBake_BadSource(t *testing.T) {
	if _, err := Bake("data:image/png;base64,AAAA", domain.DefaultAdjustment(), 0, 0, 80); err == nil {
		t.Error("Expected undecodable source to fail")
	}
}
