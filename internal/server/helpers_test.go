package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/digit-knn-mcp/internal/dataset"
	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
	"github.com/ironsheep/digit-knn-mcp/internal/knn"
)

// strokeImage draws dark strokes on a light 40x40 page, like a scanned digit.
// Each rect is a stroke.
func strokeImage(rects ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	for _, r := range rects {
		draw.Draw(img, r, image.NewUniform(color.Black), image.Point{}, draw.Src)
	}
	return img
}

var (
	verticalStroke   = image.Rect(18, 6, 22, 34)
	horizontalStroke = image.Rect(6, 18, 34, 22)
)

func oneImage() *image.RGBA   { return strokeImage(verticalStroke) }
func sevenImage() *image.RGBA { return strokeImage(horizontalStroke, image.Rect(30, 18, 34, 34)) }
func plusImage() *image.RGBA  { return strokeImage(verticalStroke, horizontalStroke) }

// createTestImageFile writes img as a PNG in a per-test directory.
func createTestImageFile(t *testing.T, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// testReference is a small reference set normalized the same way queries are.
func testReference() *dataset.Dataset {
	opts := imaging.NormalizeOptions{}
	return &dataset.Dataset{
		Images: []imaging.Grid{
			imaging.Normalize(oneImage(), opts),
			imaging.Normalize(sevenImage(), opts),
			imaging.Normalize(plusImage(), opts),
			imaging.Normalize(oneImage(), opts),
		},
		Labels: []int{1, 7, 4, 1},
	}
}

func newTestServer(t *testing.T, k int) *Server {
	t.Helper()
	engine, err := knn.NewFromDataset(k, testReference())
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return New(engine)
}

// callTool runs a tools/call request through handleRequest.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{"name": name, "arguments": args}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeResult unmarshals the text content of a successful tool call into v.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("Result should be a map, got %T", resp.Result)
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content malformed: %#v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}
