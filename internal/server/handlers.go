package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
	"github.com/ironsheep/digit-knn-mcp/internal/knn"
	"github.com/ironsheep/digit-knn-mcp/internal/mathtool"
	"github.com/ironsheep/digit-knn-mcp/internal/ocr"
)

const (
	defaultPreviewScale = 4
	maxRenderScale      = 64

	// maxTestsPerSample bounds num_tests relative to the reference set size.
	maxTestsPerSample = 10
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "knn_predict").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		message := "Tool execution failed"
		if errors.Is(err, knn.ErrUnsupportedMetric) {
			message = knn.ErrUnsupportedMetric.Error()
		}
		return s.errorResponse(req.ID, -32000, message, err.Error())
	}
	s.logger.Debug("tool succeeded", zap.String("tool", params.Name), zap.Duration("elapsed", time.Since(start)))

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", fmt.Sprintf("failed to encode result: %v", err))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": string(text),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Query Pictures
	case "digit_load":
		return s.handleDigitLoad(args)

	// Classification
	case "knn_predict":
		return s.handleKNNPredict(args)
	case "knn_predict_neighbors":
		return s.handleKNNPredictNeighbors(args)
	case "knn_performance":
		return s.handleKNNPerformance(args)

	// Reference Set
	case "knn_dataset_info":
		return s.handleKNNDatasetInfo(args)
	case "knn_reference_image":
		return s.handleKNNReferenceImage(args)

	// Analysis Helpers
	case "shape_distance":
		return s.handleShapeDistance(args)
	case "digit_ocr":
		return s.handleDigitOCR(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// decodeArgs unmarshals tool arguments; absent arguments leave v untouched.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// Distance is a float64 that encodes infinities as the strings "+Inf" and
// "-Inf", which plain JSON numbers cannot carry.
type Distance float64

// MarshalJSON implements json.Marshaler.
func (d Distance) MarshalJSON() ([]byte, error) {
	f := float64(d)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// === Query Picture Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

// DigitLoadResult describes a loaded query picture.
type DigitLoadResult struct {
	Path    string                `json:"path"`
	Info    *imaging.DigitInfo    `json:"info"`
	Preview *imaging.RenderResult `json:"preview"`
}

func (s *Server) handleDigitLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	info, grid, err := imaging.LoadDigitInfo(s.cache, a.Path, s.normalize, s.engine.Threshold())
	if err != nil {
		return nil, err
	}
	preview, err := imaging.EncodePNG(grid, defaultPreviewScale)
	if err != nil {
		return nil, err
	}
	return &DigitLoadResult{Path: a.Path, Info: info, Preview: preview}, nil
}

// === Classification Handlers ===

type predictArgs struct {
	Paths  []string `json:"paths"`
	Metric string   `json:"metric"`
}

// PathLabel pairs a query path with its predicted label.
type PathLabel struct {
	Path  string `json:"path"`
	Label int    `json:"label"`
}

// PredictResult is returned by knn_predict.
type PredictResult struct {
	Metric      string      `json:"metric"`
	K           int         `json:"k"`
	Predictions []PathLabel `json:"predictions"`
}

// NeighborResult is one voting reference sample.
type NeighborResult struct {
	Index    int      `json:"index"`
	Label    int      `json:"label"`
	Distance Distance `json:"distance"`
}

// PathNeighbors is the prediction and voters for one query path.
type PathNeighbors struct {
	Path      string           `json:"path"`
	Label     int              `json:"label"`
	Neighbors []NeighborResult `json:"neighbors"`
}

// PredictNeighborsResult is returned by knn_predict_neighbors.
type PredictNeighborsResult struct {
	Metric      string          `json:"metric"`
	K           int             `json:"k"`
	Predictions []PathNeighbors `json:"predictions"`
}

// loadQueries validates the metric before touching any file, then loads the
// query pictures.
func (s *Server) loadQueries(a predictArgs) (knn.Metric, []imaging.Grid, error) {
	m, err := knn.ParseMetric(a.Metric)
	if err != nil {
		return 0, nil, err
	}
	grids, err := imaging.LoadGrids(s.cache, a.Paths, s.normalize)
	if err != nil {
		return 0, nil, err
	}
	return m, grids, nil
}

func (s *Server) handleKNNPredict(args json.RawMessage) (interface{}, error) {
	var a predictArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, grids, err := s.loadQueries(a)
	if err != nil {
		return nil, err
	}
	labels, err := s.engine.Predict(grids, m)
	if err != nil {
		return nil, err
	}

	res := &PredictResult{Metric: m.String(), K: s.engine.K(), Predictions: make([]PathLabel, len(labels))}
	for i, l := range labels {
		res.Predictions[i] = PathLabel{Path: a.Paths[i], Label: l}
	}
	return res, nil
}

func (s *Server) handleKNNPredictNeighbors(args json.RawMessage) (interface{}, error) {
	var a predictArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, grids, err := s.loadQueries(a)
	if err != nil {
		return nil, err
	}
	preds, err := s.engine.PredictReturnNeighbors(grids, m)
	if err != nil {
		return nil, err
	}

	res := &PredictNeighborsResult{Metric: m.String(), K: s.engine.K(), Predictions: make([]PathNeighbors, len(preds))}
	for i, p := range preds {
		nbrs := make([]NeighborResult, len(p.Neighbors))
		for j, idx := range p.Neighbors {
			nbrs[j] = NeighborResult{Index: idx, Label: s.engine.Label(idx), Distance: Distance(p.Distances[j])}
		}
		res.Predictions[i] = PathNeighbors{Path: a.Paths[i], Label: p.Label, Neighbors: nbrs}
	}
	return res, nil
}

type performanceArgs struct {
	NumTests int     `json:"num_tests"`
	Metric   string  `json:"metric"`
	Seed     *uint64 `json:"seed"`
}

// PerformanceResult is returned by knn_performance.
type PerformanceResult struct {
	Metric string  `json:"metric"`
	K      int     `json:"k"`
	Seed   *uint64 `json:"seed,omitempty"`
	knn.Report
}

func (s *Server) handleKNNPerformance(args json.RawMessage) (interface{}, error) {
	var a performanceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, err := knn.ParseMetric(a.Metric)
	if err != nil {
		return nil, err
	}
	if a.NumTests < 0 {
		return nil, fmt.Errorf("num_tests must not be negative, got %d", a.NumTests)
	}
	if limit := maxTestsPerSample * s.engine.Size(); a.NumTests > limit {
		return nil, fmt.Errorf("num_tests %d exceeds %d (%d per reference sample)", a.NumTests, limit, maxTestsPerSample)
	}

	var rng *rand.Rand
	if a.Seed != nil {
		rng = rand.New(rand.NewPCG(*a.Seed, *a.Seed))
	}
	report, err := s.engine.Performance(a.NumTests, m, rng)
	if err != nil {
		return nil, err
	}
	return &PerformanceResult{Metric: m.String(), K: s.engine.K(), Seed: a.Seed, Report: report}, nil
}

// === Reference Set Handlers ===

// DatasetInfoResult is returned by knn_dataset_info.
type DatasetInfoResult struct {
	K                   int            `json:"k"`
	Size                int            `json:"size"`
	Alphabet            []int          `json:"alphabet"`
	Histogram           map[string]int `json:"histogram"`
	Metrics             []string       `json:"metrics"`
	ForegroundThreshold float64        `json:"foreground_threshold"`
	OCR                 ocr.Status     `json:"ocr"`
}

func (s *Server) handleKNNDatasetInfo(json.RawMessage) (interface{}, error) {
	hist := make(map[string]int)
	for i := 0; i < s.engine.Size(); i++ {
		hist[strconv.Itoa(s.engine.Label(i))]++
	}
	var names []string
	for _, m := range knn.Metrics() {
		names = append(names, m.String())
	}
	return &DatasetInfoResult{
		K:                   s.engine.K(),
		Size:                s.engine.Size(),
		Alphabet:            s.engine.Alphabet(),
		Histogram:           hist,
		Metrics:             names,
		ForegroundThreshold: s.engine.Threshold(),
		OCR:                 ocr.Info(),
	}, nil
}

type referenceImageArgs struct {
	Index int `json:"index"`
	Scale int `json:"scale"`
}

// ReferenceImageResult is returned by knn_reference_image.
type ReferenceImageResult struct {
	Index int                   `json:"index"`
	Label int                   `json:"label"`
	Image *imaging.RenderResult `json:"image"`
}

func (s *Server) handleKNNReferenceImage(args json.RawMessage) (interface{}, error) {
	a := referenceImageArgs{Index: -1}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Index < 0 || a.Index >= s.engine.Size() {
		return nil, fmt.Errorf("index %d out of range [0, %d)", a.Index, s.engine.Size())
	}
	if a.Scale == 0 {
		a.Scale = defaultPreviewScale
	}
	a.Scale = min(a.Scale, maxRenderScale)
	img, err := imaging.EncodePNG(s.engine.Image(a.Index), a.Scale)
	if err != nil {
		return nil, err
	}
	return &ReferenceImageResult{Index: a.Index, Label: s.engine.Label(a.Index), Image: img}, nil
}

// === Analysis Helper Handlers ===

type shapeDistanceArgs struct {
	Path1 string `json:"path1"`
	Path2 string `json:"path2"`
}

// ShapeDistanceResult is returned by shape_distance.
type ShapeDistanceResult struct {
	Foreground1  int      `json:"foreground1"`
	Foreground2  int      `json:"foreground2"`
	Hausdorff    Distance `json:"hausdorff"`
	OneWay12     Distance `json:"one_way_1_to_2"`
	OneWay21     Distance `json:"one_way_2_to_1"`
	HausdorffSum Distance `json:"hausdorff_sum"`
	D22          Distance `json:"d22"`
	D23          Distance `json:"d23"`
	Euclidean    Distance `json:"euclidean"`

	// Outline distances compare only the stroke boundaries.
	OutlineHausdorff Distance `json:"outline_hausdorff"`
	OutlineD22       Distance `json:"outline_d22"`
}

func (s *Server) handleShapeDistance(args json.RawMessage) (interface{}, error) {
	var a shapeDistanceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	grids, err := imaging.LoadGrids(s.cache, []string{a.Path1, a.Path2}, s.normalize)
	if err != nil {
		return nil, err
	}

	t := s.engine.Threshold()
	c1 := mathtool.ExtractCoordinates(grids[0], t)
	c2 := mathtool.ExtractCoordinates(grids[1], t)
	o1 := mathtool.ExtractCoordinates(imaging.Outline(grids[0], t), t)
	o2 := mathtool.ExtractCoordinates(imaging.Outline(grids[1], t), t)
	return &ShapeDistanceResult{
		Foreground1:  c1.Len(),
		Foreground2:  c2.Len(),
		Hausdorff:    Distance(mathtool.HausdorffSets(c1, c2)),
		OneWay12:     Distance(mathtool.OneWayDistance(c1, c2)),
		OneWay21:     Distance(mathtool.OneWayDistance(c2, c1)),
		HausdorffSum: Distance(mathtool.HausdorffSum(c1, c2)),
		D22:          Distance(mathtool.ModifiedHausdorff(c1, c2)),
		D23:          Distance(mathtool.AverageHausdorff(c1, c2)),
		Euclidean:    Distance(mathtool.PixelDistance(grids[0], grids[1])),

		OutlineHausdorff: Distance(mathtool.HausdorffSets(o1, o2)),
		OutlineD22:       Distance(mathtool.ModifiedHausdorff(o1, o2)),
	}, nil
}

type digitOCRArgs struct {
	Path   string `json:"path"`
	Metric string `json:"metric"`
}

// DigitOCRResult is returned by digit_ocr.
type DigitOCRResult struct {
	Path     string           `json:"path"`
	OCR      *ocr.DigitResult `json:"ocr"`
	KNNLabel int              `json:"knn_label"`
	Metric   string           `json:"metric"`
	Agree    bool             `json:"agree"`
}

func (s *Server) handleDigitOCR(args json.RawMessage) (interface{}, error) {
	var a digitOCRArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, grids, err := s.loadQueries(predictArgs{Paths: []string{a.Path}, Metric: a.Metric})
	if err != nil {
		return nil, err
	}
	read, err := ocr.RecognizeDigit(grids[0])
	if err != nil {
		return nil, err
	}
	labels, err := s.engine.Predict(grids, m)
	if err != nil {
		return nil, err
	}
	return &DigitOCRResult{
		Path:     a.Path,
		OCR:      read,
		KNNLabel: labels[0],
		Metric:   m.String(),
		Agree:    read.Recognized && read.Digit == labels[0],
	}, nil
}
