package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var metricProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"", "euclidean", "hausdorff_sum", "d22", "d23"},
	"description": "Distance metric. Empty or 'euclidean' compares pixels directly; 'hausdorff_sum', 'd22' and 'd23' compare stroke shapes. Default euclidean",
	"default":     "",
}

var pathsProperty = map[string]interface{}{
	"type":        "array",
	"items":       map[string]interface{}{"type": "string"},
	"description": "Absolute paths to digit pictures (PNG, JPEG or GIF). Each is normalized to a centered 28x28 grid before classification",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Query Pictures
		{
			Name:        "digit_load",
			Description: "Load a digit picture, normalize it to a 28x28 grid the way the reference set was prepared, and return its metadata with a preview PNG of the normalized grid.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Classification
		{
			Name:        "knn_predict",
			Description: "Classify digit pictures by majority vote among the k nearest reference samples. Returns one label per path, in order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths":  pathsProperty,
					"metric": metricProperty,
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "knn_predict_neighbors",
			Description: "Classify digit pictures and also return the nearest reference samples (index, label, distance) that voted, nearest first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths":  pathsProperty,
					"metric": metricProperty,
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "knn_performance",
			Description: "Estimate accuracy by classifying randomly drawn reference samples against the rest of the reference set and comparing with their labels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"num_tests": map[string]interface{}{
						"type":        "integer",
						"description": "Number of samples to classify, at most 10 per reference sample",
					},
					"metric": metricProperty,
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Optional random seed. Omit for a fixed default seed",
					},
				},
				"required": []string{"num_tests"},
			},
		},

		// Reference Set
		{
			Name:        "knn_dataset_info",
			Description: "Describe the reference set: k, size, label alphabet and histogram, supported metrics and OCR availability.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "knn_reference_image",
			Description: "Return a reference sample as a base64 PNG with its label. Use with knn_predict_neighbors to inspect the samples that voted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Reference sample index (0-based)",
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Integer upscaling factor, capped at 64. Default 4",
						"default":     4,
					},
				},
				"required": []string{"index"},
			},
		},

		// Analysis Helpers
		{
			Name:        "shape_distance",
			Description: "Compare two digit pictures under every distance: classical Hausdorff, both one-way distances, hausdorff_sum, d22, d23 and euclidean, plus Hausdorff and d22 between the stroke outlines.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path1": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the first picture",
					},
					"path2": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the second picture",
					},
				},
				"required": []string{"path1", "path2"},
			},
		},
		{
			Name:        "digit_ocr",
			Description: "Read a digit picture with Tesseract OCR and compare the result with the k-NN prediction. Requires a build with Tesseract support.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"metric": metricProperty,
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
