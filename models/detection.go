package models

// Detection is a single labeled bounding box returned by the inference
// service. BBox is [x1, y1, x2, y2] in pixel coordinates.
type Detection struct {
	Label      string     `json:"label"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
}

// ClassifyResponse is the body of a successful POST /classify.
type ClassifyResponse struct {
	Predictions []Detection `json:"predictions"`
	Message     string      `json:"message"`
	Awarded     int         `json:"awarded"`
	Duplicate   bool        `json:"duplicate"`
}
