package models

// Node is a utility pole as returned by the infrastructure endpoints.
type Node struct {
	PK           int64   `json:"pk"`
	PaintingCode int64   `json:"painting_code"`
	Comuna       string  `json:"comuna"`
	District     string  `json:"district"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

// NodeSearchResponse is the envelope of searchNodesByPaintingCode.
type NodeSearchResponse struct {
	Type string `json:"type"`
	Msg  string `json:"msg,omitempty"`
	Data []Node `json:"data"`
	Time string `json:"time,omitempty"`
}
