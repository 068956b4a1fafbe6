package model

type PercentileInput struct {
	Domain string `json:"domain"`
	Amount int64  `json:"amount"`
}

type PercentileResult struct {
	Domain     string `json:"domain"`
	Amount     int64  `json:"amount"`
	Percentile int    `json:"percentile"`
}
