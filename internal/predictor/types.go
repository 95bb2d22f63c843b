// Package predictor is the client side of the credit-card cluster service:
// it validates the three form inputs, sends one prediction request and turns
// the reply into the message shown to the user.
package predictor

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// PredictionRequest is the body of POST /predict_cluster.
type PredictionRequest struct {
	Balance     float64 `json:"BALANCE"`
	Purchases   float64 `json:"PURCHASES"`
	CreditLimit float64 `json:"CREDIT_LIMIT"`
}

// PredictionResult is the service's classification of one customer.
// ClusterID is kept as raw JSON: the service owns its meaning.
type PredictionResult struct {
	ClusterID          json.RawMessage `json:"cluster_id"`
	ClusterDescription string          `json:"cluster_description"`
}

// ClusterLabel renders ClusterID for display. Strings are shown without
// quotes; every other JSON value is shown as written.
func (r PredictionResult) ClusterLabel() string {
	raw := bytes.TrimSpace(r.ClusterID)
	if len(raw) > 0 && raw[0] == '"' {
		if s, err := strconv.Unquote(string(raw)); err == nil {
			return s
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// ClusterStats describes one cluster as reported by GET /cluster_info.
type ClusterStats struct {
	Size              int     `json:"size"`
	CenterBalance     float64 `json:"center_balance"`
	CenterPurchases   float64 `json:"center_purchases"`
	CenterCreditLimit float64 `json:"center_credit_limit"`
}

// ClusterInfo maps cluster names ("Cluster 0", ...) to their stats.
type ClusterInfo map[string]ClusterStats

// MissingValues counts missing entries per input column in the training data.
type MissingValues struct {
	Balance     int `json:"balance"`
	Purchases   int `json:"purchases"`
	CreditLimit int `json:"credit_limit"`
}

// DataSummary is the reply of GET /data_summary.
type DataSummary struct {
	TotalCustomers     int           `json:"total_customers"`
	AverageBalance     float64       `json:"average_balance"`
	AveragePurchases   float64       `json:"average_purchases"`
	AverageCreditLimit float64       `json:"average_credit_limit"`
	MissingValues      MissingValues `json:"missing_values"`
}

// Health is the reply of GET /.
type Health struct {
	Message string `json:"message"`
}
