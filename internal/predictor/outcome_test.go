package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClassifier records calls and returns a canned reply.
type fakeClassifier struct {
	calls  int
	last   PredictionRequest
	result *PredictionResult
	err    error
}

func (f *fakeClassifier) Predict(_ context.Context, req PredictionRequest) (*PredictionResult, error) {
	f.calls++
	f.last = req
	return f.result, f.err
}

func TestRun_Success(t *testing.T) {
	fake := &fakeClassifier{result: &PredictionResult{
		ClusterID:          json.RawMessage(`3`),
		ClusterDescription: "High spenders",
	}}

	out := Run(context.Background(), fake, Inputs{"100", "20", "3000"})

	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, PredictionRequest{Balance: 100, Purchases: 20, CreditLimit: 3000}, fake.last)
	assert.Equal(t, "Cluster: 3\nDescription: High spenders", out.Message)
	assert.Equal(t, StatusSuccess, out.Status)
	assert.True(t, out.IsSuccess())
	assert.NoError(t, out.Err)
}

func TestRun_ValidationSkipsRequest(t *testing.T) {
	fake := &fakeClassifier{}

	out := Run(context.Background(), fake, Inputs{"100", "", "3000"})

	assert.Equal(t, 0, fake.calls)
	assert.Equal(t, MsgValidation, out.Message)
	assert.Equal(t, StatusError, out.Status)
}

func TestRun_ServiceErrorsCollapse(t *testing.T) {
	for _, kind := range []ErrorKind{KindTransport, KindStatus, KindDecode} {
		t.Run(string(kind), func(t *testing.T) {
			fake := &fakeClassifier{err: &ServiceError{Kind: kind, StatusCode: 500, Err: errors.New("boom")}}

			out := Run(context.Background(), fake, Inputs{"1", "2", "3"})

			assert.Equal(t, 1, fake.calls)
			assert.Equal(t, MsgConnectivity, out.Message)
			assert.Equal(t, StatusError, out.Status)
			assert.Error(t, out.Err)
		})
	}
}

func TestFailureOutcome_UnknownErrorIsConnectivity(t *testing.T) {
	out := FailureOutcome(errors.New("anything"))
	assert.Equal(t, MsgConnectivity, out.Message)
}

func TestClusterLabel(t *testing.T) {
	cases := map[string]string{
		`3`:        "3",
		`"gold"`:   "gold",
		`"a\"b"`:   `a"b`,
		` 4 `:      "4",
		`2.5`:      "2.5",
		`null`:     "null",
		`{"k": 1}`: `{"k": 1}`,
	}
	for raw, want := range cases {
		r := PredictionResult{ClusterID: json.RawMessage(raw)}
		assert.Equal(t, want, r.ClusterLabel(), "raw %s", raw)
	}
}

// TestRun_EndToEnd drives the real client against a test server.
func TestRun_EndToEnd(t *testing.T) {
	var posts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&posts, 1)
		w.Write([]byte(`{"cluster_id": 3, "cluster_description": "High spenders"}`))
	}))
	defer server.Close()

	client := NewClientWithConfig(ClientConfig{BaseURL: server.URL, HTTPClient: server.Client()})

	out := Run(context.Background(), client, Inputs{"1", "2", "3"})
	require.True(t, out.IsSuccess())
	assert.Equal(t, "Cluster: 3\nDescription: High spenders", out.Message)

	out = Run(context.Background(), client, Inputs{"1", "two", "3"})
	assert.Equal(t, MsgValidation, out.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&posts))
}

func TestRun_EndToEnd_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Models not loaded"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithConfig(ClientConfig{BaseURL: server.URL, HTTPClient: server.Client()})
	out := Run(context.Background(), client, Inputs{"1", "2", "3"})

	assert.Equal(t, MsgConnectivity, out.Message)
	assert.Equal(t, StatusError, out.Status)
}
