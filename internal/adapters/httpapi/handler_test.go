package httpapi

import (
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"github.com/baditaflorin/l"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/baditaflorin/go_allele_names/internal/adapters/logger"
	"github.com/baditaflorin/go_allele_names/pkg/alleles"
)

func startServer(t *testing.T) *fasthttp.Client {
	t.Helper()
	return startServerWithTimeout(t, RequestTimeout)
}

func startServerWithTimeout(t *testing.T, timeout time.Duration) *fasthttp.Client {
	t.Helper()

	lg, err := l.NewStandardFactory().CreateLogger(l.Config{Output: io.Discard})
	require.NoError(t, err)
	parser, err := alleles.New(alleles.WithLogger(lg), alleles.WithOptimizedNormalizer())
	require.NoError(t, err)

	handler := NewHandlerWithTimeout(parser, logger.NewNopLogger(), timeout)
	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler.HandleRequest}
	go func() { _ = server.Serve(ln) }()

	t.Cleanup(func() {
		_ = server.Shutdown()
		_ = parser.Close()
	})

	return &fasthttp.Client{
		Dial: func(string) (net.Conn, error) { return ln.Dial() },
	}
}

func do(t *testing.T, client *fasthttp.Client, method, path, body string) (int, []byte) {
	t.Helper()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://alleles.test" + path)
	req.Header.SetMethod(method)
	if body != "" {
		req.SetBodyString(body)
	}
	require.NoError(t, client.Do(req, resp))
	assert.Equal(t, "application/json", string(resp.Header.ContentType()))
	return resp.StatusCode(), append([]byte(nil), resp.Body()...)
}

func TestHealth(t *testing.T) {
	client := startServer(t)
	status, body := do(t, client, fasthttp.MethodGet, "/health", "")
	assert.Equal(t, fasthttp.StatusOK, status)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ok", got["status"])
}

func TestNormalize(t *testing.T) {
	client := startServer(t)
	status, body := do(t, client, fasthttp.MethodPost, "/normalize", `{"allele":"Cw*01:02"}`)
	require.Equal(t, fasthttp.StatusOK, status)

	var got NormalizeResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, NormalizeResponse{Allele: "Cw*01:02", Normalized: "C0102"}, got)
}

func TestListEndpoints(t *testing.T) {
	client := startServer(t)
	tests := []struct {
		path string
		body string
		want ListResponse
	}{
		{"/alleles", `{"input":"HLA-A*02:01, Cw*01:02"}`, ListResponse{Kind: alleles.KindAlleles, Values: []string{"A0201", "C0102"}}},
		{"/sequences", `{"input":" a, B ,c"}`, ListResponse{Kind: alleles.KindSequences, Values: []string{"A", "B", "C"}}},
		{"/sequences", `{"input":""}`, ListResponse{Kind: alleles.KindSequences, Values: []string{""}}},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			status, body := do(t, client, fasthttp.MethodPost, tc.path, tc.body)
			require.Equal(t, fasthttp.StatusOK, status)

			var got ListResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInts(t *testing.T) {
	client := startServer(t)

	status, body := do(t, client, fasthttp.MethodPost, "/ints", `{"input":"1, 2,3"}`)
	require.Equal(t, fasthttp.StatusOK, status)
	var got IntListResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, []int{1, 2, 3}, got.Values)

	status, body = do(t, client, fasthttp.MethodPost, "/ints", `{"input":"1,x"}`)
	require.Equal(t, fasthttp.StatusBadRequest, status)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	require.NotNil(t, errResp.Index)
	assert.Equal(t, 1, *errResp.Index)
	assert.Equal(t, "x", errResp.Token)
}

func TestErrorStatuses(t *testing.T) {
	client := startServer(t)

	status, _ := do(t, client, fasthttp.MethodGet, "/alleles", "")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, status)

	status, body := do(t, client, fasthttp.MethodPost, "/alleles", `{not json`)
	assert.Equal(t, fasthttp.StatusBadRequest, status)
	assert.Contains(t, string(body), "Invalid request")

	status, _ = do(t, client, fasthttp.MethodPost, "/peptides", `{}`)
	assert.Equal(t, fasthttp.StatusNotFound, status)
}

func TestExpiredRequestDeadline(t *testing.T) {
	client := startServerWithTimeout(t, -time.Second)

	for _, path := range []string{"/alleles", "/ints"} {
		status, body := do(t, client, fasthttp.MethodPost, path, `{"input":"1"}`)
		assert.Equal(t, fasthttp.StatusServiceUnavailable, status, path)
		assert.Contains(t, string(body), "deadline exceeded", path)
	}

	// Single-name normalization does no list work and is not bounded.
	status, _ := do(t, client, fasthttp.MethodPost, "/normalize", `{"allele":"A*01"}`)
	assert.Equal(t, fasthttp.StatusOK, status)
}
