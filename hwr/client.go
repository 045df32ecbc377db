package hwr

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/juruen/inkpaper/ink"
	"github.com/juruen/inkpaper/log"
	"github.com/pkg/errors"
)

const (
	DefaultHost   = "cloud.myscript.com"
	recognizePath = "/api/v3.0/recognition/rest/text/doSimpleRecognition.json"
	languagesPath = "/api/v3.0/recognition/rest/text/languages.json"
	streamPath    = "/api/v3.0/recognition/ws/text"
)

// ComputeHmac signs input with HMAC-SHA512 keyed by applicationKey+hmacKey
func ComputeHmac(input []byte, applicationKey, hmacKey string) string {
	mac := hmac.New(sha512.New, []byte(applicationKey+hmacKey))
	mac.Write(input)
	return hex.EncodeToString(mac.Sum(nil))
}

// RESTURL returns the base url of the request/response api
func RESTURL(host string, ssl bool) string {
	if ssl {
		return "https://" + host
	}
	return "http://" + host
}

// StreamURL returns the streaming endpoint
func StreamURL(host string, ssl bool) string {
	if ssl {
		return "wss://" + host + streamPath
	}
	return "ws://" + host + streamPath
}

// StatusError is returned for non 2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: Status %d, Response: %s", e.StatusCode, e.Body)
}

type RecognizeRequest struct {
	ApplicationKey string
	HmacKey        string
	InstanceID     string
	Parameters     TextParameter
	Components     []ink.Component
}

// RESTClient talks to the request/response api. It keeps no session state
// and never retries.
type RESTClient struct {
	BaseURL    string
	HTTPClient *http.Client
	// Precision rounds coordinates before sending, negative keeps them
	Precision int

	// guards BaseURL and Precision against the setters
	mu sync.RWMutex
}

func NewRESTClient(host string, ssl bool) *RESTClient {
	return &RESTClient{
		BaseURL:    RESTURL(host, ssl),
		HTTPClient: &http.Client{},
		Precision:  -1,
	}
}

func (c *RESTClient) SetHost(host string, ssl bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.BaseURL = RESTURL(host, ssl)
}

func (c *RESTClient) SetPrecision(precision int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Precision = precision
}

func (c *RESTClient) settings() (string, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.BaseURL, c.Precision
}

// Recognize sends a start request when InstanceID is empty and a continue
// request otherwise.
func (c *RESTClient) Recognize(ctx context.Context, req *RecognizeRequest) (*Result, error) {
	baseURL, precision := c.settings()
	input, err := json.Marshal(TextInput{
		TextParameter: req.Parameters.Normalize(),
		InputUnits:    inputUnits(req.Components, precision),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode input")
	}

	data := RecognitionData{
		ApplicationKey: req.ApplicationKey,
		InstanceID:     req.InstanceID,
		TextInput:      input,
	}
	if req.HmacKey != "" {
		data.Hmac = ComputeHmac(input, req.ApplicationKey, req.HmacKey)
	}

	body, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}
	log.Trace.Printf("recognize: instance %q, %d components, %d bytes", req.InstanceID, len(req.Components), len(body))

	res, err := c.do(ctx, http.MethodPost, baseURL+recognizePath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if err := json.Unmarshal(res, result); err != nil {
		return nil, errors.Wrap(err, "failed to decode result")
	}
	return result, nil
}

// Languages lists the languages available for an input mode
func (c *RESTClient) Languages(ctx context.Context, applicationKey string, mode InputMode) (map[string]string, error) {
	baseURL, _ := c.settings()
	q := url.Values{}
	q.Set("applicationKey", applicationKey)
	q.Set("inputMode", string(mode))

	res, err := c.do(ctx, http.MethodGet, baseURL+languagesPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Result map[string]string `json:"result"`
	}
	if err := json.Unmarshal(res, &out); err != nil {
		return nil, errors.Wrap(err, "failed to decode languages")
	}
	return out.Result, nil
}

func (c *RESTClient) do(ctx context.Context, method, u string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: string(b)}
	}
	return b, nil
}
