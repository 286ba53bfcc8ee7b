package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"urc/models"
)

// Backend actions understood by the web app
const (
	ActionTest         = "test"
	ActionSave         = "save"
	ActionUpdate       = "update"
	ActionGetAll       = "get_all"
	ActionGetByRelawan = "get_by_relawan"
)

const (
	// OfflineResult is returned by TestConnection when the backend cannot be reached.
	OfflineResult = "offline"
	// ConnectedResult is the body the backend answers to a test action when healthy.
	ConnectedResult = "✅ URC JKN API Connected!"

	idPrefix         = "URC_"
	postContentType  = "text/plain;charset=utf-8"
	loadFailedPrefix = "Gagal memuat data: "
	maxErrorBodySize = 512
)

// Gateway mediates all communication with the URC JKN web app endpoint.
// It holds no per-call state and is safe for concurrent use.
type Gateway struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// Option customizes a Gateway
type Option func(*Gateway)

// WithHTTPClient sets the HTTP client used for every request
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		g.httpClient = client
	}
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		g.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithClock overrides the time source used for tanggalAjuan
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// WithIDGenerator overrides how pengajuan ids are generated
func WithIDGenerator(newID func() string) Option {
	return func(g *Gateway) {
		g.newID = newID
	}
}

// NewGateway creates a gateway for the given web app URL
func NewGateway(webAppURL string, opts ...Option) (*Gateway, error) {
	base, err := url.Parse(webAppURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse web app url %q", webAppURL)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("web app url %q must be absolute", webAppURL)
	}

	g := &Gateway{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
		now:    time.Now,
		newID:  NewPengajuanID,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// NewPengajuanID returns a fresh collision-resistant pengajuan id
func NewPengajuanID() string {
	return idPrefix + uuid.NewString()
}

// FormatTanggal renders a date the way the id-ID locale does (d/m/yyyy, no padding)
func FormatTanggal(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// BaseURL returns the configured endpoint
func (g *Gateway) BaseURL() string {
	return g.baseURL.String()
}

// TestConnection asks the backend for its test message. Any failure yields OfflineResult.
func (g *Gateway) TestConnection(ctx context.Context) string {
	g.logger.Debug("testing connection")

	resp, err := g.do(ctx, http.MethodGet, g.actionURL(ActionTest), nil)
	if err != nil {
		g.logger.Error("connection failed", "error", err)
		return OfflineResult
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		g.logger.Error("connection failed", "error", err)
		return OfflineResult
	}

	result := string(body)
	g.logger.Info("connection test result", "status", resp.StatusCode, "result", result)
	return result
}

// TestSystem reports whether the backend answers the test action with ConnectedResult
func (g *Gateway) TestSystem(ctx context.Context) bool {
	return g.TestConnection(ctx) == ConnectedResult
}

// SavePengajuan submits a new pengajuan. The generated id, tanggalAjuan and
// action always replace any caller-supplied values. Errors are returned to the caller.
func (g *Gateway) SavePengajuan(ctx context.Context, data models.Record) (models.Envelope, error) {
	payload, err := g.savePayload(data)
	if err != nil {
		g.logger.Error("save error", "error", err)
		return models.Envelope{}, err
	}

	g.logger.Info("saving pengajuan", "id", gjson.GetBytes(payload, models.FieldID).String())

	env, err := g.postEnvelope(ctx, payload)
	if err != nil {
		g.logger.Error("save error", "error", err)
		return models.Envelope{}, errors.Wrap(err, "save pengajuan")
	}

	g.logger.Info("save result", "status", env.Status, "message", env.Message)
	return env, nil
}

func (g *Gateway) savePayload(data models.Record) ([]byte, error) {
	payload := []byte("{}")
	if len(data) > 0 {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidPayload, err.Error())
		}
		payload = b
	}

	generated := []struct {
		path  string
		value string
	}{
		{models.FieldAction, ActionSave},
		{models.FieldID, g.newID()},
		{models.FieldTanggalAjuan, FormatTanggal(g.now())},
	}

	for _, field := range generated {
		var err error
		payload, err = sjson.SetBytes(payload, field.path, field.value)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidPayload, "set %s: %v", field.path, err)
		}
	}

	return payload, nil
}

// UpdateStatus changes the status of an existing pengajuan. Errors are returned to the caller.
func (g *Gateway) UpdateStatus(ctx context.Context, id, status, alasan string) (models.Envelope, error) {
	g.logger.Info("updating status", "id", id, "status", status, "alasan", alasan)

	payload, err := json.Marshal(models.UpdateRequest{
		Action: ActionUpdate,
		ID:     id,
		Status: status,
		Alasan: alasan,
	})
	if err != nil {
		return models.Envelope{}, errors.Wrap(ErrInvalidPayload, err.Error())
	}

	env, err := g.postEnvelope(ctx, payload)
	if err != nil {
		g.logger.Error("update error", "id", id, "error", err)
		return models.Envelope{}, errors.Wrapf(err, "update status of %s", id)
	}

	g.logger.Info("update result", "id", id, "status", env.Status, "message", env.Message)
	return env, nil
}

// GetAllData fetches every pengajuan. Failures are absorbed into an empty success envelope.
func (g *Gateway) GetAllData(ctx context.Context) models.Envelope {
	env, err := g.fetchAll(ctx)
	if err != nil {
		return models.EmptyEnvelope()
	}
	return env
}

func (g *Gateway) fetchAll(ctx context.Context) (models.Envelope, error) {
	g.logger.Debug("fetching all data")

	body, err := g.getBody(ctx, g.actionURL(ActionGetAll))
	if err == nil {
		var env models.Envelope
		env, err = g.decodeEnvelope(body)
		if err == nil {
			g.logger.Info("get all data result", "status", env.Status, "records", len(env.Data))
			return env, nil
		}
	}

	g.logger.Error("get all data error", "error", err)
	return models.Envelope{}, err
}

// GetDataByRelawan asks the backend to filter pengajuan by relawan name.
// Failures are absorbed into an empty success envelope carrying the error text.
func (g *Gateway) GetDataByRelawan(ctx context.Context, name string) models.Envelope {
	target := g.actionURL(ActionGetByRelawan, "relawan", name)
	g.logger.Debug("fetching relawan data", "relawan", name, "url", target)

	env, err := g.fetchByRelawan(ctx, target)
	if err != nil {
		g.logger.Error("get relawan data error", "relawan", name, "error", err)
		env = models.EmptyEnvelope()
		env.Message = loadFailedPrefix + err.Error()
		return env
	}

	g.logger.Info("get relawan data result", "relawan", name, "status", env.Status, "records", len(env.Data))
	return env
}

func (g *Gateway) fetchByRelawan(ctx context.Context, target string) (models.Envelope, error) {
	body, err := g.getBody(ctx, target)
	if err != nil {
		return models.Envelope{}, err
	}
	if !gjson.ValidBytes(body) {
		return models.Envelope{}, errors.Wrap(ErrInvalidResponse, "body is not valid JSON")
	}
	if isFalsy(gjson.ParseBytes(body)) {
		return models.EmptyEnvelope(), nil
	}
	return g.decodeEnvelope(body)
}

// GetStatus returns a description of the gateway and backend reachability
func (g *Gateway) GetStatus(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"base_url": g.BaseURL(),
		"timeout":  g.httpClient.Timeout.String(),
	}

	result := g.TestConnection(ctx)
	switch {
	case result == OfflineResult:
		status["status"] = "unavailable"
		status["error"] = "Cannot connect to web app"
	case result == ConnectedResult:
		status["status"] = "available"
	default:
		status["status"] = "degraded"
		status["result"] = result
	}

	return status
}

// actionURL builds the endpoint URL for an action plus extra key/value query pairs.
// Values are percent-encoded so spaces become %20.
func (g *Gateway) actionURL(action string, pairs ...string) string {
	params := []string{"action=" + encodeURIComponent(action)}
	for i := 0; i+1 < len(pairs); i += 2 {
		params = append(params, encodeURIComponent(pairs[i])+"="+encodeURIComponent(pairs[i+1]))
	}

	u := *g.baseURL
	query := strings.Join(params, "&")
	if u.RawQuery != "" {
		query = u.RawQuery + "&" + query
	}
	u.RawQuery = query
	return u.String()
}

// encodeURIComponent percent-encodes s for a query value. Spaces become %20
// rather than "+"; unlike the JavaScript function of the same name it also
// escapes ! ' ( ) *, which decodes to the same value on the server.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (g *Gateway) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", postContentType)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s request failed", method)
	}
	return resp, nil
}

// getBody performs a GET and returns the body of a 2xx response
func (g *Gateway) getBody(ctx context.Context, target string) ([]byte, error) {
	return g.roundTrip(ctx, http.MethodGet, target, nil)
}

func (g *Gateway) postEnvelope(ctx context.Context, payload []byte) (models.Envelope, error) {
	body, err := g.roundTrip(ctx, http.MethodPost, g.baseURL.String(), payload)
	if err != nil {
		return models.Envelope{}, err
	}
	return g.decodeEnvelope(body)
}

func (g *Gateway) roundTrip(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	resp, err := g.do(ctx, method, target, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, errors.Wrapf(ErrUnexpectedStatus, "%d %s: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	return body, nil
}

// decodeEnvelope turns a backend JSON object into an Envelope. A data field
// that is not an array is left nil; the body stays reachable through Raw.
// Data items that are not objects are skipped.
func (g *Gateway) decodeEnvelope(body []byte) (models.Envelope, error) {
	if !gjson.ValidBytes(body) {
		return models.Envelope{}, errors.Wrap(ErrInvalidResponse, "body is not valid JSON")
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return models.Envelope{}, errors.Wrapf(ErrInvalidResponse, "expected a JSON object, got %s", parsed.Type)
	}

	env := models.Envelope{
		Status:  parsed.Get("status").String(),
		Message: parsed.Get("message").String(),
		Raw:     append(json.RawMessage(nil), body...),
	}

	data := parsed.Get("data")
	if !data.IsArray() {
		return env, nil
	}

	env.Data = []models.Record{}
	index := -1
	data.ForEach(func(_, item gjson.Result) bool {
		index++
		if !item.IsObject() {
			g.logger.Warn("skipping data item", "index", index, "type", item.Type.String())
			return true
		}
		var record models.Record
		if err := json.Unmarshal([]byte(item.Raw), &record); err != nil {
			g.logger.Warn("skipping data item", "index", index, "error", err)
			return true
		}
		env.Data = append(env.Data, record)
		return true
	})

	return env, nil
}

// isFalsy mirrors JavaScript truthiness for a parsed JSON value
func isFalsy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return v.Num == 0
	case gjson.String:
		return v.Str == ""
	default:
		return !v.Exists()
	}
}
