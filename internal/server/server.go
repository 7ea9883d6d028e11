package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/currency"
	"github.com/iwvelando/savings-forecast/pkg/format"
	"github.com/iwvelando/savings-forecast/pkg/output"
	"github.com/iwvelando/savings-forecast/pkg/projection"
	"github.com/iwvelando/savings-forecast/pkg/ranking"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// RequestIDHeader carries the id assigned to every API request.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         *cache.Cache
	limiter       *rate.Limiter
	display       *forecast.Display
}

// NewHandler constructs the HTTP handler that serves the forecast API. A nil
// cfg uses the server defaults.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg, _ = LoadConfig("")
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	ttl := cfg.CacheTTLDuration()
	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		cache:         cache.New(ttl, 2*ttl),
		limiter:       rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestBurst),
		display:       &forecast.Display{},
	}

	mux := http.NewServeMux()

	// Forecast API endpoint (JSON snapshot or YAML upload)
	mux.HandleFunc("/api/forecast", h.handleForecast)

	// Most recently computed forecast
	mux.HandleFunc("/api/forecast/latest", h.handleLatest)

	// Single amount conversion
	mux.HandleFunc("/api/convert", h.handleConvert)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(h.withRateLimit(mux))
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))

		h.logger.Debug("request served",
			zap.String("op", "server.withRequestID"),
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *handler) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.Allow() {
			h.respondErrorWithOp(w, r, http.StatusTooManyRequests, "rate limit exceeded, retry later", "server.withRateLimit")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) requestLogger(r *http.Request) *zap.Logger {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return h.logger.With(zap.String("request_id", id))
	}
	return h.logger
}

type forecastResponse struct {
	Currency   string            `json:"currency"`
	Label      string            `json:"label"`
	FreeMoney  string            `json:"freeMoney"`
	Balance    balanceView       `json:"balance"`
	Incomes    []categoryView    `json:"incomes"`
	Expenses   []categoryView    `json:"expenses"`
	Allocation decimal.Decimal   `json:"allocation"`
	Projection projectionView    `json:"projection"`
	Rates      map[string]string `json:"rates"`
	Warnings   []string          `json:"warnings,omitempty"`
	Duration   string            `json:"duration"`
}

type balanceView struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Delta   decimal.Decimal `json:"delta"`
	Status  string          `json:"status"`
	Display string          `json:"display"`
}

type categoryView struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Icon        string          `json:"icon,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Converted   decimal.Decimal `json:"converted"`
	Display     string          `json:"display"`
	Percent     int64           `json:"percent"`
	BarFraction decimal.Decimal `json:"barFraction"`
	Hourly      decimal.Decimal `json:"hourly"`
	Daily       decimal.Decimal `json:"daily"`
	Yearly      decimal.Decimal `json:"yearly"`
}

type projectionView struct {
	Branch        string            `json:"branch"`
	Shape         string            `json:"shape"`
	Months        []int64           `json:"months"`
	DepositBucket []decimal.Decimal `json:"depositBucket,omitempty"`
	Interest      decimal.Decimal   `json:"interest"`
	Midpoint      int64             `json:"midpoint"`
	Final         int64             `json:"final"`
	FinalDisplay  string            `json:"finalDisplay"`
	SliderEnabled bool              `json:"sliderEnabled"`
	SliderStep    decimal.Decimal   `json:"sliderStep"`
	Tip           string            `json:"tip"`
}

type cachedForecast struct {
	result   forecast.Forecast
	response forecastResponse
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var (
		configPayload map[string]interface{}
		options       forecast.Options
		err           error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		configPayload, err = h.readUpload(r)
	} else {
		configPayload, options, err = readEnvelope(r.Body)
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	key, err := cacheKey(configPayload, options)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	entry, hit := h.lookup(key)
	if !hit {
		entry, err = h.compute(r, configPayload, options)
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
			return
		}
		h.cache.SetDefault(key, entry)
	}
	h.display.Publish(entry.result)

	elapsed := time.Since(start)
	h.requestLogger(r).Info("forecast computed",
		zap.String("op", op),
		zap.Bool("cached", hit),
		zap.String("branch", entry.result.Projection.Branch.String()),
		zap.Duration("duration", elapsed),
	)

	if hit {
		w.Header().Set("X-Cache", "hit")
	}
	if r.URL.Query().Get("format") == constants.OutputFormatCSV {
		w.Header().Set("Content-Type", "text/csv")
		if err := output.CsvFormat(w, entry.result); err != nil {
			h.requestLogger(r).Error("failed to write CSV response", zap.String("op", op), zap.Error(err))
		}
		return
	}

	response := entry.response
	response.Duration = durafmt.Parse(elapsed).String()
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) lookup(key string) (cachedForecast, bool) {
	if cached, ok := h.cache.Get(key); ok {
		if entry, ok := cached.(cachedForecast); ok {
			return entry, true
		}
	}
	return cachedForecast{}, false
}

func (h *handler) compute(r *http.Request, configPayload map[string]interface{}, options forecast.Options) (cachedForecast, error) {
	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		return cachedForecast{}, fmt.Errorf("failed to encode configuration: %w", err)
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		return cachedForecast{}, err
	}
	applied := options.Apply(*cfg)
	warnings := applied.ValidateConfiguration()

	result, err := forecast.GetForecast(h.requestLogger(r), applied)
	if err != nil {
		return cachedForecast{}, fmt.Errorf("failed to compute forecast: %w", err)
	}

	return cachedForecast{result: result, response: buildResponse(result, warnings)}, nil
}

func (h *handler) readUpload(r *http.Request) (map[string]interface{}, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, fmt.Errorf("failed to parse upload: %w", err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("missing configuration file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.requestLogger(r).Warn("failed to close uploaded file",
				zap.String("op", "server.readUpload"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	configMap, err := decodeYAMLToMap(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return configMap, nil
}

// readEnvelope accepts either a bare snapshot or {"config": ..., "options": ...}.
func readEnvelope(body io.Reader) (map[string]interface{}, forecast.Options, error) {
	var options forecast.Options

	var payload map[string]interface{}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, options, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	rawConfig, enveloped := payload["config"]
	if !enveloped {
		return payload, options, nil
	}

	configPayload, ok := rawConfig.(map[string]interface{})
	if !ok {
		return nil, options, errors.New("invalid config payload: expected object")
	}

	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			return nil, options, errors.New("invalid options payload: expected object")
		}
		if cur, ok := optsMap["currency"]; ok {
			code, ok := cur.(string)
			if !ok {
				return nil, options, errors.New("invalid currency option: expected string")
			}
			options.Currency = code
		}
		if alloc, ok := optsMap["allocation"]; ok {
			fraction, err := coerceFloat(alloc)
			if err != nil {
				return nil, options, fmt.Errorf("invalid allocation option: %w", err)
			}
			options.Allocation = &fraction
		}
	}

	return configPayload, options, nil
}

// cacheKey hashes the canonical JSON encoding of the request; map keys are
// sorted by encoding/json so equal payloads share a key.
func cacheKey(configPayload map[string]interface{}, options forecast.Options) (string, error) {
	encoded, err := json.Marshal(struct {
		Config  map[string]interface{} `json:"config"`
		Options forecast.Options       `json:"options"`
	}{configPayload, options})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

func buildResponse(result forecast.Forecast, warnings []string) forecastResponse {
	cur := result.Currency
	proj := result.Projection

	return forecastResponse{
		Currency:  string(cur),
		Label:     cur.Label(),
		FreeMoney: format.Amount(result.FreeMoney, cur),
		Balance: balanceView{
			Income:  result.Balance.Income,
			Expense: result.Balance.Expense,
			Delta:   result.Balance.Delta,
			Status:  string(result.Balance.Status),
			Display: format.Amount(result.Balance.Delta.Abs(), cur),
		},
		Incomes:    buildCategories(result.Incomes, cur),
		Expenses:   buildCategories(result.Expenses, cur),
		Allocation: result.Allocation,
		Projection: projectionView{
			Branch:        proj.Branch.String(),
			Shape:         string(proj.Shape),
			Months:        proj.DisplayMonths(),
			DepositBucket: proj.DepositBucket,
			Interest:      proj.InterestAccrued,
			Midpoint:      proj.MidpointDisplay(),
			Final:         proj.FinalDisplay(),
			FinalDisplay:  format.Whole(proj.FinalDisplay(), cur),
			SliderEnabled: proj.SliderEnabled,
			SliderStep:    projection.SliderStep(proj.Delta),
			Tip:           string(proj.Tip),
		},
		Rates: map[string]string{
			string(currency.USD): result.Rates.USD.String(),
			string(currency.EUR): result.Rates.EUR.String(),
		},
		Warnings: warnings,
	}
}

func buildCategories(ranked []ranking.RankedCategory, cur currency.Currency) []categoryView {
	views := make([]categoryView, 0, len(ranked))
	for _, rc := range ranked {
		views = append(views, categoryView{
			ID:          rc.ID,
			Title:       rc.Title,
			Icon:        rc.Icon,
			Amount:      rc.RawAmount,
			Currency:    string(rc.Currency),
			Converted:   rc.Converted,
			Display:     format.Amount(rc.Converted, cur),
			Percent:     rc.Percent,
			BarFraction: rc.BarFraction.Round(4),
			Hourly:      rc.Rates.Hourly,
			Daily:       rc.Rates.Daily,
			Yearly:      rc.Rates.Yearly,
		})
	}
	return views
}

func (h *handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	result, ok := h.display.Current()
	if !ok {
		h.respondErrorWithOp(w, r, http.StatusNotFound, "no forecast has been computed yet", "server.handleLatest")
		return
	}
	h.writeJSON(w, http.StatusOK, buildResponse(result, nil))
}

type convertResponse struct {
	Amount  decimal.Decimal `json:"amount"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Result  decimal.Decimal `json:"result"`
	Display string          `json:"display"`
}

func (h *handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConvert"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	amount, err := decimal.NewFromString(strings.TrimSpace(query.Get("amount")))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("invalid amount %q", query.Get("amount")), op)
		return
	}
	from, err := currency.ParseCurrency(query.Get("from"))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	to, err := currency.ParseCurrency(query.Get("to"))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	usd, usdErr := strconv.ParseFloat(query.Get("usd"), 64)
	eur, eurErr := strconv.ParseFloat(query.Get("eur"), 64)
	if usdErr != nil || eurErr != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "usd and eur rates are required", op)
		return
	}
	rates, err := currency.NewRates(usd, eur)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}

	converted, err := currency.Convert(amount, from, to, rates)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, convertResponse{
		Amount:  amount,
		From:    string(from),
		To:      string(to),
		Result:  converted,
		Display: format.Amount(converted, to),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.requestLogger(r).Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func coerceFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, fmt.Errorf("expected number, got %T", value)
}
