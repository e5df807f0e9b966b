package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/metrics"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

// Client - HTTP клиент REST API маркетплейса.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиента. Если httpClient не передан, используется клиент с таймаутом.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    trimmed,
		httpClient: httpClient,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Mensaje string `json:"mensaje"`
}

// request описывает один вызов бэкенда.
type request struct {
	operation string
	method    string
	path      string
	token     string
	// authRequired: без токена запрос не отправляется.
	authRequired bool
	body         any
	out          any
}

func (c *Client) do(ctx context.Context, r request) error {
	log := logger.Component("apiclient").WithFields(logrus.Fields{
		"operation": r.operation,
		"method":    r.method,
		"path":      r.path,
	})

	if r.authRequired && strings.TrimSpace(r.token) == "" {
		metrics.UpstreamRequestsTotal.WithLabelValues(r.operation, "no_token").Inc()
		return apperror.ErrUnauthorized
	}
	if c.baseURL == "" {
		return apperror.New(apperror.ErrCodeInternal, "API_BASE_URL no configurado")
	}

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInternal, "no se pudo serializar la solicitud")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "no se pudo crear la solicitud")
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(r.operation).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(r.operation, "network_error").Inc()
		log.WithError(err).Warn("apiclient: ошибка соединения с бэкендом")
		return apperror.Network(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(r.operation, "network_error").Inc()
		return apperror.Network(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues(r.operation, "rejected").Inc()
		log.WithField("status", resp.StatusCode).Info("apiclient: бэкенд отклонил запрос")
		return apperror.FromUpstream(resp.StatusCode, parseErrorMessage(payload))
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(r.operation, "ok").Inc()

	if r.out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, r.out); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeUpstream, "respuesta del servidor no válida")
	}
	return nil
}

// parseErrorMessage извлекает текст ошибки из тела ответа.
func parseErrorMessage(payload []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		message := strings.TrimSpace(string(payload))
		if len(message) > 200 || strings.HasPrefix(message, "<") {
			return ""
		}
		return message
	}
	for _, m := range []string{parsed.Message, parsed.Mensaje, parsed.Error} {
		if strings.TrimSpace(m) != "" {
			return m
		}
	}
	return ""
}
