package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/mongomentor/internal/errors"
)

// Response field read from the endpoint's JSON body
const PathAnswer = "answer"

type queryPayload struct {
	Question string `json:"question"`
}

// Answer posts question to the endpoint and returns the answer text.
//
// Errors are typed: *errors.NetworkError for transport failures,
// *errors.ParseError when the body is not usable JSON, and errors.ErrNoAnswer
// when the body has no truthy answer field. The status code is not treated as
// a failure on its own.
func (c *Client) Answer(ctx context.Context, requestID, question string) (string, error) {
	if c.IsClosed() {
		return "", fmt.Errorf("client is closed")
	}

	payload, err := json.Marshal(queryPayload{Question: question})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkError("query", c.endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierrors.NewNetworkError("read response", c.endpoint, err)
	}

	c.logger.Debug("query response",
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("non-success status from endpoint",
			slog.String("request_id", requestID),
			slog.Any("err", apierrors.NewAPIError(resp.StatusCode, c.endpoint, http.StatusText(resp.StatusCode))),
		)
	}

	return ParseAnswer(body)
}

// ParseAnswer extracts the answer text from a response body.
//
// A body that is not JSON, or is JSON null, is a parse error. Any other body
// without a truthy answer field yields errors.ErrNoAnswer. When the field is
// repeated the last occurrence wins.
func ParseAnswer(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response body is not valid JSON", string(body))
	}

	root := gjson.ParseBytes(body)
	if root.Type == gjson.Null {
		return "", apierrors.NewParseError("response body is null", string(body))
	}
	if !root.IsObject() {
		return "", apierrors.ErrNoAnswer
	}

	var answer gjson.Result
	root.ForEach(func(key, value gjson.Result) bool {
		if key.String() == PathAnswer {
			answer = value
		}
		return true
	})
	if !truthy(answer) {
		return "", apierrors.ErrNoAnswer
	}

	return answerText(answer), nil
}

// truthy reports whether a JSON value counts as present: non-empty strings,
// non-zero numbers, true, objects and arrays.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}

func answerText(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return formatNumber(r.Num)
	case gjson.True:
		return "true"
	default:
		return r.Raw
	}
}

// formatNumber prints f the way a browser would: plain digits between 1e-6
// and 1e21, exponent notation outside that range.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
