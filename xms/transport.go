package xms

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// request describes a single HTTP call. It is built per call and not
// modified afterwards.
type request struct {
	method string
	url    string
	body   []byte
}

func newRequest(method, url string, body []byte) request {
	return request{method: method, url: url, body: body}
}

// response is the raw outcome of a completed exchange.
type response struct {
	status int
	body   []byte
}

// Exchange describes one completed HTTP exchange.
type Exchange struct {
	Method       string
	URL          string
	RequestBody  []byte
	ResponseBody []byte
	StatusCode   int
	Elapsed      time.Duration
}

// Observer is called synchronously after each completed exchange.
type Observer func(Exchange)

// execute performs req on the client's connection handle. Only transport
// level failures are returned as errors; every status code is a response.
func (c *Client) execute(ctx context.Context, req request) (*response, error) {
	r := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Encoding", "gzip, deflate").
		SetHeader("Connection", "keep-alive").
		SetHeader("Authorization", "Bearer "+c.token).
		SetHeader("XMS-SDK-Version", Version).
		SetHeader("User-Agent", c.userAgent)

	if req.body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}

	start := time.Now()
	resp, err := r.Execute(req.method, req.url)
	if err != nil {
		return nil, &TransportError{Method: req.method, URL: req.url, Err: err}
	}
	elapsed := time.Since(start)

	body, err := decodeBody(resp.Header().Get("Content-Encoding"), resp.Body())
	if err != nil {
		return nil, &TransportError{Method: req.method, URL: req.url, Err: err}
	}
	out := &response{status: resp.StatusCode(), body: body}

	c.logger.Debug().
		Str("method", req.method).
		Str("url", req.url).
		Int("status", out.status).
		Dur("elapsed", elapsed).
		Bytes("request_body", req.body).
		Bytes("response_body", out.body).
		Msg("XMS API exchange")

	if c.observer != nil {
		c.observer(Exchange{
			Method:       req.method,
			URL:          req.url,
			RequestBody:  req.body,
			ResponseBody: out.body,
			StatusCode:   out.status,
			Elapsed:      elapsed,
		})
	}

	return out, nil
}

// decodeBody inflates deflate encoded bodies. Setting Accept-Encoding by hand
// turns off net/http's transparent decompression and resty only undoes gzip.
// Deflate is meant to be zlib wrapped but raw streams are accepted too.
func decodeBody(encoding string, body []byte) ([]byte, error) {
	if !strings.EqualFold(strings.TrimSpace(encoding), "deflate") || len(body) == 0 {
		return body, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(body))
	if err == nil {
		defer zr.Close()
		if out, err := io.ReadAll(zr); err == nil {
			return out, nil
		}
	}

	fr := flate.NewReader(bytes.NewReader(body))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("failed to inflate response body: %w", err)
	}
	return out, nil
}

// restyLogger routes resty's internal messages into zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error().Msg(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn().Msg(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug().Msg(fmt.Sprintf(format, v...))
}
