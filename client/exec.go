package client

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// exec drives one exchange from sending the request to its terminal
// event. It runs on the call's own goroutine, and everything it
// allocates is private to that call.
func (c *Client) exec(call *Call, req *http.Request, desc Descriptor) {
	start := time.Now()
	log := c.logger.With("call_id", call.id, "method", desc.Method.String(), "path", desc.Path)

	ctx, span := c.tracer.Start(req.Context(), "httpapi.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", desc.Method.String()),
			attribute.String("server.address", desc.Hostname),
			attribute.Int("server.port", desc.Port),
			attribute.String("url.path", desc.Path),
			attribute.String("httpapi.call_id", call.id),
		),
	)
	defer span.End()

	req = req.WithContext(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	c.metrics.start(desc.Method)

	fail := func(err error, resp *http.Response) {
		from := call.State()
		call.setState(StateFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("call failed", "from", from.String(), "error", err)

		c.events.publish(EventError, err, ErrorInfo{
			CallID:   call.id,
			Request:  req,
			Response: resp,
			Options:  desc.clone(),
		})

		c.metrics.finish(desc.Method, outcomeError, time.Since(start))
		call.finish(err)
	}

	call.setState(StateSending)
	log.Debug("call sending")
	c.events.publish(EventRequest, RequestInfo{
		CallID:  call.id,
		Request: req,
		Options: desc.clone(),
	})

	resp, err := c.hc.Do(req)
	if err != nil {
		fail(&TransportError{Op: "send", Err: err}, nil)
		return
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Error("failed to close response body", "error", err)
		}
	}()

	call.setState(StateStreaming)
	log.Debug("call streaming", "status", resp.StatusCode)

	var acc accumulator
	buf := make([]byte, c.bufSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			acc.add(buf[:n])
			c.metrics.chunk(desc.Method, n)
			c.events.publish(EventData, bytes.Clone(buf[:n]), DataInfo{
				CallID:   call.id,
				Request:  req,
				Response: resp,
				Options:  desc.clone(),
			})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fail(&TransportError{Op: "read", Err: err}, resp)
			return
		}
	}

	call.setState(StateDecoding)
	log.Debug("call decoding", "bytes", acc.size)

	body, err := decodeBody(resp.Header, acc.bytes(), c.useJSONNum)
	if err != nil {
		fail(err, resp)
		return
	}

	call.setState(StateCompleted)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	log.Info("call completed", "status", resp.StatusCode, "bytes", acc.size, "json", body.IsJSON(), "took", time.Since(start).String())

	c.events.publish(EventEnd, body, EndInfo{
		CallID:   call.id,
		Request:  req,
		Response: resp,
	})

	c.metrics.finish(desc.Method, outcomeEnd, time.Since(start))
	call.finish(nil)
}
