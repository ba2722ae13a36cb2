// Package sink is a local order endpoint used to try the requester without a
// real backend. It acknowledges every form-encoded order with a JSON body.
package sink

import (
	"encoding/json"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type Ack struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

type Sink struct {
	Logger *zap.Logger
}

// Handler acknowledges the first name=quantity pair of a POST form body.
func (s *Sink) Handler(ctx *fasthttp.RequestCtx) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("order received", zap.ByteString("method", ctx.Method()), zap.ByteString("body", ctx.PostBody()))

	if !ctx.IsPost() {
		ctx.Error("only POST is supported", fasthttp.StatusMethodNotAllowed)
		return
	}

	var ack *Ack
	var parseErr error
	ctx.PostArgs().VisitAll(func(key, value []byte) {
		if ack != nil {
			return
		}
		qty, err := strconv.Atoi(string(value))
		if err != nil {
			parseErr = err
		}
		ack = &Ack{Item: string(key), Quantity: qty, Status: "ok"}
	})

	switch {
	case ack == nil:
		ctx.Error("missing order", fasthttp.StatusBadRequest)
		return
	case parseErr != nil:
		ctx.Error("quantity must be a number", fasthttp.StatusBadRequest)
		return
	case ack.Quantity <= 0:
		ack.Status = "rejected"
		writeJSON(ctx, fasthttp.StatusUnprocessableEntity, ack)
	default:
		writeJSON(ctx, fasthttp.StatusOK, ack)
	}
	log.Info("order acknowledged", zap.String("item", ack.Item), zap.Int("quantity", ack.Quantity), zap.String("status", ack.Status))
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
