package server

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"io"
	"net/http"

	// Local Packages
	codec "ipn-gateway/codec"
	models "ipn-gateway/models"

	// External Packages
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Lifecycle is the engine surface the handlers drive.
type Lifecycle interface {
	Validate(ctx context.Context, n models.Notification, raw []byte) models.Reply
	Process(ctx context.Context, n models.Notification, raw []byte) models.Reply
}

type Handler struct {
	svc    Lifecycle
	logger *zap.Logger
}

func NewHandler(svc Lifecycle, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) ValidateIPN(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.svc.Validate)
}

func (h *Handler) ProcessIPN(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.svc.Process)
}

// handle decodes the notification, runs the lifecycle phase and renders the
// reply in the request's wire format. Business failures are still HTTP 200:
// the gateway reads STATUS/status from the reply body, and must always get a
// well-formed one.
func (h *Handler) handle(w http.ResponseWriter, r *http.Request,
	phase func(ctx context.Context, n models.Notification, raw []byte) models.Reply) {

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		// Whatever was read before the failure still tells us the wire
		// format, so the error reply keeps format fidelity.
		h.logger.Error("failed to read request body", zap.Error(err))
		h.writeReply(w, codec.Detect(body), models.FailedReply("Invalid request body", "unknown"))
		return
	}

	fields, format, err := codec.Decode(body)
	if err != nil {
		h.logger.Warn("unparsable notification payload", zap.Error(err))
		h.writeReply(w, format, models.FailedReply("Invalid request format", "unknown"))
		return
	}

	reply := phase(r.Context(), codec.Extract(fields), body)
	h.writeReply(w, format, reply)
}

func (h *Handler) writeReply(w http.ResponseWriter, format codec.Format, reply models.Reply) {
	out, err := codec.EncodeReply(format, reply)
	if err != nil {
		// Encoding a reply struct cannot realistically fail; fall back to
		// the markup shape so the gateway still gets a parsable answer.
		h.logger.Error("failed to encode reply", zap.Error(err))
		format = codec.FormatXML
		out, _ = codec.EncodeReply(format, models.FailedReply("Internal server error", reply.TransactionID))
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}
