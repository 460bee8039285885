package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/evergreenclinic/clinic-platform/internal/clinic"
	"github.com/evergreenclinic/clinic-platform/internal/observability/metrics"
	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

// ErrEmptyHistory indicates the turn carried no user-authored content. This
// is a client error; no upstream calls are made.
var ErrEmptyHistory = errors.New("conversation: turn history contains no user message")

const transcriptWriteTimeout = 5 * time.Second

// Reply is the assistant-role response produced for one turn.
type Reply struct {
	Content  string
	Provider string
	// Degraded marks the fixed fallback message returned when every
	// provider was exhausted with a rate limit observed.
	Degraded bool
	// BookedAppointmentID is set when this turn created an appointment.
	BookedAppointmentID string
}

// OrchestratorConfig carries the orchestrator's collaborators explicitly so
// tests can substitute fakes. Executor and Transcripts are optional: without
// an executor, booking actions produce an apologetic redirect; without
// transcripts, turn logging is skipped.
type OrchestratorConfig struct {
	Gateway     *Gateway
	Catalog     ServiceCatalog
	Resolver    *ServiceResolver
	Executor    *BookingExecutor
	Transcripts *TranscriptStore
	Events      *EventLogger
	Metrics     *metrics.ChatMetrics
	Logger      *logging.Logger
	ClinicName  string
	ClinicPhone string
}

// Orchestrator runs one conversation turn end to end: prompt assembly, model
// failover, action extraction, service resolution, time normalization, and
// the booking write. It creates at most one appointment per turn.
type Orchestrator struct {
	gateway     *Gateway
	catalog     ServiceCatalog
	resolver    *ServiceResolver
	executor    *BookingExecutor
	transcripts *TranscriptStore
	events      *EventLogger
	metrics     *metrics.ChatMetrics
	logger      *logging.Logger
	clinicName  string
	clinicPhone string
	tracer      trace.Tracer
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Orchestrator{
		gateway:     cfg.Gateway,
		catalog:     cfg.Catalog,
		resolver:    cfg.Resolver,
		executor:    cfg.Executor,
		transcripts: cfg.Transcripts,
		events:      cfg.Events,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		clinicName:  cfg.ClinicName,
		clinicPhone: cfg.ClinicPhone,
		tracer:      otel.Tracer("clinic.internal.conversation"),
	}
}

// HandleTurn processes one inbound turn. history is oldest-first and must
// contain at least one user message. The error return is reserved for
// request-level failures (empty history, misconfiguration, non-rate-limited
// exhaustion); every other failure mode is absorbed into the reply text.
func (o *Orchestrator) HandleTurn(ctx context.Context, conversationID string, history []ChatMessage) (Reply, error) {
	ctx, span := o.tracer.Start(ctx, "conversation.handle_turn")
	defer span.End()
	started := time.Now()

	if !hasUserMessage(history) {
		return Reply{}, ErrEmptyHistory
	}

	o.events.TurnReceived(ctx, conversationID, len(history))

	latest := history[len(history)-1]
	if latest.Role == ChatRoleUser {
		o.logTranscript(conversationID, ChatRoleUser, latest.Content, "")
	}

	system := o.buildPrompt(ctx)

	result, err := o.gateway.Complete(ctx, system, history)
	if err != nil {
		var exhausted *ExhaustedError
		if errors.As(err, &exhausted) && exhausted.RateLimited {
			// Recognized user-facing outcome, not an error: the caller
			// still gets a conversational reply.
			o.events.DegradedReply(ctx, conversationID)
			o.metrics.ObserveTurn("degraded", time.Since(started).Seconds())
			reply := Reply{Content: o.degradedMessage(), Degraded: true}
			o.logTranscript(conversationID, ChatRoleAssistant, reply.Content, "")
			return reply, nil
		}
		o.metrics.ObserveTurn("failed", time.Since(started).Seconds())
		return Reply{}, err
	}

	cleanText, intent := ExtractAction(result.Text)

	reply := Reply{Content: cleanText, Provider: result.Provider}
	outcome := "reply"

	if intent != nil {
		o.events.ActionExtracted(ctx, conversationID, intent)
		reply.Content, reply.BookedAppointmentID = o.completeBooking(ctx, conversationID, intent, result.Provider)
		if reply.BookedAppointmentID != "" {
			outcome = "booked"
		}
	}

	o.logTranscript(conversationID, ChatRoleAssistant, reply.Content, result.Provider)
	o.metrics.ObserveTurn(outcome, time.Since(started).Seconds())
	return reply, nil
}

// completeBooking resolves, normalizes, and writes one booking intent,
// returning the caller-facing reply text. The raw structured block never
// reaches the caller; only a confirmation, apology, or failure message does.
func (o *Orchestrator) completeBooking(ctx context.Context, conversationID string, intent *BookingIntent, provider string) (replyText, appointmentID string) {
	if o.executor == nil {
		// Never silently pretend success.
		return fmt.Sprintf(
			"I'm sorry — I can't complete the booking from here right now. Please call us at %s and our staff will finish scheduling your appointment.",
			o.clinicPhone,
		), ""
	}

	var ref *clinic.Ref
	if o.resolver != nil {
		ref = o.resolver.Resolve(ctx, intent.ServiceName)
	}
	normalized := NormalizeTime(intent.Time)

	req := BookingRequest{
		PatientName: intent.PatientName,
		Phone:       intent.Phone,
		Date:        intent.Date,
		Time:        normalized,
		Provenance:  provider,
	}
	serviceName := intent.ServiceName
	if ref != nil {
		req.ServiceID = &ref.ID
		serviceName = ref.Name
	}

	appt, err := o.executor.Execute(ctx, req)
	if err != nil {
		o.events.BookingFailed(ctx, conversationID, err)
		o.metrics.ObserveBooking("failed")
		// Include the underlying error for operator diagnosis; the
		// conversation continues, so this is not an HTTP-level failure.
		return fmt.Sprintf(
			"I'm sorry, I wasn't able to save your booking (%v). Please call us at %s and we'll schedule it for you.",
			err, o.clinicPhone,
		), ""
	}

	o.events.BookingCreated(ctx, conversationID, appt.ID.String())
	o.metrics.ObserveBooking("confirmed")
	return fmt.Sprintf(
		"You're all set, %s! Your %s appointment is confirmed for %s at %s. We have your phone number as %s — we'll reach out if anything changes.",
		intent.PatientName, serviceName, intent.Date, normalized, intent.Phone,
	), appt.ID.String()
}

// buildPrompt renders the receptionist instructions with the live service
// catalog. Catalog failures degrade to the empty-catalog prompt rather than
// failing the turn.
func (o *Orchestrator) buildPrompt(ctx context.Context) string {
	var services []clinic.Service
	if o.catalog != nil {
		listed, err := o.catalog.ListActive(ctx)
		if err != nil {
			o.logger.Warn("service catalog unavailable for prompt", "error", err.Error())
		} else {
			services = listed
		}
	}
	return BuildSystemPrompt(o.clinicName, o.clinicPhone, services)
}

func (o *Orchestrator) degradedMessage() string {
	return fmt.Sprintf(
		"We're experiencing high demand right now and our assistant is temporarily unavailable. Please call us at %s and our staff will be happy to help you book.",
		o.clinicPhone,
	)
}

// logTranscript appends a turn to the transcript store in the background.
// Write failures are logged locally and never surfaced to the caller.
func (o *Orchestrator) logTranscript(conversationID, role, content, provider string) {
	if o.transcripts == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), transcriptWriteTimeout)
		defer cancel()
		if err := o.transcripts.Append(ctx, conversationID, role, content, provider); err != nil {
			o.logger.Warn("transcript write failed",
				"conversation_id", conversationID,
				"error", err.Error(),
			)
		}
	}()
}

func hasUserMessage(history []ChatMessage) bool {
	for _, m := range history {
		if m.Role == ChatRoleUser && m.Content != "" {
			return true
		}
	}
	return false
}
