package adminguard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/catalog-service/domain/product"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Middleware guards privileged request-reply services behind an admin JWT.
// It intercepts service registrations and wraps the handlers of protected
// services; everything else passes through untouched.
type Middleware struct {
	name      string
	config    Config
	issuer    *TokenIssuer
	protected map[string]struct{}
	logger    types.Logger
}

// Compile-time interface checks
var _ mono.Module = (*Middleware)(nil)
var _ mono.MiddlewareModule = (*Middleware)(nil)

// forbiddenReply mirrors the catalog error body.
type forbiddenReply struct {
	Error forbiddenBody `json:"error"`
}

type forbiddenBody struct {
	Kind    product.Kind `json:"kind"`
	Message string       `json:"message"`
}

// New creates a new admin guard middleware.
func New(logger types.Logger, opts ...Option) (*Middleware, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Secret == "" {
		return nil, fmt.Errorf("admin guard requires a signing secret")
	}

	protected := make(map[string]struct{}, len(config.ProtectedServices))
	for _, name := range config.ProtectedServices {
		protected[name] = struct{}{}
	}

	return &Middleware{
		name:      "admin-guard",
		config:    config,
		issuer:    NewTokenIssuer(config),
		protected: protected,
		logger:    logger,
	}, nil
}

// Name returns the middleware name.
func (m *Middleware) Name() string {
	return m.name
}

// Issuer returns the token issuer sharing this middleware's configuration.
func (m *Middleware) Issuer() *TokenIssuer {
	return m.issuer
}

// Start implements mono.Module.
func (m *Middleware) Start(_ context.Context) error {
	m.logger.Info("Admin guard middleware started",
		"issuer", m.config.Issuer,
		"protected", m.config.ProtectedServices)
	return nil
}

// Stop implements mono.Module.
func (m *Middleware) Stop(_ context.Context) error {
	m.logger.Info("Admin guard middleware stopped")
	return nil
}

// OnModuleLifecycle passes through module lifecycle events unchanged.
func (m *Middleware) OnModuleLifecycle(
	_ context.Context,
	event types.ModuleLifecycleEvent,
) types.ModuleLifecycleEvent {
	return event
}

// OnServiceRegistration wraps protected request-reply handlers with the token check.
func (m *Middleware) OnServiceRegistration(
	_ context.Context,
	reg types.ServiceRegistration,
) types.ServiceRegistration {
	if reg.Type != types.ServiceTypeRequestReply || reg.RequestHandler == nil {
		return reg
	}
	if !m.isProtected(reg.Name) {
		return reg
	}

	serviceName := reg.Name
	original := reg.RequestHandler
	m.logger.Info("Guarding service with admin token", "service", serviceName)

	reg.RequestHandler = func(ctx context.Context, req *types.Msg) ([]byte, error) {
		claims, err := m.issuer.Validate(m.extractToken(req))
		if err != nil {
			m.logger.Warn("Admin request rejected",
				"service", serviceName,
				"reason", err.Error())
			return m.forbidden(err)
		}

		m.logger.Info("Admin request authorized",
			"service", serviceName,
			"subject", claims.Subject)
		return original(ctx, req)
	}

	return reg
}

// OnConfigurationChange passes through configuration changes unchanged.
func (m *Middleware) OnConfigurationChange(
	_ context.Context,
	event types.ConfigurationEvent,
) types.ConfigurationEvent {
	return event
}

// OnOutgoingMessage passes through outgoing messages unchanged.
func (m *Middleware) OnOutgoingMessage(
	octx types.OutgoingMessageContext,
) types.OutgoingMessageContext {
	return octx
}

// OnEventConsumerRegistration passes through event consumer registrations unchanged.
func (m *Middleware) OnEventConsumerRegistration(
	_ context.Context,
	entry types.EventConsumerEntry,
) types.EventConsumerEntry {
	return entry
}

// OnEventStreamConsumerRegistration passes through event stream consumer registrations unchanged.
func (m *Middleware) OnEventStreamConsumerRegistration(
	_ context.Context,
	entry types.EventStreamConsumerEntry,
) types.EventStreamConsumerEntry {
	return entry
}

// isProtected matches either the bare service name or a fully qualified one.
func (m *Middleware) isProtected(name string) bool {
	if _, ok := m.protected[name]; ok {
		return true
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		_, ok := m.protected[name[i+1:]]
		return ok
	}
	return false
}

// extractToken reads a bearer token from the configured header.
func (m *Middleware) extractToken(req *types.Msg) string {
	if req == nil || req.Header == nil {
		return ""
	}
	values, ok := req.Header[m.config.Header]
	if !ok || len(values) == 0 {
		return ""
	}
	value := strings.TrimSpace(values[0])
	if len(value) > 7 && strings.EqualFold(value[:7], "bearer ") {
		return strings.TrimSpace(value[7:])
	}
	return ""
}

// forbidden builds the reply body with a nil Go error, like the catalog handlers.
func (m *Middleware) forbidden(cause error) ([]byte, error) {
	body, err := json.Marshal(forbiddenReply{Error: forbiddenBody{
		Kind:    product.KindForbidden,
		Message: cause.Error(),
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal forbidden reply: %w", err)
	}
	return body, nil
}
