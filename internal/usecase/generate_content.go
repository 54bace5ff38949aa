package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/outreachd/outreach/internal/entity"
)

const (
	DefaultTemperature       = 0.7
	DefaultGenerationTimeout = 60 * time.Second
)

var errMalformedGeneration = errors.New("malformed generation output")

// GenerationOutcome always carries a usable result. FellBack is set when the
// provider could not be used and Cause says why.
type GenerationOutcome struct {
	Result   entity.GenerationResult
	FellBack bool
	Cause    error
}

type ContentGenerator struct {
	provider      ContentProvider
	temperature   float64
	timeout       time.Duration
	senderAddress string
	logger        *slog.Logger
	observer      Observer
}

type GeneratorOption func(*ContentGenerator)

func WithTemperature(t float64) GeneratorOption {
	return func(g *ContentGenerator) { g.temperature = t }
}

func WithGenerationTimeout(d time.Duration) GeneratorOption {
	return func(g *ContentGenerator) { g.timeout = d }
}

// WithSenderAddress sets the address that signs messages when the sender
// profile is missing or has no email.
func WithSenderAddress(email string) GeneratorOption {
	return func(g *ContentGenerator) { g.senderAddress = strings.TrimSpace(email) }
}

func WithGeneratorObserver(o Observer) GeneratorOption {
	return func(g *ContentGenerator) { g.observer = observerOrNoop(o) }
}

func NewContentGenerator(provider ContentProvider, logger *slog.Logger, opts ...GeneratorOption) *ContentGenerator {
	g := &ContentGenerator{
		provider:    provider,
		temperature: DefaultTemperature,
		timeout:     DefaultGenerationTimeout,
		logger:      loggerOrDefault(logger),
		observer:    noopObserver{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate never fails: any provider or parsing problem yields the
// deterministic fallback message.
func (g *ContentGenerator) Generate(ctx context.Context, c *entity.Contact, p *entity.SenderProfile, t *entity.Template) GenerationOutcome {
	if c == nil {
		c = &entity.Contact{}
	}
	p = g.withSenderAddress(p)

	subject, body, err := g.generate(ctx, c, p, t)
	if err != nil {
		g.logger.Warn("[GENERATOR] falling back to local template",
			"email", c.Email, "company", c.Company, "error", err)
		g.observer.GenerationFellBack()
		return GenerationOutcome{
			Result:   FallbackMessage(c, p),
			FellBack: true,
			Cause:    err,
		}
	}

	return GenerationOutcome{
		Result: entity.GenerationResult{
			Subject: subject,
			Body:    body + "\n\n" + BuildSignature(p),
		},
	}
}

func (g *ContentGenerator) withSenderAddress(p *entity.SenderProfile) *entity.SenderProfile {
	if g.senderAddress == "" {
		return p
	}
	if p == nil {
		return &entity.SenderProfile{Email: g.senderAddress}
	}
	if strings.TrimSpace(p.Email) != "" {
		return p
	}
	filled := *p
	filled.Email = g.senderAddress
	return &filled
}

func (g *ContentGenerator) generate(ctx context.Context, c *entity.Contact, p *entity.SenderProfile, t *entity.Template) (subject, body string, err error) {
	if g.provider == nil {
		return "", "", ErrNoContentProvider
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("content provider panicked: %v", r)
		}
	}()

	systemPrompt, userPrompt := RenderTemplate(t, c, p)

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, err := g.provider.Complete(callCtx, systemPrompt, userPrompt, g.temperature)
	if err != nil {
		return "", "", fmt.Errorf("content provider: %w", err)
	}
	return ParseGeneration(raw)
}

// ParseGeneration extracts subject and body from the provider output. It
// accepts markdown code fences and a JSON array, using its first element.
func ParseGeneration(raw string) (string, string, error) {
	content := stripCodeFences(strings.TrimSpace(raw))
	if content == "" {
		return "", "", fmt.Errorf("%w: empty response", errMalformedGeneration)
	}

	var decoded any
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		return "", "", fmt.Errorf("%w: %v", errMalformedGeneration, err)
	}

	if list, ok := decoded.([]any); ok {
		if len(list) == 0 {
			return "", "", fmt.Errorf("%w: empty array", errMalformedGeneration)
		}
		decoded = list[0]
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return "", "", fmt.Errorf("%w: not an object", errMalformedGeneration)
	}

	subject, _ := obj["subject"].(string)
	body, _ := obj["body"].(string)
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" || body == "" {
		return "", "", fmt.Errorf("%w: subject and body are required", errMalformedGeneration)
	}
	return subject, body, nil
}

func stripCodeFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	parts := strings.Split(content, "```")
	if len(parts) < 2 {
		return ""
	}
	inner := strings.TrimSpace(parts[1])
	if strings.HasPrefix(strings.ToLower(inner), "json") {
		inner = inner[len("json"):]
	}
	return strings.TrimSpace(inner)
}

// FallbackMessage is built only from local data.
func FallbackMessage(c *entity.Contact, p *entity.SenderProfile) entity.GenerationResult {
	if p == nil {
		p = &entity.SenderProfile{}
	}
	company := companyOrDefault(c)

	var intro string
	if name := strings.TrimSpace(p.FullName); name != "" {
		intro = "I'm " + name
		if org := strings.TrimSpace(p.Organization); org != "" {
			intro += " from " + org
		}
		intro += ". "
	}

	body := fmt.Sprintf("Hi %s,\n\n%sI'm interested in %s and would love to learn more about your work as %s.\n\n%s",
		firstNameOrThere(c), intro, company, titleOrDefault(c), BuildSignature(p))

	return entity.GenerationResult{
		Subject: "Interest in " + company,
		Body:    body,
	}
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
