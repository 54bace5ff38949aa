// Package bootstrap builds the pipeline components shared by the API server
// and the CLI from one Config.
package bootstrap

import (
	"log/slog"
	"strings"

	"github.com/outreachd/outreach/internal/config"
	"github.com/outreachd/outreach/internal/infra/integration/apollo"
	"github.com/outreachd/outreach/internal/infra/integration/hunter"
	"github.com/outreachd/outreach/internal/infra/llm"
	"github.com/outreachd/outreach/internal/infra/mail"
	"github.com/outreachd/outreach/internal/usecase"
)

// NewGenerator wires the configured model. When the model cannot be built
// the generator still works and every message uses the fallback.
func NewGenerator(cfg config.Config, logger *slog.Logger, observer usecase.Observer) *usecase.ContentGenerator {
	var provider usecase.ContentProvider

	client, err := llm.NewClient(llm.Config{
		Provider:        cfg.LLMProvider,
		Model:           cfg.LLMModel,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		OllamaHost:      cfg.OllamaHost,
	})
	if err != nil {
		logger.Warn("⚠️ [BOOT] content provider unavailable, using fallback messages", "error", err)
	} else {
		provider = client
		logger.Info("[BOOT] content provider ready", "provider", cfg.LLMProvider, "model", client.Model())
	}

	opts := []usecase.GeneratorOption{
		usecase.WithTemperature(cfg.LLMTemperature),
		usecase.WithGeneratorObserver(observer),
	}
	// The relay login doubles as the signing address when it is one.
	if usecase.IsValidEmail(cfg.SMTPUser) {
		opts = append(opts, usecase.WithSenderAddress(cfg.SMTPUser))
	}
	return usecase.NewContentGenerator(provider, logger, opts...)
}

// NewDelivery returns nil when SMTP is not configured.
func NewDelivery(cfg config.Config) usecase.DeliveryChannel {
	if cfg.SMTPHost == "" {
		return nil
	}
	return mail.NewSMTPChannel(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
}

func NewPacer(cfg config.Config) usecase.Pacer {
	return usecase.NewRandomPacer(cfg.EmailDelayMin(), cfg.EmailDelayMax())
}

// Enrichment is the provider chain plus the Hunter client for account
// lookups. Hunter is nil when its key is missing.
type Enrichment struct {
	Chain  *usecase.EnrichmentChain
	Hunter *hunter.Client
}

// NewEnrichment orders providers by ENRICHMENT_PROVIDERS. Unknown names are
// logged and skipped.
func NewEnrichment(cfg config.Config, logger *slog.Logger, observer usecase.Observer) Enrichment {
	var (
		providers    []usecase.Provider
		hunterClient *hunter.Client
	)

	for _, name := range cfg.EnrichmentProviders {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case apollo.ProviderName:
			providers = append(providers, apollo.NewProvider(apollo.NewClient(cfg.ApolloAPIKey, "", logger)))
		case hunter.ProviderName:
			client := hunter.NewClient(cfg.HunterAPIKey, "", logger)
			if cfg.HunterAPIKey != "" {
				hunterClient = client
			}
			providers = append(providers, hunter.NewProvider(client))
		case "":
		default:
			logger.Warn("⚠️ [BOOT] unknown enrichment provider", "name", name)
		}
	}

	chain := usecase.NewEnrichmentChain(providers, cfg.ProviderTimeout, logger)
	if observer != nil {
		chain.Observer = observer
	}
	logger.Info("[BOOT] enrichment chain ready", "providers", chain.ProviderNames())

	return Enrichment{Chain: chain, Hunter: hunterClient}
}

// ConfigureRunner applies the run limits and pacing from cfg.
func ConfigureRunner(uc *usecase.RunCampaignUseCase, cfg config.Config, observer usecase.Observer) {
	uc.Pacer = NewPacer(cfg)
	uc.MaxPerRun = cfg.MaxEmailsPerRun
	if observer != nil {
		uc.Observer = observer
	}
}
