package llm

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"vitalis/internal/port"
)

// Tier identifies a model capability level within the provider.
type Tier int

const (
	TierPrimary Tier = iota
	TierSecondary
)

func (t Tier) String() string {
	if t == TierPrimary {
		return "primary"
	}
	return "secondary"
}

// circuitState tracks rate-limit backoff for the primary tier.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// OrchestratorConfig holds tier models and protection settings.
type OrchestratorConfig struct {
	PrimaryModel   string
	SecondaryModel string
	// MinInterval is the minimum spacing between any two outbound calls,
	// across tiers and across concurrent callers. The provider enforces
	// burst limits over all models combined. Default 1s.
	MinInterval time.Duration
	// Cooldown is how long the primary tier is skipped after a rate-limit
	// observation. Default 60s.
	Cooldown time.Duration
	Retry    RetryConfig
}

func (c OrchestratorConfig) withDefaults() OrchestratorConfig {
	if c.MinInterval <= 0 {
		c.MinInterval = time.Second
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 60 * time.Second
	}
	return c
}

// Orchestrator runs a unit of work preferentially against the primary model,
// substituting the secondary on failure while protecting the primary from
// being hammered once it is known to be exhausted. All breaker and pacing
// state lives on the instance; one shared Orchestrator gives process-wide
// protection, and tests construct isolated instances.
type Orchestrator struct {
	client  port.ModelClient
	cfg     OrchestratorConfig
	pace    *rate.Limiter
	breaker circuitState
	now     func() time.Time
}

// NewOrchestrator creates an Orchestrator around a provider client.
func NewOrchestrator(client port.ModelClient, cfg OrchestratorConfig) *Orchestrator {
	cfg = cfg.withDefaults()
	return &Orchestrator{
		client: client,
		cfg:    cfg,
		pace:   rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		now:    time.Now,
	}
}

// Invoke runs req against the primary tier, falling back to the secondary
// when the primary is cooling down or fails. It returns the response from
// whichever tier succeeded; a secondary failure is terminal.
func (o *Orchestrator) Invoke(ctx context.Context, req port.ModelRequest) (string, error) {
	if resetAt, open := o.breaker.isOpenWithReset(o.now()); open {
		log.Printf("llm.Orchestrator: %s tier cooling down until %s, calling %s", TierPrimary, resetAt.Format(time.RFC3339), TierSecondary)
		return o.invokeTier(ctx, TierSecondary, req)
	}

	out, err := o.invokeTier(ctx, TierPrimary, req)
	if err == nil {
		return out, nil
	}

	if IsRateLimited(err) {
		resetAt := o.now().Add(o.cfg.Cooldown)
		o.breaker.open(resetAt)
		log.Printf("llm.Orchestrator: %s tier rate limited, breaker armed until %s", TierPrimary, resetAt.Format(time.RFC3339))
	}
	log.Printf("llm.Orchestrator: %s tier failed (%v), falling back to %s", TierPrimary, err, TierSecondary)

	return o.invokeTier(ctx, TierSecondary, req)
}

// invokeTier issues the paced, retried call for one tier. Pacing applies per
// attempt: every outbound request waits for the global spacing slot.
func (o *Orchestrator) invokeTier(ctx context.Context, tier Tier, req port.ModelRequest) (string, error) {
	model := o.cfg.PrimaryModel
	if tier == TierSecondary {
		model = o.cfg.SecondaryModel
	}
	return Retry(ctx, o.cfg.Retry, func(ctx context.Context) (string, error) {
		if err := o.pace.Wait(ctx); err != nil {
			return "", err
		}
		return o.client.Invoke(ctx, model, req)
	})
}
