package access

import (
	"sync"

	"code.helixprotocol.io/helix/logging"

	"github.com/pkg/errors"
)

var (
	ErrUnauthorized = errors.New("party lacks the required capability")
	ErrUnknownParty = errors.New("party holds no capability")
	ErrInvalidParty = errors.New("party identifier is empty")
	ErrCannotDemote = errors.New("the root party cannot be demoted")
)

// Capability is one of the authorization tiers consulted at every gated
// entry point. Tiers are strictly ordered, a higher tier implies every
// lower one.
type Capability int

const (
	// PublicCapability requires no grant at all.
	PublicCapability Capability = iota
	// OperatorCapability gates swap execution and funding rate updates.
	OperatorCapability
	// AdminCapability gates market creation, source management and
	// K-adjustment.
	AdminCapability
	// RootCapability gates interval and role configuration.
	RootCapability
)

var capabilityStrings = map[Capability]string{
	PublicCapability:   "public",
	OperatorCapability: "operator",
	AdminCapability:    "admin",
	RootCapability:     "root",
}

func (c Capability) String() string {
	s, ok := capabilityStrings[c]
	if !ok {
		return "unknown"
	}
	return s
}

// Policy is the capability set consulted by every engine entry point. It is
// a standalone object handed to the engines by composition, the engines
// never embed authorization logic themselves.
type Policy struct {
	log *logging.Logger
	Config

	mu     sync.RWMutex
	root   string
	grants map[string]Capability
}

// NewPolicy builds a policy with a single root party, which bootstraps
// every other grant.
func NewPolicy(log *logging.Logger, cfg Config, root string) *Policy {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Policy{
		log:    log,
		Config: cfg,
		root:   root,
		grants: map[string]Capability{
			root: RootCapability,
		},
	}
}

// ReloadConf updates the internal configuration of the policy.
func (p *Policy) ReloadConf(cfg Config) {
	p.log.Info("reloading configuration")
	if p.log.GetLevel() != cfg.Level.Get() {
		p.log.Info("updating log level",
			logging.String("old", p.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		p.log.SetLevel(cfg.Level.Get())
	}
	p.Config = cfg
}

// Check returns nil when the party holds the required capability, either
// directly or through a higher tier.
func (p *Policy) Check(party string, required Capability) error {
	if required == PublicCapability {
		return nil
	}
	p.mu.RLock()
	held, ok := p.grants[party]
	p.mu.RUnlock()
	if !ok {
		return ErrUnknownParty
	}
	if held < required {
		return ErrUnauthorized
	}
	return nil
}

// Grant assigns a capability tier to a party. Only the root tier can hand
// out grants.
func (p *Policy) Grant(caller, party string, c Capability) error {
	if err := p.Check(caller, RootCapability); err != nil {
		return err
	}
	if len(party) == 0 {
		return ErrInvalidParty
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if party == p.root && c < RootCapability {
		return ErrCannotDemote
	}
	p.grants[party] = c
	p.log.Info("capability granted",
		logging.String("party", party),
		logging.String("capability", c.String()),
	)
	return nil
}

// Revoke removes every capability held by a party.
func (p *Policy) Revoke(caller, party string) error {
	if err := p.Check(caller, RootCapability); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if party == p.root {
		return ErrCannotDemote
	}
	if _, ok := p.grants[party]; !ok {
		return ErrUnknownParty
	}
	delete(p.grants, party)
	p.log.Info("capability revoked", logging.String("party", party))
	return nil
}

// Holders returns the number of parties currently holding a grant.
func (p *Policy) Holders() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.grants)
}
