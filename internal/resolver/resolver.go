package resolver

import (
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-confgen/internal/inventory"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
	"github.com/nerrad567/gray-logic-confgen/internal/registry"
	"github.com/nerrad567/gray-logic-confgen/internal/secrets"
	"github.com/nerrad567/gray-logic-confgen/internal/template"
)

// Logger defines the logging interface used by the resolver.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Options configures a Resolver.
type Options struct {
	// Registries supplies the entity variants. Defaults to model.DefaultRegistries().
	Registries *model.Registries

	// Secrets resolves secret lookups. Defaults to an empty store, which
	// reports every requested secret as missing.
	Secrets *secrets.Store

	// Logger receives phase progress. Defaults to a no-op logger.
	Logger Logger
}

// Result is the outcome of a successful resolution.
type Result struct {
	Model          *model.Model
	MissingSecrets []string // unresolved secret keys in first-request order
	Templates      int      // number of templates in the library
}

// Err returns a *secrets.MissingError if any secret was unresolved.
func (r *Result) Err() error {
	if len(r.MissingSecrets) == 0 {
		return nil
	}
	return &secrets.MissingError{Keys: append([]string(nil), r.MissingSecrets...)}
}

// Resolver builds a model from raw documents. A Resolver is single-use.
type Resolver struct {
	regs    *model.Registries
	secrets *secrets.Store
	logger  Logger
	phase   Phase

	bridges     map[string]*model.Bridge
	bridgeOrder []*model.Bridge
	library     *template.Library
	locations   []*model.Location
	persons     []*model.Person
	model       *model.Model
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	r := &Resolver{
		regs:    opts.Registries,
		secrets: opts.Secrets,
		logger:  opts.Logger,
		bridges: make(map[string]*model.Bridge),
		library: template.NewLibrary(),
	}
	if r.regs == nil {
		r.regs = model.DefaultRegistries()
	}
	if r.secrets == nil {
		r.secrets = secrets.NewStore(nil)
	}
	if r.logger == nil {
		r.logger = noopLogger{}
	}
	return r
}

// Phase returns the last phase the resolver entered.
func (r *Resolver) Phase() Phase {
	return r.phase
}

// Resolve runs the four phases over docs, then checks that the resolved
// identifiers and thing uids are unique across the whole model.
//
// Returns:
//   - *Result: The resolved model and the unresolved secret keys
//   - error: *PhaseError wrapping a *model.ConfigurationError, *registry.Error
//     or *model.BuildError; ErrAlreadyResolved on reuse
func (r *Resolver) Resolve(docs *inventory.Documents) (*Result, error) {
	if r.phase != PhaseInit {
		return nil, ErrAlreadyResolved
	}

	phases := []struct {
		phase Phase
		run   func(*inventory.Documents) (int, error)
	}{
		{PhaseBridges, r.resolveBridges},
		{PhaseTemplates, r.resolveTemplates},
		{PhaseLocations, r.resolveLocations},
		{PhasePersons, r.resolvePersons},
		{PhaseValidate, r.checkUnique},
	}

	for _, p := range phases {
		r.phase = p.phase
		n, err := p.run(docs)
		if err != nil {
			return nil, &PhaseError{Phase: p.phase, Err: err}
		}
		r.logger.Debug("resolution phase complete", "phase", p.phase.String(), "count", n)
	}
	r.phase = PhaseDone

	res := &Result{
		Model:          r.model,
		MissingSecrets: r.secrets.Missing(),
		Templates:      r.library.Len(),
	}
	r.logger.Info("configuration resolved",
		"bridges", len(r.bridgeOrder),
		"templates", res.Templates,
		"locations", len(res.Model.AllLocations()),
		"persons", len(r.persons),
		"missing_secrets", len(res.MissingSecrets),
	)
	return res, nil
}

func (r *Resolver) resolveTemplates(docs *inventory.Documents) (int, error) {
	for _, e := range docs.Templates {
		if err := r.library.Add(e.Key, e.Doc); err != nil {
			return 0, err
		}
	}
	if err := r.library.Validate(); err != nil {
		return 0, err
	}
	return r.library.Len(), nil
}

// lookupSecrets resolves the declared secret names for one context.
func (r *Resolver) lookupSecrets(kind, name string, names []string, context ...string) (map[string]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(names))
	for _, s := range names {
		if s == "" || model.IsReservedPlaceholder(s) {
			return nil, model.NewConfigurationError(kind, name, "secrets",
				fmt.Errorf("%w: secret name %q is empty or reserved", model.ErrInvalidField, s))
		}
		segments := append(append([]string(nil), context...), s)
		out[s] = r.secrets.Get(segments...)
	}
	return out, nil
}

// renderAll renders every value of props with repl.
func renderAll(repl model.Replacements, props map[string]string) (map[string]string, error) {
	if len(props) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(props))
	for k, v := range props {
		rendered, err := repl.Render(v)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", k, err)
		}
		out[k] = rendered
	}
	return out, nil
}

// renderUID renders a thing uid pattern, rejecting self references.
func renderUID(repl model.Replacements, pattern string) (string, error) {
	if pattern == "" {
		pattern = model.DefaultThingUIDPattern
	}
	if model.References(pattern, model.PlaceholderThingUID) {
		return "", fmt.Errorf("%w: thinguid cannot reference {%s}", model.ErrInvalidField, model.PlaceholderThingUID)
	}
	return repl.Render(pattern)
}

// wrapConstruction passes registry errors through untouched and wraps every
// other constructor failure in a ConfigurationError.
func wrapConstruction(kind, name string, err error) error {
	var regErr *registry.Error
	if errors.As(err, &regErr) {
		return err
	}
	return model.NewConfigurationError(kind, name, "", err)
}
