package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/gray-logic-confgen/internal/identifier"
	"github.com/nerrad567/gray-logic-confgen/internal/model"
)

// Domain-specific errors for the generator.
var (
	// ErrDuplicateArtifact is returned when two units emit the same path.
	ErrDuplicateArtifact = errors.New("generator: duplicate artifact path")

	// ErrInvalidArtifactPath is returned for absolute or escaping paths.
	ErrInvalidArtifactPath = errors.New("generator: invalid artifact path")
)

// Artifact is one generated file, addressed relative to the output directory.
type Artifact struct {
	Path    string
	Content []byte
}

// Input is what every unit receives.
type Input struct {
	Name  string       // site name, used in file names and titles
	Model *model.Model // resolved, read-only
}

// BaseName returns the file-name-safe form of the site name.
func (in *Input) BaseName() string {
	base := strings.ToLower(identifier.Derive(in.Name))
	if base == "" {
		return "home"
	}
	return base
}

// Unit produces artifacts from the model. Units must not mutate the model.
type Unit interface {
	Name() string
	Generate(ctx context.Context, in *Input) ([]Artifact, error)
}

// Stage groups units that may run concurrently.
type Stage struct {
	Name  string
	Units []Unit
}

// Pipeline runs stages in order.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline from stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// DefaultPipeline returns the built-in things, items and sitemap stages.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		Stage{Name: "things", Units: []Unit{ThingsUnit{}}},
		Stage{Name: "items", Units: []Unit{ItemsUnit{}}},
		Stage{Name: "sitemaps", Units: []Unit{SitemapUnit{}}},
	)
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run executes every stage. The first unit error cancels the stage and is returned.
func (p *Pipeline) Run(ctx context.Context, in *Input) ([]Artifact, error) {
	var all []Artifact
	seen := make(map[string]string)

	for _, stage := range p.stages {
		results := make([][]Artifact, len(stage.Units))
		g, gctx := errgroup.WithContext(ctx)
		for i, unit := range stage.Units {
			i, unit := i, unit
			g.Go(func() error {
				arts, err := unit.Generate(gctx, in)
				if err != nil {
					return fmt.Errorf("stage %s: unit %s: %w", stage.Name, unit.Name(), err)
				}
				results[i] = arts
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for i, arts := range results {
			for _, a := range arts {
				if err := validatePath(a.Path); err != nil {
					return nil, err
				}
				if prev, dup := seen[a.Path]; dup {
					return nil, fmt.Errorf("%w: %s from %s and %s", ErrDuplicateArtifact, a.Path, prev, stage.Units[i].Name())
				}
				seen[a.Path] = stage.Units[i].Name()
				all = append(all, a)
			}
		}
	}
	return all, nil
}
