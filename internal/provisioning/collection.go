package provisioning

import (
	"context"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
	"github.com/lakeforge/lakeforge/internal/platform/purview"
)

// CollectionStep ensures the Purview collection exists under its configured
// parent. It is independent of the Fabric side and runs concurrently with
// the capacity step.
type CollectionStep struct {
	Purview PurviewService

	CollectionName string
	FriendlyName   string
	Parent         string
}

func (s *CollectionStep) Name() string           { return StepCollection }
func (s *CollectionStep) Dependencies() []string { return nil }

func (s *CollectionStep) Execute(ctx context.Context, run *orchestrator.Run) (*orchestrator.Result, error) {
	collection, existing, err := orchestrator.Ensure(ctx,
		func(ctx context.Context) (*purview.Collection, error) {
			return s.Purview.GetCollection(ctx, s.CollectionName)
		},
		func(ctx context.Context) (*purview.Collection, error) {
			return s.Purview.CreateCollection(ctx, s.CollectionName, s.FriendlyName, s.Parent)
		},
	)
	if err != nil {
		return nil, err
	}

	return &orchestrator.Result{
		Outputs:  orchestrator.Outputs{OutputName: collection.Name},
		Existing: existing,
	}, nil
}
