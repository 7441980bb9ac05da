// Package execution stores run lifecycle records. The engine touches a
// record at most twice: once to create it RUNNING and once to patch it to a
// terminal state. Concurrent runs of the same workflow are independent rows
// with no coordination between them.
package execution

import (
	"context"

	mexecution "github.com/runlet/runlet/model/execution"
	"github.com/runlet/runlet/service/dao"
	"github.com/runlet/runlet/service/dao/store"
)

// Service is an in-memory execution store.
type Service struct {
	*store.Memory[string, mexecution.Execution]
}

var _ dao.Service[string, mexecution.Execution] = (*Service)(nil)

// New creates an empty execution store.
func New() *Service {
	return &Service{
		Memory: store.NewMemory[string, mexecution.Execution](
			func(e *mexecution.Execution) string { return e.ID },
			func(e *mexecution.Execution) *mexecution.Execution { return e.Clone() },
		),
	}
}

// LookupByEvent returns the execution row created for (eventID, workflowID),
// or dao.ErrNotFound.
func (s *Service) LookupByEvent(ctx context.Context, eventID, workflowID string) (*mexecution.Execution, error) {
	if eventID == "" || workflowID == "" {
		return nil, dao.ErrInvalidID
	}
	return s.Find(ctx, func(e *mexecution.Execution) bool {
		return e.EventID == eventID && e.WorkflowID == workflowID
	})
}

// Patch loads the row addressed by (eventID, workflowID), applies the status
// patch and saves the result.
func (s *Service) Patch(ctx context.Context, eventID, workflowID string, patch func(*mexecution.Execution)) (*mexecution.Execution, error) {
	row, err := s.LookupByEvent(ctx, eventID, workflowID)
	if err != nil {
		return nil, err
	}
	patch(row)
	if err = s.Save(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}
