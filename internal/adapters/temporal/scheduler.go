package temporaladapter

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/endikaluq/geolink/internal/workflows"
)

// Scheduler implements ports.ReportScheduler on a Temporal client. Each
// Notification-type record with an EventReportingAmount gets its own
// workflow run driving the periodic refreshes.
type Scheduler struct {
	client    client.Client
	taskQueue string
}

// NewScheduler wraps an existing Temporal client.
func NewScheduler(c client.Client, taskQueue string) *Scheduler {
	return &Scheduler{client: c, taskQueue: taskQueue}
}

// ScheduleReports starts the periodic reporting workflow for one record.
// The workflow ID is derived from the record sid so at most one reporting
// sequence runs per record.
func (s *Scheduler) ScheduleReports(ctx context.Context, accountSid, sid string, amount, intervalSeconds int) error {
	opts := client.StartWorkflowOptions{
		ID:        "geolocation-reports-" + sid,
		TaskQueue: s.taskQueue,
	}
	_, err := s.client.ExecuteWorkflow(ctx, opts, workflows.PeriodicReportWorkflow, workflows.ReportInput{
		AccountSid:      accountSid,
		Sid:             sid,
		Amount:          amount,
		IntervalSeconds: intervalSeconds,
	})
	if err != nil {
		return fmt.Errorf("start report workflow: %w", err)
	}
	return nil
}
