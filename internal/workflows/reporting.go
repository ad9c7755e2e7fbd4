package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ReportInput drives one periodic deferred-location reporting sequence.
type ReportInput struct {
	AccountSid      string
	Sid             string
	Amount          int
	IntervalSeconds int
}

// PeriodicReportWorkflow re-mediates a Notification-type record on a fixed
// interval until the requested amount of reports has been produced, the
// record is deleted, or a report arrives flagged as the last one.
func PeriodicReportWorkflow(ctx workflow.Context, input ReportInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting periodic reporting", "sid", input.Sid, "amount", input.Amount)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 60 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	interval := time.Duration(input.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	for i := 0; i < input.Amount; i++ {
		if err := workflow.Sleep(ctx, interval); err != nil {
			return err
		}

		var outcome ReportOutcome
		err := workflow.ExecuteActivity(ctx, "RefreshGeolocation", input.AccountSid, input.Sid).Get(ctx, &outcome)
		if err != nil {
			logger.Warn("report refresh failed", "sid", input.Sid, "error", err)
			return err
		}
		if outcome.Gone {
			logger.Info("record deleted, stopping reports", "sid", input.Sid)
			return nil
		}
		if outcome.Last {
			logger.Info("last report delivered", "sid", input.Sid)
			return nil
		}

		// One final mark once the sequence is exhausted.
		if i == input.Amount-1 {
			_ = workflow.ExecuteActivity(ctx, "MarkLastResponse", input.AccountSid, input.Sid).Get(ctx, nil)
		}
	}

	logger.Info("periodic reporting complete", "sid", input.Sid)
	return nil
}
