package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"
	"go-payroll/internal/finance"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeRunCompleted settles outstanding loan and advance balances after a
// payroll run completes. Settlement keeps a ledger row per (run, record)
// installment, so redelivered messages skip what is already applied.
func ConsumeRunCompleted(
	ctx context.Context,
	reader *kafkago.Reader,
	settlement finance.SettlementService,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.run_completed")
	log.Info("payroll run completed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run completed consumer stopped")
				return
			}
			log.Error("fetch run completed message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunCompletedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode run completed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := settlement.SettleRun(ctx, event.CompanyID, event.RunID); err != nil {
			log.Error("settle run failed",
				zap.String("run_id", event.RunID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit run completed message failed", zap.Error(err))
			continue
		}

		log.Info("payroll run settled",
			zap.String("run_id", event.RunID),
			zap.String("company_id", event.CompanyID),
		)
	}
}
