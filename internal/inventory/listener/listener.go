package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-mrp-service/internal/auth"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

const listenerUserID = "inventory-listener"

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// AdjustmentListener applies stock adjustments published by other services.
type AdjustmentListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewAdjustmentListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *AdjustmentListener {
	return &AdjustmentListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *AdjustmentListener) Start(ctx context.Context) {
	l.logger.Info("Starting inventory adjustment listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping inventory adjustment listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type AdjustmentMessage struct {
	ProductCode    string          `json:"product_code"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	Reason         string          `json:"reason"`
	ReferenceID    string          `json:"reference_id"`
}

func (l *AdjustmentListener) processMessage(ctx context.Context, value []byte) {
	var msg AdjustmentMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		l.logger.Error("Failed to unmarshal adjustment message", zap.Error(err))
		return
	}

	ctx = auth.WithUser(ctx, auth.UserContext{UserID: listenerUserID})
	_, err := l.uc.AdjustStock(ctx, &dto.AdjustStockInput{
		ProductCode:   msg.ProductCode,
		Quantity:      msg.QuantityChange,
		Reason:        msg.Reason,
		ReferenceType: "kafka",
		ReferenceID:   msg.ReferenceID,
	})
	if err != nil {
		l.logger.Error("Failed to apply stock adjustment",
			zap.String("product_code", msg.ProductCode),
			zap.String("reference_id", msg.ReferenceID),
			zap.Error(err),
		)
	}
}
