package listener

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"github.com/fekuna/omnipos-mrp-service/internal/auth"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-mrp-service/internal/model"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

type recordingUseCase struct {
	inputs []dto.AdjustStockInput
	users  []string
}

func (r *recordingUseCase) AdjustStock(ctx context.Context, in *dto.AdjustStockInput) (*model.Product, error) {
	r.inputs = append(r.inputs, *in)
	r.users = append(r.users, auth.GetUserID(ctx))
	return &model.Product{ProductCode: in.ProductCode, Quantity: in.Quantity}, nil
}

func (r *recordingUseCase) ListMovements(context.Context, *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return nil, 0, nil
}

// queueReader replays msgs, then closes drained and blocks until ctx ends.
type queueReader struct {
	msgs    []kafka.Message
	drained chan struct{}
	once    sync.Once
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(q.msgs) == 0 {
		q.once.Do(func() { close(q.drained) })
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := q.msgs[0]
	q.msgs = q.msgs[1:]
	return m, nil
}

func TestProcessMessageAppliesAdjustment(t *testing.T) {
	uc := &recordingUseCase{}
	l := NewAdjustmentListener(nil, uc, logger.NewFromZap(zaptest.NewLogger(t)))

	l.processMessage(context.Background(), []byte(`{"product_code":"RM1","quantity_change":-2.5,"reason":"scrap","reference_id":"ext-9"}`))

	if len(uc.inputs) != 1 {
		t.Fatalf("expected one adjustment, got %d", len(uc.inputs))
	}
	in := uc.inputs[0]
	if in.ProductCode != "RM1" || !in.Quantity.Equal(decimal.NewFromFloat(-2.5)) {
		t.Fatalf("unexpected input %+v", in)
	}
	if in.ReferenceType != "kafka" || in.ReferenceID != "ext-9" || in.Reason != "scrap" {
		t.Fatalf("unexpected reference %+v", in)
	}
	if uc.users[0] != listenerUserID {
		t.Fatalf("expected listener user, got %q", uc.users[0])
	}
}

func TestProcessMessageSkipsMalformedPayload(t *testing.T) {
	uc := &recordingUseCase{}
	l := NewAdjustmentListener(nil, uc, logger.NewFromZap(zaptest.NewLogger(t)))

	l.processMessage(context.Background(), []byte(`not json`))

	if len(uc.inputs) != 0 {
		t.Fatalf("malformed payload should be dropped")
	}
}

func TestStartStopsWithContext(t *testing.T) {
	uc := &recordingUseCase{}
	reader := &queueReader{
		msgs: []kafka.Message{
			{Value: []byte(`{"product_code":"A","quantity_change":1}`)},
			{Value: []byte(`{"product_code":"B","quantity_change":2}`)},
		},
		drained: make(chan struct{}),
	}
	l := NewAdjustmentListener(reader, uc, logger.NewFromZap(zaptest.NewLogger(t)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	select {
	case <-reader.drained:
	case <-time.After(2 * time.Second):
		t.Fatalf("listener did not consume both messages")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("listener did not stop after cancel")
	}
	if len(uc.inputs) != 2 || uc.inputs[1].ProductCode != "B" {
		t.Fatalf("unexpected adjustments %+v", uc.inputs)
	}
}
