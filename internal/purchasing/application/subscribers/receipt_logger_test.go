package subscribers

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/purchasing/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptLogger_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	p, err := domain.NewPurchase(uuid.New(), time.Now(), nil, sharedDomain.ZeroMoney,
		[]domain.Line{{ProductID: uuid.New(), ProductName: "Bottle", Quantity: 2, UnitPrice: sharedDomain.MustParseMoney("4.50")}}, nil)
	require.NoError(t, err)
	envelope, err := eventbus.NewEnvelope(p.DomainEvents()[0])
	require.NoError(t, err)

	registry := eventbus.NewConsumerRegistry(logger)
	registry.Register(NewReceiptLogger(logger))
	require.NoError(t, registry.Dispatch(context.Background(), envelope))

	out := buf.String()
	assert.Contains(t, out, "purchase receipt")
	assert.Contains(t, out, p.ID().String())
	assert.Contains(t, out, "paid=9.00")
}

func TestReceiptLogger_BadPayload(t *testing.T) {
	err := NewReceiptLogger(nil).Handle(context.Background(), &eventbus.Envelope{
		RoutingKey: domain.RoutingKeyPurchaseCompleted,
		Payload:    []byte(`{"purchase_id":42}`),
	})
	assert.Error(t, err)
}
