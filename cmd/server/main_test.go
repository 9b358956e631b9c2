package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/homeledger/internal/infrastructure/config"
	"github.com/iho/homeledger/internal/infrastructure/eventpublisher"
)

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreDriverMemory}

	st, err := openStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer st.close()

	assert.NotNil(t, st.txManager)
	assert.NotNil(t, st.accounts)
	assert.NotNil(t, st.rows)
	assert.Nil(t, st.retrier)
	assert.NoError(t, st.pinger.Ping(context.Background()))
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := openStore(context.Background(), &config.Config{StoreDriver: "sqlite"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestNewPublisher(t *testing.T) {
	t.Run("log publisher without brokers", func(t *testing.T) {
		p, closeFn := newPublisher(&config.Config{}, zerolog.Nop())
		assert.IsType(t, &eventpublisher.LogPublisher{}, p)
		assert.NoError(t, closeFn())
	})

	t.Run("kafka publisher with brokers", func(t *testing.T) {
		cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "homeledger.events"}
		p, closeFn := newPublisher(cfg, zerolog.Nop())
		assert.IsType(t, &eventpublisher.KafkaPublisher{}, p)
		assert.NoError(t, closeFn())
	})
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := &config.Config{
		StoreDriver:         config.StoreDriverMemory,
		HTTPPort:            "0",
		HTTPShutdownTimeout: time.Second,
		BalanceWindow:       100,
		DisplayCurrency:     "USD",
		OutboxBatchSize:     10,
		OutboxInterval:      10 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- run(ctx, cfg, zerolog.Nop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
