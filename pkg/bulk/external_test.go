package bulk

import (
	"errors"
	"testing"
	"time"
)

func TestFeederBatchesBySize(t *testing.T) {
	var received []Command
	f, err := NewFeeder(&FeederConfig{BatchSize: 2, Clock: tickClock(10)}, func(cmd Command) error {
		received = append(received, cmd)
		return nil
	})
	if err != nil {
		t.Fatalf("new feeder: %v", err)
	}

	if err := f.Publish("a"); err != nil {
		t.Fatalf("publish a: %v", err)
	}
	if err := f.Publish("b"); err != nil {
		t.Fatalf("publish b: %v", err)
	}

	if len(received) != 1 || received[0].Text != "bulk: a, b" {
		t.Fatalf("expected one batch, got %+v", received)
	}
	if !received[0].Timestamp.Equal(time.Unix(10, 0)) {
		t.Fatalf("expected first publish timestamp, got %v", received[0].Timestamp)
	}
}

func TestFeederHonorsBlocks(t *testing.T) {
	var received []Command
	f, err := NewFeeder(&FeederConfig{BatchSize: 5}, func(cmd Command) error {
		received = append(received, cmd)
		return nil
	})
	if err != nil {
		t.Fatalf("new feeder: %v", err)
	}

	for _, text := range []string{"x", "{", "y", "z", "}"} {
		if err := f.Publish(text); err != nil {
			t.Fatalf("publish %q: %v", text, err)
		}
	}

	if len(received) != 2 {
		t.Fatalf("expected two batches, got %+v", received)
	}
	if received[0].Text != "bulk: x" || received[1].Text != "bulk: y, z" {
		t.Fatalf("unexpected batches %+v", received)
	}
}

func TestFeederDisabledBlocks(t *testing.T) {
	var received []Command
	f, err := NewFeeder(&FeederConfig{BatchSize: 2, DisableBlocks: true}, func(cmd Command) error {
		received = append(received, cmd)
		return nil
	})
	if err != nil {
		t.Fatalf("new feeder: %v", err)
	}

	if err := f.Publish("{"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := f.Publish("a"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(received) != 1 || received[0].Text != "bulk: {, a" {
		t.Fatalf("expected delimiter treated as text, got %+v", received)
	}
}

func TestFeederCloseFlushesAndSeals(t *testing.T) {
	var received []Command
	f, err := NewFeeder(&FeederConfig{BatchSize: 10}, func(cmd Command) error {
		received = append(received, cmd)
		return nil
	})
	if err != nil {
		t.Fatalf("new feeder: %v", err)
	}

	if err := f.Publish("pending"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(received) != 1 || received[0].Text != "bulk: pending" {
		t.Fatalf("expected close to flush, got %+v", received)
	}

	if err := f.Publish("late"); !errors.Is(err, ErrFeederClosed) {
		t.Fatalf("expected ErrFeederClosed, got %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
}

func TestFeederValidation(t *testing.T) {
	if _, err := NewFeeder(nil, func(Command) error { return nil }); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if _, err := NewFeeder(&FeederConfig{BatchSize: 1}, nil); err == nil {
		t.Fatalf("expected error for nil sink")
	}
	if _, err := NewFeeder(&FeederConfig{BatchSize: 0}, func(Command) error { return nil }); !errors.Is(err, ErrInvalidBatchSize) {
		t.Fatalf("expected ErrInvalidBatchSize, got %v", err)
	}
}
