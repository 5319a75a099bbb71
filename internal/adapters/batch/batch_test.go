package batch

import (
	"errors"
	"testing"
	"time"

	"github.com/mgorshkov/bulk/internal/adapters/observability"
	"github.com/mgorshkov/bulk/internal/domain"
)

type recordStage struct {
	accepted []domain.Command
	err      error
}

func (r *recordStage) Accept(cmd domain.Command) error {
	r.accepted = append(r.accepted, cmd)
	return r.err
}

func (r *recordStage) StartBlock() error  { return nil }
func (r *recordStage) FinishBlock() error { return nil }

func cmd(text string, sec int64) domain.Command {
	return domain.Command{Text: text, Timestamp: time.Unix(sec, 0)}
}

func TestNewRejectsInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size, &recordStage{}, observability.NewNop()); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("size %d: expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestSizeFlushCount(t *testing.T) {
	next := &recordStage{}
	p, err := New(3, next, observability.NewNop())
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	texts := []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"}
	for i, text := range texts {
		if err := p.Accept(cmd(text, int64(i))); err != nil {
			t.Fatalf("accept %q: %v", text, err)
		}
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// ceil(7/3) flushes, last one carrying 7 mod 3 commands.
	if len(next.accepted) != 3 {
		t.Fatalf("expected 3 flushes, got %d", len(next.accepted))
	}
	if next.accepted[0].Text != "bulk: c1, c2, c3" {
		t.Fatalf("unexpected first flush: %q", next.accepted[0].Text)
	}
	if next.accepted[2].Text != "bulk: c7" {
		t.Fatalf("unexpected last flush: %q", next.accepted[2].Text)
	}
}

func TestFlushCarriesFirstTimestamp(t *testing.T) {
	next := &recordStage{}
	p, err := New(2, next, observability.NewNop())
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	if err := p.Accept(cmd("a", 100)); err != nil {
		t.Fatalf("accept a: %v", err)
	}
	if err := p.Accept(cmd("b", 200)); err != nil {
		t.Fatalf("accept b: %v", err)
	}

	if len(next.accepted) != 1 {
		t.Fatalf("expected 1 flush, got %d", len(next.accepted))
	}
	if !next.accepted[0].Timestamp.Equal(time.Unix(100, 0)) {
		t.Fatalf("expected first command's timestamp, got %v", next.accepted[0].Timestamp)
	}
}

func TestStartBlockFlushesBelowThreshold(t *testing.T) {
	next := &recordStage{}
	p, err := New(5, next, observability.NewNop())
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	if err := p.Accept(cmd("x", 1)); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := p.StartBlock(); err != nil {
		t.Fatalf("start block: %v", err)
	}

	if len(next.accepted) != 1 || next.accepted[0].Text != "bulk: x" {
		t.Fatalf("expected forced flush of %q, got %+v", "bulk: x", next.accepted)
	}
}

func TestNoSizeFlushInsideBlock(t *testing.T) {
	next := &recordStage{}
	p, err := New(2, next, observability.NewNop())
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	if err := p.StartBlock(); err != nil {
		t.Fatalf("start block: %v", err)
	}
	for i, text := range []string{"a", "b", "c", "d", "e"} {
		if err := p.Accept(cmd(text, int64(i))); err != nil {
			t.Fatalf("accept %q: %v", text, err)
		}
	}
	if len(next.accepted) != 0 {
		t.Fatalf("expected no flush inside the block, got %d", len(next.accepted))
	}

	if err := p.FinishBlock(); err != nil {
		t.Fatalf("finish block: %v", err)
	}
	if len(next.accepted) != 1 || next.accepted[0].Text != "bulk: a, b, c, d, e" {
		t.Fatalf("expected single block flush, got %+v", next.accepted)
	}
}

func TestCloseFlushesPending(t *testing.T) {
	next := &recordStage{}
	p, err := New(3, next, observability.NewNop())
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	if err := p.Accept(cmd("d", 1)); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(next.accepted) != 1 || next.accepted[0].Text != "bulk: d" {
		t.Fatalf("expected close to flush %q, got %+v", "bulk: d", next.accepted)
	}
}

func TestCloseFlushesUnterminatedBlock(t *testing.T) {
	next := &recordStage{}
	p, err := New(10, next, observability.NewNop())
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	if err := p.StartBlock(); err != nil {
		t.Fatalf("start block: %v", err)
	}
	if err := p.Accept(cmd("orphan", 1)); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(next.accepted) != 1 || next.accepted[0].Text != "bulk: orphan" {
		t.Fatalf("expected unterminated block content to be flushed, got %+v", next.accepted)
	}
}

func TestEmptyFlushIsNoop(t *testing.T) {
	next := &recordStage{}
	p, err := New(3, next, observability.NewNop())
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	if err := p.StartBlock(); err != nil {
		t.Fatalf("start block: %v", err)
	}
	if err := p.FinishBlock(); err != nil {
		t.Fatalf("finish block: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(next.accepted) != 0 {
		t.Fatalf("expected no flushes, got %d", len(next.accepted))
	}
}

func TestForwardErrorClearsPending(t *testing.T) {
	next := &recordStage{err: errors.New("sink down")}
	p, err := New(2, next, observability.NewNop())
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	if err := p.Accept(cmd("a", 1)); err != nil {
		t.Fatalf("accept a: %v", err)
	}
	if err := p.Accept(cmd("b", 2)); err == nil {
		t.Fatalf("expected forward error to surface")
	}

	// Pending was cleared despite the failure; nothing is replayed.
	next.err = nil
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(next.accepted) != 1 {
		t.Fatalf("expected exactly the failed flush attempt, got %d", len(next.accepted))
	}
}

func TestNilDownstreamDropsSilently(t *testing.T) {
	p, err := New(1, nil, observability.NewNop())
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	if err := p.Accept(cmd("a", 1)); err != nil {
		t.Fatalf("accept with nil downstream: %v", err)
	}
}

func TestCustomSeparatorAndPrefix(t *testing.T) {
	next := &recordStage{}
	p, err := New(2, next, observability.NewNop(), WithSeparator("|"), WithPrefix("batch> "))
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	if err := p.Accept(cmd("a", 1)); err != nil {
		t.Fatalf("accept a: %v", err)
	}
	if err := p.Accept(cmd("b", 2)); err != nil {
		t.Fatalf("accept b: %v", err)
	}

	if len(next.accepted) != 1 || next.accepted[0].Text != "batch> a|b" {
		t.Fatalf("unexpected flush: %+v", next.accepted)
	}
}
