package queue

import (
    "context"
    "io"
    "log/slog"
    "net"
    "testing"
    "time"
)

func TestDialTimeoutFollowsDeadline(t *testing.T) {
    if got := dialTimeout(context.Background()); got != defaultDialTimeout {
        t.Fatalf("no deadline: got %s", got)
    }
    ctx, cancel := context.WithTimeout(context.Background(), time.Second)
    defer cancel()
    if got := dialTimeout(ctx); got <= 0 || got > time.Second {
        t.Fatalf("deadline 1s: got %s", got)
    }
}

func TestPublishGivesUpAtContextDeadline(t *testing.T) {
    // A listener that accepts but never speaks AMQP stalls the handshake.
    ln, err := net.Listen("tcp", "127.0.0.1:0")
    if err != nil {
        t.Fatal(err)
    }
    defer ln.Close()
    go func() {
        for {
            c, err := ln.Accept()
            if err != nil {
                return
            }
            defer c.Close()
        }
    }()

    p := NewPublisher("amqp://guest:guest@"+ln.Addr().String()+"/", slog.New(slog.NewTextHandler(io.Discard, nil)))
    ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
    defer cancel()

    start := time.Now()
    if err := p.PublishShowsAdded(ctx, ShowsAddedEvent{MovieID: "550"}); err == nil {
        t.Fatal("expected publish to fail")
    }
    if took := time.Since(start); took > 3*time.Second {
        t.Fatalf("publish blocked for %s", took)
    }
}
