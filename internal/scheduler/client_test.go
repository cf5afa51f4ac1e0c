package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type fakeSchedulerConfig struct {
	redisURL    string
	tlsInsecure bool
	queue       string
	concurrency int
}

func (f fakeSchedulerConfig) GetRedisURL() string       { return f.redisURL }
func (f fakeSchedulerConfig) GetRedisTLSInsecure() bool { return f.tlsInsecure }
func (f fakeSchedulerConfig) GetAsynqQueueName() string { return f.queue }
func (f fakeSchedulerConfig) GetAsynqConcurrency() int  { return f.concurrency }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(fakeSchedulerConfig{}); err == nil {
		t.Fatal("expected error when redis url is empty")
	}
}

func TestRedisClientOptParsesURL(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@localhost:6380/2", false)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.Addr != "localhost:6380" {
		t.Fatalf("expected addr localhost:6380, got %s", opt.Addr)
	}
	if opt.Password != "secret" {
		t.Fatalf("expected password to be parsed, got %q", opt.Password)
	}
	if opt.DB != 2 {
		t.Fatalf("expected db 2, got %d", opt.DB)
	}
	if opt.TLSConfig != nil {
		t.Fatal("expected no TLS config for redis:// URL")
	}
}

func TestRedisClientOptInsecureTLS(t *testing.T) {
	opt, err := redisClientOpt("rediss://localhost:6380", true)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected InsecureSkipVerify TLS config for rediss:// with insecure flag")
	}
}

func TestRedisClientOptRejectsBadURL(t *testing.T) {
	if _, err := redisClientOpt("localhost:6379", false); err == nil {
		t.Fatal("expected error for URL without scheme")
	}
}

func TestClientEnqueuesTasks(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(fakeSchedulerConfig{
		redisURL: "redis://" + srv.Addr(),
		queue:    "notifications",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	if err := client.EnqueueLeadConfirmation(ctx, LeadConfirmationPayload{LeadID: "3f1c1f53-6aa9-4f3a-9f55-0a2cf80c5f3e"}); err != nil {
		t.Fatalf("EnqueueLeadConfirmation: %v", err)
	}
	if err := client.EnqueueContractorAlerts(ctx, ContractorAlertsPayload{LeadID: "3f1c1f53-6aa9-4f3a-9f55-0a2cf80c5f3e", Price: 37.5}); err != nil {
		t.Fatalf("EnqueueContractorAlerts: %v", err)
	}

	if pending, err := srv.List("asynq:{notifications}:pending"); err != nil || len(pending) != 2 {
		t.Fatalf("expected 2 pending tasks in notifications queue, got %d (err=%v)", len(pending), err)
	}
}

func TestNilClientEnqueueIsNoop(t *testing.T) {
	var client *Client
	if err := client.EnqueueLeadConfirmation(context.Background(), LeadConfirmationPayload{}); err != nil {
		t.Fatalf("expected nil client enqueue to be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("expected nil client close to be a no-op, got %v", err)
	}
}
