package jobcontext

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBeginCarriesJobMetadata(t *testing.T) {
	jobID := uuid.New()
	ctx, cancel := Begin(context.Background(), jobID, "transcription", 3, time.Minute)
	defer cancel()

	if got, ok := GetJobID(ctx); !ok || got != jobID {
		t.Errorf("GetJobID() = %v, %v, want %v, true", got, ok, jobID)
	}
	if got, ok := GetJobType(ctx); !ok || got != "transcription" {
		t.Errorf("GetJobType() = %q, %v, want transcription, true", got, ok)
	}
	if got := GetWorkerID(ctx); got != 3 {
		t.Errorf("GetWorkerID() = %d, want 3", got)
	}
	if got := GetRetryAttempt(ctx); got != 0 {
		t.Errorf("GetRetryAttempt() = %d, want 0", got)
	}
	if _, ok := GetJobStartTime(ctx); !ok {
		t.Error("GetJobStartTime() missing")
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected a deadline on the job context")
	}
}

func TestBeginDefaultsTimeout(t *testing.T) {
	ctx, cancel := Begin(context.Background(), uuid.New(), "summary", 0, 0)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline on the job context")
	}
	if remaining := time.Until(deadline); remaining < 4*time.Minute || remaining > 5*time.Minute {
		t.Errorf("default timeout = %v, want ~5m", remaining)
	}
}

func TestGettersOnBareContext(t *testing.T) {
	ctx := context.Background()

	if _, ok := GetJobID(ctx); ok {
		t.Error("GetJobID() must report absence on a bare context")
	}
	if got := GetWorkerID(ctx); got != -1 {
		t.Errorf("GetWorkerID() = %d, want -1", got)
	}
	if got := GetRetryAttempt(ctx); got != 0 {
		t.Errorf("GetRetryAttempt() = %d, want 0", got)
	}
}

func TestSetRetryAttempt(t *testing.T) {
	ctx, cancel := Begin(context.Background(), uuid.New(), "summary", 1, time.Minute)
	defer cancel()

	ctx = SetRetryAttempt(ctx, 2)
	if got := GetRetryAttempt(ctx); got != 2 {
		t.Errorf("GetRetryAttempt() = %d, want 2", got)
	}
}

func TestGetJobMetadata(t *testing.T) {
	jobID := uuid.New()
	ctx, cancel := Begin(context.Background(), jobID, "summary", 7, time.Minute)
	defer cancel()
	ctx = SetRetryAttempt(ctx, 1)

	meta := GetJobMetadata(ctx)
	if meta.JobID != jobID {
		t.Errorf("JobID = %v, want %v", meta.JobID, jobID)
	}
	if meta.JobType != "summary" {
		t.Errorf("JobType = %q, want summary", meta.JobType)
	}
	if meta.WorkerID != 7 {
		t.Errorf("WorkerID = %d, want 7", meta.WorkerID)
	}
	if meta.RetryAttempt != 1 {
		t.Errorf("RetryAttempt = %d, want 1", meta.RetryAttempt)
	}
	if meta.StartTime.IsZero() {
		t.Error("StartTime not recorded")
	}
}

func TestRunExecutesFunc(t *testing.T) {
	ctx, cancel := Begin(context.Background(), uuid.New(), "transcription", 0, time.Minute)
	defer cancel()

	called := false
	err := Run(ctx, func(context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !called {
		t.Error("job func not called")
	}
}

func TestRunReturnsJobError(t *testing.T) {
	wantErr := errors.New("provider unavailable")
	err := Run(context.Background(), func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Run() = %v, want %v", err, wantErr)
	}
}

func TestRunRecoversPanicWithJobIdentity(t *testing.T) {
	jobID := uuid.New()
	ctx, cancel := Begin(context.Background(), jobID, "summary", 2, time.Minute)
	defer cancel()

	err := Run(ctx, func(context.Context) error {
		panic("nil transcript")
	})
	if err == nil {
		t.Fatal("expected recovered panic as error")
	}
	if !strings.Contains(err.Error(), jobID.String()) {
		t.Errorf("panic error %q does not identify the job", err)
	}
	if !strings.Contains(err.Error(), "worker 2") {
		t.Errorf("panic error %q does not identify the worker", err)
	}
}

func TestRunSkipsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := Run(ctx, func(context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if called {
		t.Error("job func must not run after cancellation")
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout", errors.New("context deadline exceeded"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"deadlock", errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{"rate limit", errors.New("429 Too Many Requests"), true},
		{"server error", errors.New("unexpected status 503 Service Unavailable"), true},
		{"temporary", errors.New("temporary failure in name resolution"), true},
		{"bad request", errors.New("400 Bad Request"), false},
		{"missing input", errors.New("no transcript stored for meeting"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
