package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockNLPChecker struct {
	err error
}

func (m *mockNLPChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name     string
		dbErr    error
		nlp      NLPChecker
		status   Status
		database CheckResult
		nlpCheck CheckResult
	}{
		{"all healthy", nil, &mockNLPChecker{}, Healthy, CheckOK, CheckOK},
		{"db error", down, &mockNLPChecker{}, Unhealthy, CheckError, CheckOK},
		{"nlp error", nil, &mockNLPChecker{err: down}, Degraded, CheckOK, CheckError},
		{"both fail", down, &mockNLPChecker{err: down}, Unhealthy, CheckError, CheckError},
		{"no nlp", nil, nil, Healthy, CheckOK, ""},
		{"no nlp, db error", down, nil, Unhealthy, CheckError, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(&mockDBPinger{err: tc.dbErr}, tc.nlp).Check(context.Background())

			if r.Status != tc.status {
				t.Errorf("expected %q, got %q", tc.status, r.Status)
			}
			if r.Checks["database"] != tc.database {
				t.Errorf("expected database %q, got %q", tc.database, r.Checks["database"])
			}
			got, ok := r.Checks["nlp"]
			if tc.nlpCheck == "" {
				if ok {
					t.Error("nlp check should be absent when nlp is nil")
				}
				return
			}
			if got != tc.nlpCheck {
				t.Errorf("expected nlp %q, got %q", tc.nlpCheck, got)
			}
		})
	}
}

type mockIndex struct {
	exists bool
	err    error
	name   string
}

func (m *mockIndex) IndexExists(_ context.Context, name string) (bool, error) {
	m.name = name
	return m.exists, m.err
}

func TestCheck_Index(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name   string
		dbErr  error
		index  *mockIndex
		status Status
		check  CheckResult
	}{
		{"index present", nil, &mockIndex{exists: true}, Healthy, CheckOK},
		{"index missing", nil, &mockIndex{}, Unhealthy, CheckError},
		{"index probe error", nil, &mockIndex{err: down}, Unhealthy, CheckError},
		{"db down skips index", down, &mockIndex{exists: true}, Unhealthy, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(&mockDBPinger{err: tc.dbErr}, nil).
				WithIndex(tc.index, "hoover-docs").
				Check(context.Background())

			if r.Status != tc.status {
				t.Errorf("expected %q, got %q", tc.status, r.Status)
			}
			if r.Checks["index"] != tc.check {
				t.Errorf("expected index %q, got %q", tc.check, r.Checks["index"])
			}
			if tc.check != "" && tc.index.name != "hoover-docs" {
				t.Errorf("probed index %q", tc.index.name)
			}
		})
	}
}
