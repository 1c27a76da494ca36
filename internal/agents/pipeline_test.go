package agents

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeLLM returns canned responses keyed by system role, with optional
// per-role failures and delays.
type fakeLLM struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	delays    map[string]time.Duration
	calls     []string
}

func (f *fakeLLM) Generate(ctx context.Context, systemRole, userContent string) (string, error) {
	if d, ok := f.delays[systemRole]; ok {
		time.Sleep(d)
	}
	f.mu.Lock()
	f.calls = append(f.calls, userContent)
	f.mu.Unlock()
	if err, ok := f.failures[systemRole]; ok {
		return "", err
	}
	return f.responses[systemRole], nil
}

func TestPipelineJoinsAnalysesInFixedOrder(t *testing.T) {
	llm := &fakeLLM{
		responses: map[string]string{
			TrendRole:   "uptrend toward 290",
			VolumeRole:  "buyers dominate",
			PlannerRole: "long from 285, stop 282",
		},
		// Trend finishes after volume; join order must not change.
		delays: map[string]time.Duration{TrendRole: 20 * time.Millisecond},
	}
	pipeline := NewPipeline(llm, zerolog.Nop())

	plan, err := pipeline.GeneratePlan(context.Background(), "csv data")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if plan != "long from 285, stop 282" {
		t.Errorf("plan = %q", plan)
	}

	// The planner input concatenates trend first, then volume.
	var plannerInput string
	for _, call := range llm.calls {
		if strings.Contains(call, "uptrend") || strings.Contains(call, "buyers") {
			plannerInput = call
		}
	}
	want := "uptrend toward 290\nbuyers dominate"
	if plannerInput != want {
		t.Errorf("planner input = %q, want %q", plannerInput, want)
	}
}

func TestPipelineStageFailureDegradesToEmpty(t *testing.T) {
	llm := &fakeLLM{
		responses: map[string]string{
			VolumeRole:  "volume thin",
			PlannerRole: "stay flat",
		},
		failures: map[string]error{TrendRole: errors.New("quota exceeded")},
	}
	pipeline := NewPipeline(llm, zerolog.Nop())

	plan, err := pipeline.GeneratePlan(context.Background(), "csv data")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if plan != "stay flat" {
		t.Errorf("plan = %q", plan)
	}

	var plannerInput string
	for _, call := range llm.calls {
		if strings.Contains(call, "volume thin") {
			plannerInput = call
		}
	}
	if plannerInput != "\nvolume thin" {
		t.Errorf("planner input = %q, want failed trend replaced by empty string", plannerInput)
	}
}

func TestPipelineRunsPlannerWhenAllAnalysesFail(t *testing.T) {
	llm := &fakeLLM{
		responses: map[string]string{PlannerRole: "нет данных для анализа"},
		failures: map[string]error{
			TrendRole:  errors.New("timeout"),
			VolumeRole: errors.New("timeout"),
		},
	}
	pipeline := NewPipeline(llm, zerolog.Nop())

	plan, err := pipeline.GeneratePlan(context.Background(), "csv data")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// Planning still runs over empty analyses rather than short-circuiting.
	if plan != "нет данных для анализа" {
		t.Errorf("plan = %q", plan)
	}
}

func TestPipelinePlannerFailureReturnsEmptyPlan(t *testing.T) {
	llm := &fakeLLM{
		responses: map[string]string{
			TrendRole:  "trend",
			VolumeRole: "volume",
		},
		failures: map[string]error{PlannerRole: errors.New("malformed response")},
	}
	pipeline := NewPipeline(llm, zerolog.Nop())

	plan, err := pipeline.GeneratePlan(context.Background(), "csv data")
	if err == nil {
		t.Fatal("expected degradation error from planner stage")
	}
	if plan != "" {
		t.Errorf("plan = %q, want empty", plan)
	}
}
