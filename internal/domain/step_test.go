package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestLendingStepJSON_InfiniteHealthFactor(t *testing.T) {
	step := &LendingStep{Timestep: 3, HealthFactor: math.Inf(1)}

	data, err := json.Marshal(step)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"health_factor":null`) {
		t.Errorf("marshal = %s, want health_factor null", data)
	}

	var back LendingStep
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !math.IsInf(back.HealthFactor, 1) {
		t.Errorf("HealthFactor = %v, want +Inf", back.HealthFactor)
	}
	if back.Timestep != 3 {
		t.Errorf("Timestep = %d, want 3", back.Timestep)
	}
}

func TestLendingStepJSON_FiniteHealthFactor(t *testing.T) {
	data, err := json.Marshal(&LendingStep{HealthFactor: 1.5})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"health_factor":1.5`) {
		t.Errorf("marshal = %s, want health_factor 1.5", data)
	}

	var back LendingStep
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.HealthFactor != 1.5 {
		t.Errorf("HealthFactor = %v, want 1.5", back.HealthFactor)
	}
}
