package models

import (
	"encoding/json"
	"testing"
)

func TestJSONBMarshal(t *testing.T) {
	j := JSONB{
		"minPauseMs": 1500,
		"deterministic": true,
	}

	data, err := j.Value()
	if err != nil {
		t.Fatalf("failed to marshal JSONB: %v", err)
	}
	if data == nil {
		t.Fatal("expected non-nil data")
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data.([]byte), &result); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if result["deterministic"] != true {
		t.Errorf("expected deterministic=true, got %v", result["deterministic"])
	}
}

func TestJSONBScan(t *testing.T) {
	jsonData := []byte(`{"minPauseMs": 1500, "mergeThresholdMs": 500}`)

	var j JSONB
	if err := j.Scan(jsonData); err != nil {
		t.Fatalf("failed to scan: %v", err)
	}

	if j["minPauseMs"].(float64) != 1500 {
		t.Errorf("expected minPauseMs=1500, got %v", j["minPauseMs"])
	}
}

func TestJSONBScanNil(t *testing.T) {
	var j JSONB
	if err := j.Scan(nil); err != nil {
		t.Fatalf("failed to scan nil: %v", err)
	}
	if j != nil {
		t.Errorf("expected nil JSONB, got %v", j)
	}
}

func TestJobStatus(t *testing.T) {
	statuses := []JobStatus{
		JobStatusQueued,
		JobStatusPlanning,
		JobStatusRetiming,
		JobStatusSucceeded,
		JobStatusFailed,
	}

	for _, status := range statuses {
		if status == "" {
			t.Errorf("empty status found")
		}
	}
}

func TestAssetType(t *testing.T) {
	types := []AssetType{
		AssetTypeTranscript,
		AssetTypePlan,
		AssetTypeSRT,
		AssetTypeVTT,
	}

	for _, at := range types {
		if at == "" {
			t.Errorf("empty asset type found")
		}
	}
}
