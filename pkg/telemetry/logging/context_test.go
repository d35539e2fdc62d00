package logging

import (
	"context"
	"testing"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if GetRunID(ctx) != "" || GetConfigFile(ctx) != "" {
		t.Error("empty context should carry no fields")
	}
	if fields := extractContextFields(ctx); len(fields) != 0 {
		t.Errorf("extractContextFields() = %v, want none", fields)
	}

	ctx = WithRunID(ctx, "run-42")
	ctx = WithConfigFile(ctx, "forms/orders.yaml")

	if got := GetRunID(ctx); got != "run-42" {
		t.Errorf("GetRunID() = %q", got)
	}
	if got := GetConfigFile(ctx); got != "forms/orders.yaml" {
		t.Errorf("GetConfigFile() = %q", got)
	}

	fields := extractContextFields(ctx)
	want := []any{"run_id", "run-42", "config_file", "forms/orders.yaml"}
	if len(fields) != len(want) {
		t.Fatalf("extractContextFields() = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d = %v, want %v", i, fields[i], want[i])
		}
	}
}
