// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package validation

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	results := make(chan interface{}, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- GetValidator()
		}()
	}
	wg.Wait()
	close(results)

	first := GetValidator()
	for v := range results {
		if v != first {
			t.Fatal("GetValidator returned different instances")
		}
	}
}

func TestValidatePathParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		valid bool
	}{
		{"42", true},
		{"ars", true},
		{"match_2024-08-16", true},
		{"", false},
		{"1 OR 1=1", false},
		{"../etc", false},
		{"id;drop", false},
		{strings.Repeat("a", 64), true},
		{strings.Repeat("a", 65), false},
		{"é", false},
	}

	for _, tt := range tests {
		verr := ValidatePathParam("playerId", tt.value)
		if tt.valid && verr != nil {
			t.Errorf("ValidatePathParam(%q) unexpected error: %v", tt.value, verr)
		}
		if !tt.valid && verr == nil {
			t.Errorf("ValidatePathParam(%q) expected error", tt.value)
		}
	}
}

func TestValidatePathParam_ErrorNamesParam(t *testing.T) {
	t.Parallel()

	verr := ValidatePathParam("teamId", "bad id")
	if verr == nil {
		t.Fatal("expected error")
	}
	if len(verr.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %d", len(verr.Errors()))
	}
	if got := verr.Errors()[0]; got.Field() != "teamId" || got.Tag() != "pathid" {
		t.Errorf("error = %q/%q, want teamId/pathid", got.Field(), got.Tag())
	}
	if !strings.HasPrefix(verr.Error(), "teamId must be") {
		t.Errorf("Error() = %q", verr.Error())
	}
}

func TestLookupIPParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ip      string
		wantErr string
	}{
		{"81.2.69.142", ""},
		{"2001:db8::1", ""},
		{"", "IP is required"},
		{"not-an-ip", "IP must be a valid IP address"},
		{"300.1.1.1", "IP must be a valid IP address"},
	}

	for _, tt := range tests {
		verr := ValidateStruct(&LookupIPParam{IP: tt.ip})
		if tt.wantErr == "" {
			if verr != nil {
				t.Errorf("ip %q: unexpected error %v", tt.ip, verr)
			}
			continue
		}
		if verr == nil || verr.Error() != tt.wantErr {
			t.Errorf("ip %q: error = %v, want %q", tt.ip, verr, tt.wantErr)
		}
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	t.Parallel()

	type pool struct {
		Min    int           `validate:"min=0"`
		Max    int           `validate:"min=1,max=100"`
		Driver string        `validate:"oneof=postgres duckdb"`
		Wait   time.Duration `validate:"gt=0"`
	}

	verr := ValidateStruct(&pool{Min: -1, Max: 101, Driver: "mysql"})
	if verr == nil {
		t.Fatal("expected validation errors")
	}

	want := map[string]string{
		"Min":    "Min must be at least 0",
		"Max":    "Max must be at most 100",
		"Driver": "Driver must be one of: postgres duckdb",
		"Wait":   "Wait must be greater than 0",
	}
	if len(verr.Errors()) != len(want) {
		t.Fatalf("expected %d errors, got %d: %v", len(want), len(verr.Errors()), verr)
	}
	for _, e := range verr.Errors() {
		if msg := want[e.Field()]; msg != e.Error() {
			t.Errorf("%s: message = %q, want %q", e.Field(), e.Error(), msg)
		}
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("combined message = %q", verr.Error())
	}
}
