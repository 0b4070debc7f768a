package main

import (
	"bytes"
	"strings"
	"testing"
)

const orderJSON = `{
	"currency": "USD",
	"exchange_rate": "600",
	"bank_fees_source": "10",
	"shipping_fees_source": "20",
	"deliveries": [{
		"id": "6f1c2b8e-3f0a-4c47-9d5e-2a1b0c9d8e7f",
		"transport_type": "air",
		"weight_kg": "10",
		"rates": {"air_price_per_kg": "5000", "sea_price_per_cbm": "200000"},
		"shipping_fee_local": "50000"
	}],
	"lines": [{
		"product_name": "Phone cases",
		"quantity": 10,
		"unit_price_source": "2",
		"unit_weight_kg": "0.5"
	}]
}`

func TestRun_Report(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"report", "-locale", "en"}, strings.NewReader(orderJSON), &out)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"Phone cases", "5,500.00 F CFA", "55,000.00 F CFA", "Total cost price"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRun_ReportWithoutRate(t *testing.T) {
	input := strings.Replace(orderJSON, `"exchange_rate": "600"`, `"exchange_rate": null`, 1)

	var out bytes.Buffer
	if err := run([]string{"report", "-locale", "en"}, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "rate not set") {
		t.Errorf("expected undefined amounts to print as rate not set:\n%s", out.String())
	}
}

func TestRun_ReportJSON(t *testing.T) {
	input := strings.Replace(orderJSON, `"exchange_rate": "600"`, `"exchange_rate": null`, 1)

	var out bytes.Buffer
	if err := run([]string{"report", "-json"}, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), `"total_cost_price_local": null`) {
		t.Errorf("expected null total cost price:\n%s", out.String())
	}
}

func TestRun_Estimate(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "air",
			args: []string{"estimate", "-transport", "air", "-weight", "10", "-air-rate", "5000"},
			want: "50000.00",
		},
		{
			name: "sea not offered",
			args: []string{"estimate", "-transport", "sea", "-volume", "2"},
			want: "no fee (not_offered)",
		},
		{
			name: "weight missing",
			args: []string{"estimate", "-transport", "air", "-air-rate", "5000"},
			want: "no fee (measurement_missing)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(tt.args, nil, &out); err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", out.String(), tt.want)
			}
		})
	}
}

func TestRun_Usage(t *testing.T) {
	if err := run(nil, nil, &bytes.Buffer{}); err != errUsage {
		t.Errorf("run(nil) error = %v, want errUsage", err)
	}
	if err := run([]string{"bogus"}, nil, &bytes.Buffer{}); err != errUsage {
		t.Errorf("run(bogus) error = %v, want errUsage", err)
	}
	if err := run([]string{"estimate", "-weight", "abc"}, nil, &bytes.Buffer{}); err == nil {
		t.Error("expected an error for a malformed weight")
	}
}
