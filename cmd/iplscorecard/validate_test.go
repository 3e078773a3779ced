package main

import "testing"

func TestParseMaxCount(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "5", want: 5},
		{raw: "100", want: 100},
		{raw: "0", wantErr: true},
		{raw: "500", want: 500},
		{raw: "-3", wantErr: true},
		{raw: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseMaxCount(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMaxCount(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMaxCount(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateBatchFlags(t *testing.T) {
	tests := []struct {
		name       string
		startAfter int
		failures   int
		wantErr    bool
	}{
		{name: "默认", startAfter: 0, failures: 3},
		{name: "指定起点", startAfter: 1798, failures: 3},
		{name: "负数起点", startAfter: -1, failures: 3, wantErr: true},
		{name: "阈值为0", failures: 0, wantErr: true},
		{name: "阈值过大", failures: 50, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateBatchFlags(tt.startAfter, tt.failures); (err != nil) != tt.wantErr {
				t.Errorf("ValidateBatchFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
