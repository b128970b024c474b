package main

import "testing"

func TestProfileAddr(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		want   string
		wantOK bool
	}{
		{"unset", "", "", false},
		{"flag value", "1", "localhost:6060", true},
		{"address", "127.0.0.1:7070", "127.0.0.1:7070", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JDISASM_PROFILE", tt.env)
			got, ok := profileAddr()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("profileAddr() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
