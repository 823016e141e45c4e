package main

import (
	"reflect"
	"testing"
)

const id = "3c2d8a1e-4f0b-4b9e-9d57-0b1f6c2a7e41"

func TestIsItemID(t *testing.T) {
	if !isItemID(id) {
		t.Fatalf("valid uuid rejected")
	}
	for _, bad := range []string{"", "items", "3c2d8a1e", id + "x", "3c2d8a1e_4f0b_4b9e_9d57_0b1f6c2a7e41"} {
		if isItemID(bad) {
			t.Fatalf("accepted %q", bad)
		}
	}
}

func TestRewriteDirectItemLookupArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "bare id",
			in:   []string{"lostaf", id},
			want: []string{"lostaf", "items", "show", id},
		},
		{
			name: "id after persistent flags",
			in:   []string{"lostaf", "--server", "https://x", id},
			want: []string{"lostaf", "--server", "https://x", "items", "show", id},
		},
		{
			name: "subcommand untouched",
			in:   []string{"lostaf", "items", "list"},
			want: []string{"lostaf", "items", "list"},
		},
		{
			name: "id after double dash",
			in:   []string{"lostaf", "--", id},
			want: []string{"lostaf", "--", "items", "show", id},
		},
		{
			name: "no args",
			in:   []string{"lostaf"},
			want: []string{"lostaf"},
		},
	}
	for _, tc := range tests {
		if got := rewriteDirectItemLookupArgs(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
