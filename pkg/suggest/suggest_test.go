// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package suggest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gavelrun/gavel/pkg/command"
)

func TestBest(t *testing.T) {
	commands := []string{"install", "uninstall", "update"}

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "close typo", input: "instll", want: "install", wantOK: true},
		{name: "prefix beats edit distance", input: "un", want: "uninstall", wantOK: true},
		{name: "substring match", input: "stall", want: "install", wantOK: true},
		{name: "exact name", input: "update", want: "update", wantOK: true},
		{name: "nothing close enough", input: "zzzzzz", wantOK: false},
		{name: "empty input", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Best(tt.input, commands)
			if ok != tt.wantOK {
				t.Fatalf("Best(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Best(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBestTieKeepsFirst(t *testing.T) {
	// Both candidates have the same prefix score; encounter order wins.
	got, ok := Best("re", []string{"restart", "reload"})
	if !ok || got != "restart" {
		t.Errorf("Best(re) = %q, %v, want restart kept by encounter order", got, ok)
	}
}

func TestCandidates(t *testing.T) {
	root := command.New("app", "")
	root.Command("install", "").Alias("i")
	remote := root.Command("remote", "")
	remote.Command("add", "")
	root.Command("debug-dump", "").Hidden()

	want := []string{"install", "i", "remote", "add", "debug-dump"}
	if diff := cmp.Diff(want, Candidates(root)); diff != "" {
		t.Errorf("Candidates mismatch (-want +got):\n%s", diff)
	}
}
