package roslib

import (
	"strings"
	"testing"
)

func TestBuildTargetsShape(t *testing.T) {
	targets := BuildTargets("https://cdn.example.com/routeros", "6.51")

	// x86 carries the full catalog; other architectures only the
	// per-architecture templates.
	archCounts := make(map[Arch]int)
	for _, tg := range targets {
		archCounts[tg.Arch]++
	}
	if got := archCounts[ArchX86]; got != len(filePatterns) {
		t.Fatalf("expected %d x86 targets, got %d", len(filePatterns), got)
	}
	for _, arch := range Architectures {
		if arch == ArchX86 {
			continue
		}
		if got := archCounts[arch]; got != 4 {
			t.Fatalf("expected 4 targets for %s, got %d", arch, got)
		}
	}
}

func TestBuildTargetsSingleFileOnce(t *testing.T) {
	targets := BuildTargets("https://cdn.example.com/routeros", "7.16.2")
	counts := make(map[string]int)
	for _, tg := range targets {
		counts[tg.Filename]++
	}
	for _, single := range []string{"chr-7.16.2.img", "mikrotik-7.16.2.iso", "cd-7.16.2.iso", "CHANGELOG"} {
		if counts[single] != 1 {
			t.Fatalf("expected %s exactly once, got %d", single, counts[single])
		}
	}
}

func TestBuildTargetsSubstitution(t *testing.T) {
	targets := BuildTargets("https://cdn.example.com/routeros", "6.51")
	var found bool
	for _, tg := range targets {
		if strings.Contains(tg.Filename, "{") || strings.Contains(tg.URL, "{") {
			t.Fatalf("unsubstituted placeholder in %q / %q", tg.Filename, tg.URL)
		}
		if tg.Filename == "routeros-mipsbe-6.51.npk" {
			found = true
			if tg.Arch != ArchMIPSBE {
				t.Fatalf("expected mipsbe arch, got %s", tg.Arch)
			}
			if tg.URL != "https://cdn.example.com/routeros/6.51/routeros-mipsbe-6.51.npk" {
				t.Fatalf("unexpected URL %q", tg.URL)
			}
		}
	}
	if !found {
		t.Fatalf("expected routeros-mipsbe-6.51.npk in target list")
	}
}

func TestBuildTargetsDeterministic(t *testing.T) {
	a := BuildTargets("https://cdn.example.com/routeros", "6.51")
	b := BuildTargets("https://cdn.example.com/routeros", "6.51")
	if len(a) != len(b) {
		t.Fatalf("non-deterministic target count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("target %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
