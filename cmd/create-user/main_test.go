package main

import (
	"bufio"
	"strings"
	"testing"
)

func TestReadPatch(t *testing.T) {
	in := "Ana\nfemale\n\n62.5\n\nmoderate\nlose\n"
	pp, err := readPatch(bufio.NewReader(strings.NewReader(in)))
	if err != nil {
		t.Fatalf("readPatch: %v", err)
	}
	if *pp.Name != "Ana" || *pp.Sex != "female" || pp.Age != nil || *pp.WeightKG != 62.5 || pp.HeightCM != nil {
		t.Errorf("patch = %+v", pp)
	}
	if *pp.ActivityLevel != 1.55 || *pp.Goal != "lose" {
		t.Errorf("activity/goal = %v/%v", *pp.ActivityLevel, *pp.Goal)
	}
}

func TestReadPatch_Rejects(t *testing.T) {
	for _, in := range []string{"\n\nold\n", "\n\n\n\n\ncouch\n"} {
		if _, err := readPatch(bufio.NewReader(strings.NewReader(in))); err == nil {
			t.Errorf("input %q: expected error", in)
		}
	}
}
