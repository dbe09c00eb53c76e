package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/bindc/bind"
	"github.com/chazu/bindc/manifest"
)

func runBindgen(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_DryRunSprite(t *testing.T) {
	code, out, errOut := runBindgen(t, "-C", "../..", "-n", "-check", "./examples/sprite:Sprite")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{
		"sprite_bind.go\n",
		"// Code generated by bindgen. DO NOT EDIT.",
		"func RegisterSprite(table *vm.DispatchTable[Sprite])",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRun_ConfigFile(t *testing.T) {
	code, out, errOut := runBindgen(t, "-config", "../../bindgen.toml", "-n", "-naming", "camel")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, `vm.Intern("moveTo")`) {
		t.Error("naming override not applied")
	}
}

func TestRun_BrokenSite(t *testing.T) {
	code, _, errOut := runBindgen(t, "-C", "../..", "-n", "./gowrap/testdata/broken:Widget")
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(errOut, "Error binding ./gowrap/testdata/broken:Widget") {
		t.Errorf("stderr = %q", errOut)
	}
	if !strings.Contains(errOut, "binding errors:") {
		t.Errorf("expected every diagnostic to be listed:\n%s", errOut)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"-C", "../..", "-n", "./examples/sprite:Sprite"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "context canceled") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_UsageErrors(t *testing.T) {
	empty := t.TempDir()
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"-nope"}, "flag provided but not defined"},
		{"bad naming", []string{"-naming", "kebab", "x:T"}, "unknown naming style"},
		{"bad jobs", []string{"-j", "0", "x:T"}, "-j must be at least 1"},
		{"bad site", []string{"-C", empty, "nocolon"}, "want package:Type"},
		{"no sites", []string{"-C", empty}, "no bindgen.toml sites found"},
		{"missing config", []string{"-config", filepath.Join(empty, "none.toml")}, "Error loading configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runBindgen(t, tt.args...)
			if code != 2 {
				t.Errorf("exit %d, want 2", code)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr = %q, want %q", errOut, tt.want)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	set := &bind.BindingSet{
		Type: "Sprite",
		Functions: []bind.Function{{
			Name:      "hit",
			GoName:    "Hit",
			Method:    true,
			Receivers: []bind.Receiver{bind.SelfContext},
			Params:    []bind.Parameter{{Mode: bind.Convert, Type: "int"}, {Mode: bind.Direct, Type: "vm.Value"}},
			Return:    bind.Fallible,
			HasResult: true,
		}},
		Members: []bind.Member{{
			Name:   "x",
			Getter: &bind.Property{Name: "PosX", Method: true},
			Setter: &bind.Property{Name: "SetPosX", Method: true},
		}},
	}
	data, err := bind.MarshalSet(set)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sprite_bind.cbor")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runBindgen(t, "inspect", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{
		"Sprite: 1 functions, 1 members",
		"Hit(self, int, value) -> value, error",
		"get PosX, set SetPosX",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspect_Errors(t *testing.T) {
	if code, _, _ := runBindgen(t, "inspect"); code != 2 {
		t.Errorf("no files: exit %d, want 2", code)
	}

	garbage := filepath.Join(t.TempDir(), "bad.cbor")
	if err := os.WriteFile(garbage, []byte{0xff, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, errOut := runBindgen(t, "inspect", garbage, filepath.Join(t.TempDir(), "missing.cbor"))
	if code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	var errLines int
	for _, line := range strings.Split(errOut, "\n") {
		if strings.HasPrefix(line, "Error") {
			errLines++
		}
	}
	if errLines != 2 {
		t.Errorf("expected one error per file:\n%s", errOut)
	}
}

func TestPlan(t *testing.T) {
	m := &manifest.Manifest{
		Dir:      "/project",
		Generate: manifest.Generate{Naming: "camel", Suffix: "_bind.go"},
		Sites:    []manifest.Site{{Package: "./a", Type: "A", Output: "a_bind.go", Naming: "camel"}},
	}

	p, err := plan(m, ".", nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.dir != "/project" || len(p.sites) != 1 || p.sites[0].Type != "A" {
		t.Errorf("configured plan = %+v", p)
	}

	p, err = plan(m, "work", []string{"./b:B"})
	if err != nil {
		t.Fatal(err)
	}
	if p.dir != "work" || len(p.sites) != 1 || p.sites[0].Naming != "camel" || p.sites[0].Output != "b_bind.go" {
		t.Errorf("command-line plan = %+v", p)
	}

	p, err = plan(nil, ".", nil)
	if err != nil || len(p.sites) != 0 {
		t.Errorf("empty plan = %+v, %v", p, err)
	}
}

func TestDescriptorPath(t *testing.T) {
	if got := descriptorPath("/x/sprite_bind.go"); got != "/x/sprite_bind.cbor" {
		t.Errorf("descriptorPath = %q", got)
	}
}
