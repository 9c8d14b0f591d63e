package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arrowc/internal/types"
	"arrowc/internal/vm"
)

const mainSrc = `function main(): long {
	const f = (a: int, b: int, c: long) => a + b + c
	return f(1, 2, 3)
}
`

const manifest = `[package]
name = "demo"
entry = "main.arrow"

[build]
cache = false
`

func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--color", "off", "--quiet"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseArg(t *testing.T) {
	cases := []struct {
		in   string
		kind vm.ValueKind
		num  types.Kind
		want string
	}{
		{"42", vm.VKInt, types.KindInt, "42"},
		{"-7", vm.VKInt, types.KindInt, "-7"},
		{"4294967296", vm.VKInt, types.KindLong, "4294967296"},
		{"1.5", vm.VKFloat, types.KindDouble, "1.5"},
		{"true", vm.VKBool, 0, "true"},
		{"hello", vm.VKString, 0, "hello"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v := parseArg(tc.in)
			if v.Kind != tc.kind || (tc.num != 0 && v.Num != tc.num) || v.String() != tc.want {
				t.Fatalf("parseArg(%q) = %v %v %q", tc.in, v.Kind, v.Num, v.String())
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]int{"none": -4, "error": -2, "": -1, "notice": 0, "INFO": 1, "debug": 2}
	for in, want := range cases {
		got, err := parseLogLevel(in)
		if err != nil || got != want {
			t.Fatalf("parseLogLevel(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	if _, err := parseLogLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestCheckJSON(t *testing.T) {
	newProject(t, map[string]string{"arrowc.toml": manifest, "main.arrow": mainSrc})
	out, err := execute(t, "check", "--format", "json")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	var docs []unitJSON
	if err := json.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(docs) != 1 || !docs[0].OK || len(docs[0].Closures) != 1 {
		t.Fatalf("docs = %+v", docs)
	}
	if got := docs[0].Closures[0].Contract; got != "Arrow3$IIJ$J" {
		t.Fatalf("contract = %s", got)
	}
}

func TestCheckFails(t *testing.T) {
	newProject(t, map[string]string{"arrowc.toml": manifest, "main.arrow": "function main( {"})
	if _, err := execute(t, "check", "--format", "short"); err == nil {
		t.Fatalf("expected failure")
	}
}

func TestRunEntry(t *testing.T) {
	newProject(t, map[string]string{"arrowc.toml": manifest, "main.arrow": mainSrc})
	out, err := execute(t, "run", "--format", "pretty")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(out) != "6" {
		t.Fatalf("output = %q", out)
	}
}
