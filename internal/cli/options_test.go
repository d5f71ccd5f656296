// internal/cli/options_test.go
package cli

import (
	"testing"
	"time"

	"seqvault/internal/config"
)

func parse(t *testing.T, defaults config.File, argv ...string) (*CLI, string) {
	t.Helper()
	c := New(defaults)
	cmd, err := c.App.Parse(argv)
	if err != nil {
		t.Fatalf("Parse(%v): %v", argv, err)
	}
	return c, cmd
}

func TestEncodeDefaults(t *testing.T) {
	c, cmd := parse(t, config.File{}, "encode", "in.fasta", "out.svd", "out.svk")
	if cmd != CmdEncode {
		t.Fatalf("cmd = %q", cmd)
	}
	if c.Encode.Input != "in.fasta" || c.Encode.PayloadOut != "out.svd" || c.Encode.KeyOut != "out.svk" {
		t.Errorf("args = %q %q %q", c.Encode.Input, c.Encode.PayloadOut, c.Encode.KeyOut)
	}
	if c.Encode.SecurityLevel != 5 {
		t.Errorf("SecurityLevel = %d, want 5", c.Encode.SecurityLevel)
	}
	if c.Encode.ChunkSize != 10000 {
		t.Errorf("ChunkSize = %d, want 10000", c.Encode.ChunkSize)
	}
	if c.Encode.Strategy != "limb" {
		t.Errorf("Strategy = %q, want limb", c.Encode.Strategy)
	}
	if !c.Encode.Parallel {
		t.Error("Parallel default must be true")
	}
	if c.Encode.Threads != 0 || c.Encode.Seed != 0 {
		t.Errorf("Threads = %d, Seed = %d", c.Encode.Threads, c.Encode.Seed)
	}
}

func TestEncodeFlags(t *testing.T) {
	c, _ := parse(t, config.File{},
		"encode", "--security-level", "9", "--chunk-size", "512",
		"--strategy", "digitwise", "--no-parallel", "--threads", "3",
		"--seed", "77", "in", "p", "k")
	if c.Encode.SecurityLevel != 9 || c.Encode.ChunkSize != 512 {
		t.Errorf("parsed %d/%d", c.Encode.SecurityLevel, c.Encode.ChunkSize)
	}
	if c.Encode.Strategy != "digitwise" {
		t.Errorf("Strategy = %q", c.Encode.Strategy)
	}
	if c.Encode.Parallel {
		t.Error("--no-parallel must clear Parallel")
	}
	if c.Encode.Threads != 3 || c.Encode.Seed != 77 {
		t.Errorf("Threads = %d, Seed = %d", c.Encode.Threads, c.Encode.Seed)
	}
}

func TestDecodeDefaults(t *testing.T) {
	c, cmd := parse(t, config.File{}, "decode", "in.svd", "in.svk")
	if cmd != CmdDecode {
		t.Fatalf("cmd = %q", cmd)
	}
	if c.Decode.Output != "-" {
		t.Errorf("Output = %q, want -", c.Decode.Output)
	}
	if c.Decode.LineWidth != 60 {
		t.Errorf("LineWidth = %d, want 60", c.Decode.LineWidth)
	}
	if !c.Decode.Parallel {
		t.Error("Parallel default must be true")
	}
}

func TestDecodeExplicitOutput(t *testing.T) {
	c, _ := parse(t, config.File{}, "decode", "--line-width", "70", "in.svd", "in.svk", "out.fasta")
	if c.Decode.Output != "out.fasta" || c.Decode.LineWidth != 70 {
		t.Errorf("Output = %q, LineWidth = %d", c.Decode.Output, c.Decode.LineWidth)
	}
}

func TestInspect(t *testing.T) {
	c, cmd := parse(t, config.File{}, "inspect", "--json", "x.svd")
	if cmd != CmdInspect || c.Inspect.Path != "x.svd" || !c.Inspect.JSON {
		t.Errorf("cmd = %q, opts = %+v", cmd, c.Inspect)
	}
}

func TestVersionCommand(t *testing.T) {
	_, cmd := parse(t, config.File{}, "version")
	if cmd != CmdVersion {
		t.Fatalf("cmd = %q", cmd)
	}
}

func TestGlobalFlags(t *testing.T) {
	c, _ := parse(t, config.File{}, "--verbose", "--progress", "--timeout", "30s", "version")
	if !c.Verbose || !c.Progress {
		t.Errorf("Verbose = %v, Progress = %v", c.Verbose, c.Progress)
	}
	if c.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", c.Timeout)
	}
}

func TestConfigDefaultsApply(t *testing.T) {
	sec, chunk, threads, width := 8, 250, 2, 75
	progress := true
	defaults := config.File{
		SecurityLevel: &sec,
		ChunkSize:     &chunk,
		Strategy:      "digitwise",
		Threads:       &threads,
		LineWidth:     &width,
		Progress:      &progress,
	}

	c, _ := parse(t, defaults, "encode", "in", "p", "k")
	if c.Encode.SecurityLevel != 8 || c.Encode.ChunkSize != 250 || c.Encode.Threads != 2 {
		t.Errorf("config defaults not applied: %+v", c.Encode)
	}
	if c.Encode.Strategy != "digitwise" {
		t.Errorf("Strategy = %q", c.Encode.Strategy)
	}
	if !c.Progress {
		t.Error("config progress default not applied")
	}

	c, _ = parse(t, defaults, "decode", "in.svd", "in.svk")
	if c.Decode.LineWidth != 75 || c.Decode.Threads != 2 {
		t.Errorf("decode config defaults not applied: %+v", c.Decode)
	}
}

func TestFlagsBeatConfig(t *testing.T) {
	sec := 8
	c, _ := parse(t, config.File{SecurityLevel: &sec}, "encode", "--security-level", "2", "in", "p", "k")
	if c.Encode.SecurityLevel != 2 {
		t.Errorf("SecurityLevel = %d, explicit flag must win", c.Encode.SecurityLevel)
	}
}

func TestBadStrategyRejectedAtParse(t *testing.T) {
	c := New(config.File{})
	if _, err := c.App.Parse([]string{"encode", "--strategy", "base64", "in", "p", "k"}); err == nil {
		t.Fatal("unknown strategy must fail parse")
	}
}

func TestMissingArgsRejected(t *testing.T) {
	c := New(config.File{})
	if _, err := c.App.Parse([]string{"encode", "in.fasta"}); err == nil {
		t.Fatal("missing required args must fail parse")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		argv []string
		ok   bool
	}{
		{"encode ok", []string{"encode", "in", "p", "k"}, true},
		{"negative security", []string{"encode", "--security-level=-1", "in", "p", "k"}, false},
		{"zero chunk", []string{"encode", "--chunk-size=0", "in", "p", "k"}, false},
		{"negative threads", []string{"encode", "--threads=-2", "in", "p", "k"}, false},
		{"decode ok", []string{"decode", "in.svd", "in.svk"}, true},
		{"negative width", []string{"decode", "--line-width=-1", "in.svd", "in.svk"}, false},
		{"quiet and verbose", []string{"--quiet", "--verbose", "version"}, false},
		{"negative timeout", []string{"--timeout=-1s", "version"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(config.File{})
			cmd, err := c.App.Parse(tc.argv)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			err = c.Validate(cmd)
			if tc.ok && err != nil {
				t.Errorf("Validate = %v, want nil", err)
			}
			if !tc.ok && err == nil {
				t.Error("Validate = nil, want error")
			}
		})
	}
}

func TestConfigPathScan(t *testing.T) {
	cases := []struct {
		argv []string
		want string
	}{
		{[]string{"encode", "--config", "a.yaml", "in", "p", "k"}, "a.yaml"},
		{[]string{"--config=b.yaml", "decode", "p", "k"}, "b.yaml"},
		{[]string{"encode", "in", "p", "k"}, ""},
		{[]string{"--config"}, ""},
	}
	for _, tc := range cases {
		if got := ConfigPath(tc.argv); got != tc.want {
			t.Errorf("ConfigPath(%v) = %q, want %q", tc.argv, got, tc.want)
		}
	}
}

func TestWorkerCount(t *testing.T) {
	if WorkerCount(false, 8) != 1 {
		t.Error("serial run must use one worker")
	}
	if WorkerCount(true, 8) != 8 {
		t.Error("parallel run must honor thread count")
	}
	if WorkerCount(true, 0) != 0 {
		t.Error("zero threads passes through for CPU-count fallback")
	}
}
