// internal/cli/options.go
package cli

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"seqvault-core/seqcodec"

	"seqvault/internal/config"
	"seqvault/internal/version"
)

// Command names as returned by Parse.
const (
	CmdEncode  = "encode"
	CmdDecode  = "decode"
	CmdInspect = "inspect"
	CmdVersion = "version"
)

// Global holds flags shared by every command.
type Global struct {
	Verbose    bool
	Quiet      bool
	Progress   bool
	Timeout    time.Duration
	ConfigPath string
}

// EncodeOpts holds the encode command surface.
type EncodeOpts struct {
	Input         string
	PayloadOut    string
	KeyOut        string
	SecurityLevel int
	ChunkSize     int
	Strategy      string
	Parallel      bool
	Threads       int
	Seed          int64
}

// DecodeOpts holds the decode command surface.
type DecodeOpts struct {
	PayloadIn string
	KeyIn     string
	Output    string
	Parallel  bool
	Threads   int
	LineWidth int
}

// InspectOpts holds the inspect command surface.
type InspectOpts struct {
	Path string
	JSON bool
}

// CLI wires all flags and arguments onto a kingpin application.
type CLI struct {
	App *kingpin.Application

	Global
	Encode  EncodeOpts
	Decode  DecodeOpts
	Inspect InspectOpts

	EncodeCmd  *kingpin.CmdClause
	DecodeCmd  *kingpin.CmdClause
	InspectCmd *kingpin.CmdClause
	VersionCmd *kingpin.CmdClause
}

// New builds the command surface. Values from the config file become flag
// defaults, so anything given on the command line still wins.
func New(defaults config.File) *CLI {
	c := &CLI{}
	c.App = kingpin.New("seqvault", "Reversible DNA sequence archiver: packs FASTA records into a numeric payload plus a reconstruction key, and restores them exactly.")
	c.App.Version(version.Version)
	c.App.HelpFlag.Short('h')

	c.App.Flag("verbose", "Enable debug logging.").Short('v').BoolVar(&c.Verbose)
	c.App.Flag("quiet", "Log errors only.").Short('q').BoolVar(&c.Quiet)
	c.App.Flag("progress", "Show a progress bar on stderr.").
		Default(strconv.FormatBool(boolOr(defaults.Progress, false))).BoolVar(&c.Progress)
	c.App.Flag("timeout", "Abort after this duration (0 = no limit).").
		Default("0").DurationVar(&c.Timeout)
	c.App.Flag("config", "YAML config file with flag defaults.").
		PlaceHolder("FILE").StringVar(&c.ConfigPath)

	c.EncodeCmd = c.App.Command(CmdEncode, "Encode FASTA records into a payload and key file pair.")
	c.EncodeCmd.Arg("input", "FASTA input ('-' for stdin, .gz detected).").Required().StringVar(&c.Encode.Input)
	c.EncodeCmd.Arg("payload", "Payload output path (.svd).").Required().StringVar(&c.Encode.PayloadOut)
	c.EncodeCmd.Arg("key", "Key output path (.svk).").Required().StringVar(&c.Encode.KeyOut)
	c.EncodeCmd.Flag("security-level", "Symbols removed from each chunk buffer into the key.").
		Default(strconv.Itoa(intOr(defaults.SecurityLevel, seqcodec.DefaultRemovals))).IntVar(&c.Encode.SecurityLevel)
	c.EncodeCmd.Flag("chunk-size", "Symbols per chunk.").
		Default(strconv.Itoa(intOr(defaults.ChunkSize, seqcodec.DefaultChunkSize))).IntVar(&c.Encode.ChunkSize)
	c.EncodeCmd.Flag("strategy", "Numeric conversion strategy.").
		Default(stringOr(defaults.Strategy, "limb")).EnumVar(&c.Encode.Strategy, "limb", "digitwise")
	c.EncodeCmd.Flag("parallel", "Encode records in parallel.").
		Default("true").BoolVar(&c.Encode.Parallel)
	c.EncodeCmd.Flag("threads", "Worker count when parallel (0 = all CPUs).").
		Default(strconv.Itoa(intOr(defaults.Threads, 0))).IntVar(&c.Encode.Threads)
	c.EncodeCmd.Flag("seed", "Deterministic seed for removal positions (0 = random).").
		Default("0").Int64Var(&c.Encode.Seed)

	c.DecodeCmd = c.App.Command(CmdDecode, "Restore the original FASTA from a payload and its key file.")
	c.DecodeCmd.Arg("payload", "Payload input path (.svd).").Required().StringVar(&c.Decode.PayloadIn)
	c.DecodeCmd.Arg("key", "Key input path (.svk).").Required().StringVar(&c.Decode.KeyIn)
	c.DecodeCmd.Arg("output", "FASTA output path ('-' for stdout).").Default("-").StringVar(&c.Decode.Output)
	c.DecodeCmd.Flag("parallel", "Decode records in parallel.").
		Default("true").BoolVar(&c.Decode.Parallel)
	c.DecodeCmd.Flag("threads", "Worker count when parallel (0 = all CPUs).").
		Default(strconv.Itoa(intOr(defaults.Threads, 0))).IntVar(&c.Decode.Threads)
	c.DecodeCmd.Flag("line-width", "Wrap output sequences at this column (0 = single line).").
		Default(strconv.Itoa(intOr(defaults.LineWidth, 60))).IntVar(&c.Decode.LineWidth)

	c.InspectCmd = c.App.Command(CmdInspect, "Describe a payload or key file without decoding it.")
	c.InspectCmd.Arg("file", "Payload (.svd) or key (.svk) path.").Required().StringVar(&c.Inspect.Path)
	c.InspectCmd.Flag("json", "Emit machine-readable JSON.").BoolVar(&c.Inspect.JSON)

	c.VersionCmd = c.App.Command(CmdVersion, "Print version and exit.")

	return c
}

// Validate applies cross-flag rules kingpin cannot express.
func (c *CLI) Validate(cmd string) error {
	if c.Quiet && c.Verbose {
		return errors.New("--quiet conflicts with --verbose")
	}
	if c.Timeout < 0 {
		return errors.New("--timeout must be ≥ 0")
	}
	switch cmd {
	case CmdEncode:
		if c.Encode.SecurityLevel < 0 {
			return errors.New("--security-level must be ≥ 0")
		}
		if c.Encode.ChunkSize < 1 {
			return errors.New("--chunk-size must be ≥ 1")
		}
		if c.Encode.Threads < 0 {
			return errors.New("--threads must be ≥ 0")
		}
	case CmdDecode:
		if c.Decode.Threads < 0 {
			return errors.New("--threads must be ≥ 0")
		}
		if c.Decode.LineWidth < 0 {
			return errors.New("--line-width must be ≥ 0")
		}
	}
	return nil
}

// ConfigPath extracts --config from argv ahead of the real parse, so the
// file's values can be installed as flag defaults before kingpin sees the
// command line.
func ConfigPath(argv []string) string {
	for i := 0; i < len(argv); i++ {
		a := argv[i]
		if a == "--config" && i+1 < len(argv) {
			return argv[i+1]
		}
		if strings.HasPrefix(a, "--config=") {
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

func stringOr(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

// WorkerCount folds the parallel toggle and thread count into the worker
// count handed to the pipeline.
func WorkerCount(parallel bool, threads int) int {
	if !parallel {
		return 1
	}
	return threads
}
