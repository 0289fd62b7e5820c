package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/htmlpng/document"
	"github.com/ByLCY/htmlpng/layout"
	"github.com/ByLCY/htmlpng/renderer"
	canvasrenderer "github.com/ByLCY/htmlpng/renderer/canvas"
	ggrenderer "github.com/ByLCY/htmlpng/renderer/gg"
)

const defaultOutput = "output.png"

var errUsage = errors.New("invalid command line")

// options 汇总命令行参数。
type options struct {
	input    string
	output   string
	backend  string
	font     string
	fontSize string
	debug    string
	verbose  bool
}

func main() {
	opts, err := parseArgs(os.Args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(1)
	}

	logger := newLogger(opts.verbose, os.Stderr)
	r, err := newRenderer(opts.backend, filepath.Dir(opts.input), logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := run(opts, r, os.Stdout, logger); err != nil {
		log.Fatalf("%v", err)
	}
}

// parseArgs 解析 args（含程序名）。缺少输入文件，或输入之后还跟着以 "-"
// 开头的参数（flag 必须写在输入文件之前）时，打印用法并返回 errUsage。
func parseArgs(args []string, stderr io.Writer) (options, error) {
	prog := "htmlpng"
	if len(args) > 0 {
		prog = args[0]
	}
	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := options{output: defaultOutput}
	fs.StringVar(&opts.backend, "backend", "canvas", "rendering backend: canvas or gg")
	fs.StringVar(&opts.font, "font", "embed:goregular", "font source: embed:<name> or a TrueType file path")
	fs.StringVar(&opts.fontSize, "size", "", "font size, e.g. 10pt or 14px (default 10pt)")
	fs.StringVar(&opts.debug, "debug", "", "write the layout as JSON to this path")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s <input_html_file> [output_png_file]\n", prog)
		fs.PrintDefaults()
	}

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return opts, err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return opts, errUsage
	}
	for _, arg := range fs.Args()[1:] {
		if strings.HasPrefix(arg, "-") {
			fmt.Fprintf(stderr, "flag %s must come before the input file\n", arg)
			fs.Usage()
			return opts, errUsage
		}
	}
	opts.input = fs.Arg(0)
	if fs.NArg() > 1 {
		opts.output = fs.Arg(1)
	}
	return opts, nil
}

func newRenderer(backend, baseDir string, logger *slog.Logger) (renderer.Renderer, error) {
	switch strings.ToLower(backend) {
	case "", "canvas":
		return canvasrenderer.NewRenderer(baseDir, logger), nil
	case "gg":
		return ggrenderer.NewRenderer(baseDir, logger), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want canvas or gg)", backend)
	}
}

// run 串联读取、解析、布局、渲染与写出。
func run(opts options, r renderer.Renderer, stdout io.Writer, logger *slog.Logger) error {
	if r == nil {
		return fmt.Errorf("renderer must not be nil")
	}
	if logger == nil {
		logger = newLogger(false, nil)
	}

	text, err := document.ReadFile(opts.input)
	if err != nil {
		return err
	}
	logger.Debug("read input", "path", opts.input, "bytes", len(text))

	// 文档树仅用于确认解析成功，不参与渲染
	if _, err := document.ParseString(text); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "HTML parsed successfully!")

	ts, ok := r.(layout.Typesetter)
	if !ok {
		return fmt.Errorf("renderer does not implement text layout")
	}
	buildOpts, err := layoutOptions(opts, ts)
	if err != nil {
		return err
	}
	result, err := layout.Build(buildOpts)
	if err != nil {
		return fmt.Errorf("failed to lay out text: %w", err)
	}

	if opts.debug != "" {
		if err := layout.WriteDebugJSON(result, opts.debug); err != nil {
			return fmt.Errorf("failed to write debug JSON: %w", err)
		}
	}

	img, err := r.Render(result)
	if err != nil {
		return err
	}
	logger.Debug("rendered", "backend", opts.backend, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	if err := renderer.WritePNG(opts.output, img); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Rendering complete! Output saved to %s\n", opts.output)
	return nil
}

func layoutOptions(opts options, ts layout.Typesetter) (layout.BuildOptions, error) {
	buildOpts := layout.BuildOptions{Typesetter: ts, Font: layout.DefaultFont()}
	if src := opts.font; src != "" && !strings.HasPrefix(src, "embed:") {
		abs, err := filepath.Abs(src)
		if err != nil {
			return buildOpts, fmt.Errorf("invalid font path %s: %w", src, err)
		}
		buildOpts.Font.Src = abs
	} else if src != "" {
		buildOpts.Font.Src = src
	}
	if opts.fontSize != "" {
		size, err := layout.ParseLength(opts.fontSize)
		if err != nil {
			return buildOpts, fmt.Errorf("invalid font size: %w", err)
		}
		if size.Value <= 0 {
			return buildOpts, fmt.Errorf("invalid font size %q", opts.fontSize)
		}
		buildOpts.FontSize = size
	}
	return buildOpts, nil
}
