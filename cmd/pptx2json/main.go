package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	pptxjson "github.com/Xeonice/pptx2pptistjson"
)

var (
	outPath    string
	configPath string
	pptist     bool
	imageMode  string
	urlPrefix  string
	notes      bool
	precision  int
)

var rootCmd = &cobra.Command{
	Use:   "pptx2json <file.pptx>",
	Short: "Convert PowerPoint files to structured JSON",
	Long:  "pptx2json converts a .pptx package into a JSON document describing slides, shapes, text, fills and theme colors, optionally in the PPTist editor schema.",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML options file")
	rootCmd.Flags().BoolVar(&pptist, "pptist", false, "Emit the PPTist editor schema instead of the raw model")
	rootCmd.Flags().StringVar(&imageMode, "image-mode", "", "Embedded image mode: base64 or url")
	rootCmd.Flags().StringVar(&urlPrefix, "url-prefix", "", "URL prefix for image-mode=url")
	rootCmd.Flags().BoolVar(&notes, "notes", false, "Include slide notes")
	rootCmd.Flags().IntVar(&precision, "precision", 0, "Decimal places on emitted lengths (default 2)")
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	result, err := pptxjson.Convert(context.Background(), data, opts)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	out, err := encode(result)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if outPath == "" {
		fmt.Println(string(out))
	} else if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Fprintf(os.Stderr, "converted %d slides (%s in, %s out)\n",
		len(result.Slides), humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(len(out))))
	return nil
}

// loadOptions merges the optional YAML config file with command-line flags;
// flags win when set.
func loadOptions(cmd *cobra.Command) (pptxjson.Options, error) {
	var opts pptxjson.Options
	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return opts, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &opts); err != nil {
			return opts, fmt.Errorf("parse config: %w", err)
		}
	}
	if cmd.Flags().Changed("image-mode") {
		opts.ImageMode = imageMode
	}
	if cmd.Flags().Changed("url-prefix") {
		opts.URLPrefix = urlPrefix
	}
	if cmd.Flags().Changed("notes") {
		opts.IncludeNotes = notes
	}
	if cmd.Flags().Changed("precision") {
		opts.Precision = precision
	}
	return opts, nil
}

func encode(result *pptxjson.Result) ([]byte, error) {
	if pptist {
		return pptxjson.PPTistJSON(pptxjson.ToPPTist(result))
	}
	return result.JSONIndent()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
