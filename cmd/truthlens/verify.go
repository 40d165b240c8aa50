package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/pipeline"
	"github.com/stake-plus/truthlens/src/sanitize"
	"github.com/stake-plus/truthlens/src/verdict"
)

var videoStrategy string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a single input and print the verdict as JSON",
}

var verifyTextCmd = &cobra.Command{
	Use:   "text [text|-]",
	Short: "Verify plain text; '-' or no argument reads stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := ""
		if len(args) == 0 || args[0] == "-" {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			body = strings.TrimSpace(string(raw))
		} else {
			body = args[0]
		}
		if err := pipeline.ValidateText(body); err != nil {
			return err
		}
		return runVerify(cmd, modality.Text{Body: body})
	},
}

var verifyURLCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Fetch a web page and verify its text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := pipeline.ValidateURL(args[0]); err != nil {
			return err
		}
		return runVerify(cmd, modality.Document{URL: args[0]})
	},
}

var verifyImageCmd = &cobra.Command{
	Use:   "image <file>...",
	Short: "Verify one to five images, in the given order",
	Args:  cobra.RangeArgs(1, modality.MaxImages),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := make([]modality.Blob, 0, len(args))
		for _, path := range args {
			b, err := readBlob(path)
			if err != nil {
				return err
			}
			files = append(files, b)
		}
		return runVerify(cmd, modality.Images{Files: files})
	},
}

var verifyAudioCmd = &cobra.Command{
	Use:   "audio <file>",
	Short: "Verify an audio clip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clip, err := readBlob(args[0])
		if err != nil {
			return err
		}
		return runVerify(cmd, modality.Audio{Clip: clip})
	},
}

var verifyVideoCmd = &cobra.Command{
	Use:   "video <file>",
	Short: "Verify a video by sampled frames or by its audio track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, err := modality.ParseStrategy(videoStrategy)
		if err != nil {
			return err
		}
		clip, err := readBlob(args[0])
		if err != nil {
			return err
		}
		return runVerify(cmd, modality.Video{Clip: clip, Strategy: strategy})
	},
}

func init() {
	verifyVideoCmd.Flags().StringVar(&videoStrategy, "strategy", string(modality.StrategyFrames), "frames|audio")
	verifyCmd.AddCommand(verifyTextCmd, verifyURLCmd, verifyImageCmd, verifyAudioCmd, verifyVideoCmd)
}

func readBlob(path string) (modality.Blob, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return modality.Blob{}, err
	}
	return modality.Blob{
		Name:     filepath.Base(path),
		MIMEType: mimetype.Detect(raw).String(),
		Data:     raw,
	}, nil
}

type verifyOutput struct {
	Kind       string          `json:"kind"`
	Meta       modality.Meta   `json:"meta"`
	Result     verdict.Verdict `json:"result"`
	ParseFault bool            `json:"parse_fault,omitempty"`
	Stages     []string        `json:"stages,omitempty"`
}

func runVerify(cmd *cobra.Command, in modality.Input) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.pipeline.Run(ctx, in)
	if err != nil {
		return fmt.Errorf("verify %s: %w", in.Kind(), err)
	}
	out := verifyOutput{
		Kind:       res.Kind.String(),
		Meta:       res.Meta,
		Result:     sanitize.Verdict(res.Verdict),
		ParseFault: res.ParseFault,
	}
	if verbose {
		for _, s := range res.Stages {
			out.Stages = append(out.Stages, string(s))
		}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
