package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/tokenmetry/internal/tokenizer"
)

var countFlags struct {
	text     string
	encoding string
}

var countCmd = &cobra.Command{
	Use:   "count [FILE]",
	Short: "Count tokens in one file or a literal string",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCount,
}

func init() {
	f := countCmd.Flags()
	f.StringVarP(&countFlags.text, "text", "t", "", "Literal text to tokenize instead of a file")
	f.StringVar(&countFlags.encoding, "encoding", "", "Tiktoken encoding name (default cl100k_base)")
}

func runCount(cmd *cobra.Command, args []string) error {
	if (countFlags.text == "") == (len(args) == 0) {
		return fmt.Errorf("provide exactly one of FILE or --text")
	}

	tok, err := tokenizer.New(countFlags.encoding)
	if err != nil {
		return fmt.Errorf("initializing tokenizer: %w", err)
	}

	if countFlags.text != "" {
		fmt.Printf("Token count: %d\n", tok.Count(countFlags.text))
		return nil
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	tokens, ok := tok.CountBytes(content)
	if !ok {
		return fmt.Errorf("%s: not valid UTF-8 text", args[0])
	}
	fmt.Printf("File: %s\nToken count: %d\n", args[0], tokens)
	return nil
}
