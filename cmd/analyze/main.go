// Command analyze extracts property attributes from an analysis text and
// prints the financial analysis as JSON.
//
//	analyze [-prefs preferences.toml] [file]
//	analyze [-prefs preferences.toml] -init-prefs out.toml
//
// The text is read from stdin when no file is given. -init-prefs writes the
// resolved profile as TOML and exits without analysing anything.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"propertylens/config"
	"propertylens/internal/analyzer"
	"propertylens/internal/extractor"
	"propertylens/internal/models"
)

type output struct {
	Property models.PropertyAttributes `json:"property"`
	Found    []models.Field            `json:"found"`
	Analysis models.FinancialAnalysis  `json:"analysis"`
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)

	if err := run(os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		logger.WithError(err).Error("Analysis failed")
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, logger *logrus.Logger) error {
	flags := flag.NewFlagSet("analyze", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	prefsFile := flags.String("prefs", "", "TOML file with investment preferences")
	verbose := flags.Bool("v", false, "Log extraction details")
	initPrefs := flags.String("init-prefs", "", "Write the resolved preferences to this TOML file and exit")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if flags.NArg() > 1 {
		return fmt.Errorf("expected at most one input file, got %d", flags.NArg())
	}

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	prefs, err := config.LoadPreferences(*prefsFile)
	if err != nil {
		return err
	}

	if *initPrefs != "" {
		if err := config.SavePreferences(*initPrefs, prefs); err != nil {
			return err
		}
		logger.WithField("file", *initPrefs).Info("Wrote preferences")
		return nil
	}

	input := stdin
	if flags.NArg() == 1 {
		f, err := os.Open(flags.Arg(0))
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		input = f
	}

	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	text := string(data)

	extraction := extractor.New(logger).Extract(text)
	attrs := extraction.Attributes
	attrs.Description = models.String(text)

	result := output{
		Property: extraction.Attributes,
		Found:    extraction.Found,
		Analysis: analyzer.New(logger).Analyze(attrs, prefs),
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write analysis: %w", err)
	}
	return nil
}
