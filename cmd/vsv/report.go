package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/vsv"
)

// outputFormat is the report rendering
type outputFormat int

const (
	outputText outputFormat = iota
	outputJSON
	outputYAML
)

// parseOutputFormat maps the --output flag value to an outputFormat
func parseOutputFormat(s string) (outputFormat, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return outputText, nil
	case "json":
		return outputJSON, nil
	case "yaml", "yml":
		return outputYAML, nil
	default:
		return outputText, fmt.Errorf("invalid output format '%s': supported formats are text, json and yaml", s)
	}
}

// report is what vsv prints for one input file
type report struct {
	File         string          `json:"file" yaml:"file"`
	Format       string          `json:"format,omitempty" yaml:"format,omitempty"`
	Compression  string          `json:"compression,omitempty" yaml:"compression,omitempty"`
	Separator    string          `json:"separator,omitempty" yaml:"separator,omitempty"`
	SeparatorHex string          `json:"separator_hex,omitempty" yaml:"separator_hex,omitempty"`
	Header       bool            `json:"header" yaml:"header"`
	Datasets     []datasetReport `json:"datasets,omitempty" yaml:"datasets,omitempty"`
	Error        string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// datasetReport describes one dataset without its content
type datasetReport struct {
	Name  string `json:"name" yaml:"name"`
	Bytes int    `json:"bytes" yaml:"bytes"`
}

// newReport summarizes a resolved file
func newReport(path string, result *vsv.Result) report {
	datasets := make([]datasetReport, 0, len(result.Datasets))
	for _, d := range result.Datasets {
		datasets = append(datasets, datasetReport{Name: d.Name, Bytes: len(d.Data)})
	}
	return report{
		File:         path,
		Format:       result.Format.String(),
		Compression:  result.Compression.String(),
		Separator:    result.Separator.Escaped(),
		SeparatorHex: result.Separator.Hex(),
		Header:       result.Header,
		Datasets:     datasets,
	}
}

// writeReports renders reports to w
func writeReports(w io.Writer, format outputFormat, reports []report) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, r := range reports {
			if err := writeTextReport(w, r); err != nil {
				return err
			}
		}
		return nil
	}
}

// writeTextReport writes one report in the human readable layout
func writeTextReport(w io.Writer, r report) error {
	if r.Error != "" {
		_, err := fmt.Fprintf(w, "%s: %s\n", r.File, r.Error)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s: separator=%s (%s) header=%t format=%s compression=%s\n",
		r.File, r.Separator, r.SeparatorHex, r.Header, r.Format, r.Compression); err != nil {
		return err
	}
	for _, d := range r.Datasets {
		if _, err := fmt.Fprintf(w, "  %s (%d bytes)\n", d.Name, d.Bytes); err != nil {
			return err
		}
	}
	return nil
}
