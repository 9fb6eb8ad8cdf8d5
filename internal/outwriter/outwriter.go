// Package outwriter has output and writer logic.
package outwriter

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/schema"
)

// OutWriter renders reports and persists them to the configured output file.
type OutWriter struct {
	stdout io.Writer // Destination of the --print echo
}

var _ contract.ReportWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{stdout: os.Stdout}
}

// WriteReport renders the whole report in memory, then writes it to cfg.OutputFile.
// A rendering failure leaves the output file untouched.
func (ow *OutWriter) WriteReport(rows []schema.DerivedRow, summary schema.ReportSummary, cfg *contract.Config) error {
	payload, err := RenderReport(rows, summary, cfg.Output, false)
	if err != nil {
		return fmt.Errorf("error rendering %s output: %w", cfg.Output, err)
	}

	if err := writePayload(cfg.OutputFile, payload, successMessage(cfg.Output)); err != nil {
		return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
	}

	if cfg.Print {
		return ow.echo(rows, summary, cfg, payload)
	}
	return nil
}

// echo prints the report to stdout. Binary formats are echoed as CSV text.
func (ow *OutWriter) echo(rows []schema.DerivedRow, summary schema.ReportSummary, cfg *contract.Config, payload []byte) error {
	var text []byte
	switch {
	case cfg.Output == schema.ParquetOut:
		text = []byte(FormatCSV(rows))
	case cfg.Output == schema.TextOut && cfg.UseColors:
		colored, err := RenderReport(rows, summary, cfg.Output, true)
		if err != nil {
			return err
		}
		text = colored
	default:
		text = payload
	}

	if !bytes.HasSuffix(text, []byte("\n")) {
		text = append(text, '\n')
	}
	_, err := ow.stdout.Write(text)
	return err
}

// successMessage is the stderr note printed after a file was written.
func successMessage(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "Wrote JSON"
	case schema.TextOut:
		return "Wrote table"
	case schema.ParquetOut:
		return "Wrote Parquet"
	default:
		return "Wrote CSV"
	}
}
