package history

import (
	"errors"
	"fmt"

	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/internal/parquet"
)

// ExecuteHistoryExport writes every stored run and cycle row to two Parquet files
// named after outputFile.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total report runs: %d\n", status.TotalRuns)
	fmt.Printf("Total cycle rows: %d\n", status.TableSizes[cycleRowsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}

	rows, err := store.GetAllRows()
	if err != nil {
		return fmt.Errorf("failed to retrieve cycle rows: %w", err)
	}

	parquetRuns := parquet.ConvertReportRunRecords(runs)
	parquetRows := parquet.ConvertCycleRowRecords(rows)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteReportRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	fmt.Printf("Exported %d report runs to: %s\n", len(parquetRuns), runsFile)

	rowsFile := outputFile + ".cycle_rows.parquet"
	if err := parquet.WriteCycleRowsParquet(parquetRows, rowsFile); err != nil {
		return fmt.Errorf("failed to write cycle rows: %w", err)
	}
	fmt.Printf("Exported %d cycle rows to: %s\n", len(parquetRows), rowsFile)

	return nil
}
