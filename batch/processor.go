// Package batch drives the per-record document pipeline over a whole
// roster: each row gets a fresh split of the template, stamping of the pages
// that carry placements, and a merge into its output document. Record
// failures are collected, not propagated, so one bad row never aborts the
// batch. A run ends with a plain-text processing report and, when any
// record was read, an archive bundling the generated documents with the
// report.
package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lvillar/cdaibatch"
	"github.com/lvillar/cdaibatch/pageops"
	"github.com/lvillar/cdaibatch/roster"
)

// Processor runs batches for one validated configuration. Records are
// processed strictly sequentially; nothing is shared between records beyond
// the read-only configuration.
type Processor struct {
	cfg    cdaibatch.Config
	logger *slog.Logger
}

// New creates a processor for cfg. The configuration is validated once here
// so every run can assume it is well formed. A nil output naming rule
// selects cdaibatch.DefaultOutputName.
func New(cfg cdaibatch.Config, opts ...Option) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.OutputName == nil {
		cfg.OutputName = cdaibatch.DefaultOutputName
	}
	p := &Processor{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewRunID returns a timestamp-based run identifier with microsecond
// precision, e.g. 20260821_143027_182634.
func NewRunID() string {
	now := time.Now()
	return now.Format("20060102_150405") + fmt.Sprintf("_%06d", now.Nanosecond()/1000)
}

// Run processes every record of the data file at dataPath. Per-record
// intermediate pages live under record-scoped directories inside workDir and
// are removed when the record's pipeline ends, success or not. Output
// documents, the processing report, and the archive are written to outDir.
//
// The template is validated and the roster read before any record is
// processed; errors there abort the batch. A batch whose roster holds no
// records writes only the report and returns the result together with
// cdaibatch.ErrEmptyBatch.
func (p *Processor) Run(runID, dataPath, workDir, outDir string) (*cdaibatch.RunResult, error) {
	records, err := roster.Read(dataPath)
	if err != nil {
		return nil, err
	}
	if err := pageops.Validate(p.cfg.TemplatePath); err != nil {
		return nil, err
	}

	p.logger.Info("batch started",
		"run_id", runID,
		"data_file", filepath.Base(dataPath),
		"records", len(records))

	res := &cdaibatch.RunResult{RunID: runID}
	rep := newReport(filepath.Base(dataPath), p.cfg.TemplatePath)

	for i, rec := range records {
		result := p.processRecord(i+2, rec, workDir, outDir)
		res.Records = append(res.Records, result)
		rep.addResult(result)
		if result.Ok() {
			p.logger.Info("record processed", "run_id", runID, "row", result.Row, "file", result.Filename)
		} else {
			p.logger.Warn("record failed", "run_id", runID, "row", result.Row, "error", result.Err)
		}
	}

	reportPath := filepath.Join(outDir, ReportFilename)
	if err := rep.writeFile(reportPath); err != nil {
		return nil, fmt.Errorf("batch: writing report: %w", err)
	}
	res.ReportPath = reportPath

	if len(res.Records) == 0 {
		p.logger.Info("batch empty", "run_id", runID)
		return res, cdaibatch.ErrEmptyBatch
	}

	archivePath := filepath.Join(outDir, fmt.Sprintf("CDAI_processed_%s.zip", runID))
	if err := writeArchive(archivePath, res, reportPath); err != nil {
		return nil, fmt.Errorf("batch: writing archive: %w", err)
	}
	res.ArchivePath = archivePath

	p.logger.Info("batch finished",
		"run_id", runID,
		"generated", res.Generated(),
		"failed", res.Failed())
	return res, nil
}

// processRecord runs the split, stamp, merge pipeline for one record. Any
// failure, including a panic inside page import, lands in the result's Err
// so the caller's record loop keeps going. The record's work area is always
// removed before returning.
func (p *Processor) processRecord(row int, rec cdaibatch.Record, workDir, outDir string) (result cdaibatch.RecordResult) {
	result = cdaibatch.RecordResult{Row: row, Patient: rec.PatientName()}

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("batch: row %d: panic: %v", row, r)
		}
	}()

	arena, err := os.MkdirTemp(workDir, fmt.Sprintf("row%03d_", row))
	if err != nil {
		result.Err = fmt.Errorf("batch: row %d: creating work area: %w", row, err)
		return result
	}
	defer os.RemoveAll(arena)

	pages, err := pageops.SplitToFiles(p.cfg.TemplatePath, arena)
	if err != nil {
		result.Err = err
		return result
	}

	// Stamp the pages that carry placements, leaving the rest untouched.
	// Placements on pages beyond the template's page count are skipped.
	for i, pagePath := range pages {
		placement, ok := p.cfg.Placements[i+1]
		if !ok {
			continue
		}
		stamped := strings.TrimSuffix(pagePath, ".pdf") + "_filled.pdf"
		if err := pageops.StampFile(pagePath, stamped, rec, placement); err != nil {
			result.Err = err
			return result
		}
		pages[i] = stamped
	}

	name := p.cfg.OutputName(rec)
	outputPath := filepath.Join(outDir, name)
	if err := pageops.MergeFiles(outputPath, pages...); err != nil {
		result.Err = err
		return result
	}

	result.Filename = name
	result.Path = outputPath
	return result
}
