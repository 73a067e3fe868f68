package batch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	"github.com/lvillar/cdaibatch"
)

// writeArchive bundles every generated document plus the report into a flat
// zip archive at archivePath. Entries keep their output filenames, with no
// folder structure.
func writeArchive(archivePath string, res *cdaibatch.RunResult, reportPath string) error {
	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", archivePath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, rec := range res.Records {
		if !rec.Ok() {
			continue
		}
		if err := addArchiveFile(zw, rec.Path, rec.Filename); err != nil {
			return err
		}
	}
	if err := addArchiveFile(zw, reportPath, ReportFilename); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", archivePath, err)
	}
	return f.Close()
}

func addArchiveFile(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("archiving %s: %w", name, err)
	}
	defer src.Close()

	dst, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("archiving %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("archiving %s: %w", name, err)
	}
	return nil
}
