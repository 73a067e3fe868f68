package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lvillar/cdaibatch"
	"github.com/lvillar/cdaibatch/batch"
	"github.com/lvillar/cdaibatch/config"
	"github.com/lvillar/cdaibatch/logger"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleDownloadExample serves a bundled example file from the examples
// directory under the static root, as an attachment. The filename is reduced
// to its base so the route cannot reach outside that directory.
func (s *Server) handleDownloadExample(c *gin.Context) {
	name := filepath.Base(c.Param("filename"))
	path := filepath.Join(s.cfg.StaticDir, "examples", name)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		logger.Warn(c.Request.Context(), "example download missing", "path", path)
		c.String(http.StatusNotFound, "example not found")
		return
	}

	c.FileAttachment(path, name)
}

// handleProcess accepts a roster upload, runs the batch against the default
// template, and answers with the finished archive. Error responses are plain
// text. The session folders under uploads/ and completed/ are removed once
// the response has been written, whatever the outcome.
func (s *Server) handleProcess(c *gin.Context) {
	logger.Info(c.Request.Context(), "processing request received")

	file, header, err := c.Request.FormFile("data_file")
	if err != nil {
		c.String(http.StatusBadRequest, "Missing data file")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		c.String(http.StatusBadRequest, "No selected file")
		return
	}

	if _, err := os.Stat(s.cfg.TemplatePath); err != nil {
		logger.Error(c.Request.Context(), "template missing", "path", s.cfg.TemplatePath, "error", err)
		c.String(http.StatusInternalServerError, "Server Error: Default PDF template not found.")
		return
	}

	runID := batch.NewRunID()
	ctx := context.WithValue(c.Request.Context(), logger.RunIDKey, runID)
	c.Request = c.Request.WithContext(ctx)

	sessionUploads := filepath.Join(s.cfg.UploadsDir, runID)
	sessionCompleted := filepath.Join(s.cfg.CompletedDir, runID)
	for _, dir := range []string{sessionUploads, sessionCompleted} {
		if err := os.MkdirAll(dir, config.DefaultDirPerm); err != nil {
			logger.Error(ctx, "creating session folder", "dir", dir, "error", err)
			c.String(http.StatusInternalServerError, "Internal Server Error")
			return
		}
	}
	defer func() {
		logger.Info(ctx, "cleaning up session folders")
		for _, dir := range []string{sessionUploads, sessionCompleted} {
			if err := os.RemoveAll(dir); err != nil {
				logger.Error(ctx, "session cleanup failed", "dir", dir, "error", err)
			}
		}
	}()

	dataPath := filepath.Join(sessionUploads, filepath.Base(header.Filename))
	if err := c.SaveUploadedFile(header, dataPath); err != nil {
		logger.Error(ctx, "saving upload", "error", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	// Each run stamps its own copy of the template.
	sessionTemplate := filepath.Join(sessionUploads, "template.pdf")
	if err := copyFile(s.cfg.TemplatePath, sessionTemplate); err != nil {
		logger.Error(ctx, "copying template", "error", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	batchCfg := s.batchCfg
	batchCfg.TemplatePath = sessionTemplate

	proc, err := batch.New(batchCfg, batch.WithLogger(logger.WithContext(ctx)))
	if err != nil {
		logger.Error(ctx, "building processor", "error", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	res, err := proc.Run(runID, dataPath, sessionUploads, sessionCompleted)
	if err != nil {
		writeRunError(c, err)
		return
	}

	logger.Info(ctx, "sending archive",
		"file", filepath.Base(res.ArchivePath),
		"generated", res.Generated(),
		"failed", res.Failed())
	c.FileAttachment(res.ArchivePath, filepath.Base(res.ArchivePath))
}

// writeRunError maps a batch error onto the HTTP response: an unusable data
// file and an empty batch are the caller's fault, everything else is a
// server-side failure.
func writeRunError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, cdaibatch.ErrEmptyBatch):
		logger.Info(ctx, "empty batch", "error", err)
		c.String(http.StatusBadRequest, "Processing finished, but the data file was empty or no actions were taken.")
	case errors.Is(err, cdaibatch.ErrUnsupportedFormat), errors.Is(err, cdaibatch.ErrMalformedInput):
		logger.Warn(ctx, "rejected data file", "error", err)
		c.String(http.StatusBadRequest, err.Error())
	default:
		logger.Error(ctx, "batch failed", "error", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}

// copyFile copies src to dst, truncating dst if it already exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
