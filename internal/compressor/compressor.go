// Package compressor handles zip-packaged template bundles. A configured
// template root ending in ".zip" is validated and extracted to a temporary
// directory before any template path is resolved against it.
package compressor

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// IsBundle checks that path exists and carries the zip magic. It reports
// os.ErrNotExist for a missing file and os.ErrInvalid for a non-zip file.
func IsBundle(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, 2)
	if _, err := io.ReadFull(f, header); err != nil {
		return os.ErrInvalid
	}
	if header[0] != 'P' || header[1] != 'K' {
		return os.ErrInvalid
	}
	return nil
}

// ExtractBundle unpacks the bundle at zipPath into a fresh temporary
// directory and returns it along with a cleanup function.
func ExtractBundle(zipPath string) (string, func(), error) {
	if err := IsBundle(zipPath); err != nil {
		return "", nil, fmt.Errorf("template bundle %s: %w", zipPath, err)
	}
	dir, err := os.MkdirTemp("", "fieldsmith-templates")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }
	if err := unzip(zipPath, dir); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("extracting template bundle %s: %w", zipPath, err)
	}
	return dir, cleanup, nil
}

func unzip(srcZip, destDir string) error {
	r, err := zip.OpenReader(srcZip)
	if err != nil {
		return err
	}
	defer r.Close()
	for _, f := range r.File {
		// Reject entries that would escape the destination.
		if strings.Contains(f.Name, "..") {
			return fmt.Errorf("bundle entry %q escapes the extraction root", f.Name)
		}
		fpath := filepath.Join(destDir, f.Name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fpath), 0o755); err != nil {
			return err
		}
		out, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			out.Close()
			return err
		}
		_, err = io.Copy(out, rc)
		out.Close()
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// PackBundle zips the contents of srcDir into destZip, creating parent
// directories as needed. Used by the bundle subcommand to package a template
// directory for distribution.
//
// Entries are written in sorted path order with no timestamps, so bundling
// the same directory twice produces byte-identical bundles.
func PackBundle(srcDir, destZip string) error {
	var files []string
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)

	if err := os.MkdirAll(filepath.Dir(destZip), 0o755); err != nil {
		return err
	}
	zipfile, err := os.Create(destZip)
	if err != nil {
		return err
	}
	defer zipfile.Close()

	archive := zip.NewWriter(zipfile)
	defer archive.Close()

	for _, rel := range files {
		src, err := os.Open(filepath.Join(srcDir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		w, err := archive.Create(rel)
		if err != nil {
			src.Close()
			return err
		}
		_, err = io.Copy(w, src)
		src.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
