package material

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"Boltcalc/internal/apperr"
)

// Store is the persistence contract for material records.
type Store interface {
	Load(ctx context.Context) ([]Material, error)
	Save(ctx context.Context, m Material) error
}

// FileStore keeps materials in a delimited text file with a header row
// (the ".mat" files of the desktop tool).
type FileStore struct {
	Path string
}

var delimiters = []rune{',', ';', '\t', '|'}

func (s FileStore) Load(ctx context.Context) ([]Material, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	mats, _, err := parse(data, s.Path)
	return mats, err
}

// Save appends m, or overwrites the row with the same name.
func (s FileStore) Save(ctx context.Context, m Material) error {
	const op = "material.FileStore.Save"
	if m.IsZero() {
		return apperr.Validation(op, "empty material")
	}
	data, err := s.read()
	if err != nil {
		return err
	}

	delim := ','
	var mats []Material
	if len(bytes.TrimSpace(data)) > 0 {
		mats, delim, err = parse(data, s.Path)
		if err != nil {
			return err
		}
	}

	replaced := false
	for i := range mats {
		if mats[i].Name() == m.Name() {
			mats[i] = m
			replaced = true
		} else if mats[i].Number() == m.Number() {
			return apperr.Validation(op, "material number %s already used by %s", m.Number(), mats[i].Name())
		}
	}
	if !replaced {
		mats = append(mats, m)
	}
	return s.write(mats, delim)
}

func (s FileStore) read() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.NotFound("material.FileStore", "material file %s not found, check MATERIAL_FILE", s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading material file: %w", err)
	}
	return data, nil
}

func (s FileStore) write(mats []Material, delim rune) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delim
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, m := range mats {
		if err := w.Write(ToRecord(m)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".mat-*")
	if err != nil {
		return fmt.Errorf("writing material file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing material file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing material file: %w", err)
	}
	return os.Rename(tmp.Name(), s.Path)
}

func parse(data []byte, path string) ([]Material, rune, error) {
	const op = "material.parse"
	first, _, _ := strings.Cut(strings.TrimLeft(string(data), "\ufeff\r\n "), "\n")
	delim, ok := sniff(first)
	if !ok {
		return nil, 0, apperr.Format(op, "%s is not a supported material file", path)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	r.Comma = delim
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, 0, apperr.Format(op, "%s is not a supported material file", path)
	}
	if !isHeader(header) {
		return nil, 0, apperr.Format(op, "%s has no material header row", path)
	}

	var mats []Material
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, apperr.Format(op, "%s: %v", path, err)
		}
		m, err := FromRecord(rec)
		if err != nil {
			return nil, 0, err
		}
		mats = append(mats, m)
	}
	return mats, delim, nil
}

func sniff(line string) (rune, bool) {
	best, bestCount := rune(0), 0
	for _, d := range delimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best, bestCount == len(Header)-1
}

func isHeader(fields []string) bool {
	if len(fields) != len(Header) {
		return false
	}
	for i, f := range fields {
		if strings.ToLower(strings.TrimSpace(f)) != Header[i] {
			return false
		}
	}
	return true
}
