// Package cad writes bolt geometry as a CAD global-variable equation file,
// one `"key" = value` line per entry.
package cad

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"Boltcalc/internal/apperr"
)

// Recorder is implemented by sized bolts.
type Recorder interface {
	Name() string
	CADRecord() map[string]any
}

func WriteEquations(w io.Writer, rec map[string]any) error {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	for _, k := range keys {
		v, err := value(rec[k])
		if err != nil {
			return apperr.Format("cad.WriteEquations", "key %q: %v", k, err)
		}
		fmt.Fprintf(bw, "%q = %s\n", k, v)
	}
	return bw.Flush()
}

func value(v any) (string, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(x), nil
	case string:
		return strconv.Quote(x), nil
	case fmt.Stringer:
		return strconv.Quote(x.String()), nil
	}
	return "", fmt.Errorf("unsupported value type %T", v)
}

// SaveFile writes <name>.txt into dir, replacing an older export.
func SaveFile(dir string, b Recorder) (string, error) {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return "", apperr.NotFound("cad.SaveFile", "cad directory %q does not exist", dir)
	}
	path := filepath.Join(dir, b.Name()+".txt")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create equation file: %w", err)
	}
	if err := WriteEquations(f, b.CADRecord()); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close equation file: %w", err)
	}
	return path, nil
}
