// Package artifact emits pipeline outputs: every artifact is written in both
// encodings under a timestamped name, atomically, with an optional unstamped
// "latest" alias refreshed after each successful write.
package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"stepmerge/internal/table"
)

// StampLayout is the generation timestamp embedded in artifact names,
// DDMMYY_HHMM.
const StampLayout = "020106_1504"

// LatestTag replaces the stamp in alias names.
const LatestTag = "latest"

// Writer names and writes artifacts for one SOP within one output directory.
type Writer struct {
	OutDir      string
	SOP         string
	LatestAlias bool
	Now         func() time.Time // test hook; nil means time.Now
}

func (w *Writer) stamp() string {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	return now().Format(StampLayout)
}

func (w *Writer) path(stage, suffix, tag, ext string) string {
	name := w.SOP + "_" + stage
	if suffix != "" {
		name += "_" + suffix
	}
	return filepath.Join(w.OutDir, fmt.Sprintf("%s_%s.%s", name, tag, ext))
}

// Write emits one artifact under the given stage name. The primary document
// becomes <SOP>_<stage>_<stamp>.csv and the first sheet of
// <SOP>_<stage>_<stamp>.xlsx; each secondary document becomes a further
// sheet of the workbook and a sibling CSV suffixed with its sheet name.
// Returns the stamped paths written, aliases excluded.
func (w *Writer) Write(stage string, primary *table.Document, extras ...*table.Document) ([]string, error) {
	stamp := w.stamp()
	var written []string

	emit := func(tag string) ([]string, error) {
		var paths []string

		p := w.path(stage, "", tag, "csv")
		if err := table.WriteDocument(p, primary); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p, err)
		}
		paths = append(paths, p)

		for _, extra := range extras {
			p := w.path(stage, suffixFor(extra.Name), tag, "csv")
			if err := table.WriteDocument(p, extra); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", p, err)
			}
			paths = append(paths, p)
		}

		p = w.path(stage, "", tag, "xlsx")
		docs := append([]*table.Document{primary}, extras...)
		if err := table.WriteWorkbook(p, docs...); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p, err)
		}
		paths = append(paths, p)
		return paths, nil
	}

	paths, err := emit(stamp)
	if err != nil {
		return nil, err
	}
	written = append(written, paths...)

	if w.LatestAlias {
		if _, err := emit(LatestTag); err != nil {
			return nil, err
		}
	}
	return written, nil
}

// suffixFor turns a sheet name into a file-name suffix.
func suffixFor(sheet string) string {
	s := strings.ToLower(strings.TrimSpace(sheet))
	s = strings.ReplaceAll(s, " ", "_")
	if s == "" {
		return "sheet"
	}
	return s
}
