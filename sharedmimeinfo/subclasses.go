package sharedmimeinfo

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/freedesktop-go/sharedmime/basedir"
	"io"
	"os"
	"path"
	"slices"
	"strings"
)

type MalformedSubclassError struct {
	FileIndex int
	LineIndex int
}

func (e MalformedSubclassError) Error() string {
	return fmt.Sprintf(
		"malformed subclass line at %d",
		e.LineIndex,
	)
}

type Subclass struct {
	dict map[string][]string
}

// LoadFromOs loads the subclasses files according to both the shared-mime-info spec and
// the basedir spec.
// XDG_DATA_HOME and XDG_DATA_DIRS are retrieved from the environment.
func LoadFromOs() (*Subclass, error) {
	var dirs []string
	dirs = append(dirs, basedir.DataHome)
	dirs = append(dirs, basedir.DataDirs...)
	var files []*os.File
	var readers []io.Reader

	for _, dir := range dirs {
		fPath := path.Join(dir, "mime/subclasses")
		f, err := os.Open(fPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			continue
		case err != nil:
			return nil, fmt.Errorf("failed to load subclasses file at %s: %w", fPath, err)
		default:
			files = append(files, f)
			readers = append(readers, f)
		}
	}

	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()

	subclasses, err := LoadFromReaders(readers)
	if err == nil {
		return subclasses, nil
	}
	var x MalformedSubclassError
	if errors.As(err, &x) && x.FileIndex >= 0 && x.FileIndex < len(files) {
		return nil, fmt.Errorf(
			"failed to load subclass file %s: %w",
			files[x.FileIndex].Name(),
			err,
		)
	}

	return nil, err
}

// LoadFromReaders loads the subclasses based on the given [io.Reader] slice.
// Order is important as earlier readers have higher precedence.
func LoadFromReaders(readers []io.Reader) (*Subclass, error) {
	mimeSubclass := &Subclass{
		dict: make(map[string][]string),
	}

	for fileIndex, f := range readers {
		scanner := bufio.NewScanner(f)
		lineIndex := 0
		for scanner.Scan() {
			line := scanner.Text()
			specific, broad, found := strings.Cut(line, " ")
			if !found {
				return nil, MalformedSubclassError{
					FileIndex: fileIndex,
					LineIndex: lineIndex,
				}
			}

			if broadList, ok := mimeSubclass.dict[specific]; ok {
				if !slices.Contains(broadList, broad) {
					mimeSubclass.dict[specific] = append(broadList, broad)
				}
			} else {
				mimeSubclass.dict[specific] = []string{broad}
			}
			lineIndex++
		}

		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	return mimeSubclass, nil
}

// Edges returns every (child, parent) pair loaded from the subclasses files, in no particular
// order. This is the raw edge set a [typegraph] builds its DAG from: the graph builder applies
// the implicit text/plain and application/octet-stream fallback edges once globally, over this
// set plus whatever other providers contribute, rather than a caller re-deriving them per query.
func (s *Subclass) Edges() [][2]string {
	edges := make([][2]string, 0, len(s.dict))
	for child, parents := range s.dict {
		for _, parent := range parents {
			edges = append(edges, [2]string{child, parent})
		}
	}
	return edges
}
