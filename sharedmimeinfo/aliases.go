package sharedmimeinfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/freedesktop-go/sharedmime/basedir"
)

type MalformedAliasError struct {
	FileIndex int
	LineIndex int
}

func (e MalformedAliasError) Error() string {
	return fmt.Sprintf(
		"malformed alias line at %d",
		e.LineIndex,
	)
}

// Aliases is a mapping from alias MIME type to canonical MIME type, as loaded from one or more
// "aliases" files. Earlier files take precedence: if the same alias appears in two files, the
// canonical type from the first file that mentions it wins.
type Aliases struct {
	dict map[string]string
}

// AliasesFromOs loads the aliases files according to both the shared-mime-info spec and the
// basedir spec. XDG_DATA_HOME and XDG_DATA_DIRS are retrieved from the environment.
func AliasesFromOs() (*Aliases, error) {
	var dirs []string
	dirs = append(dirs, basedir.DataHome)
	dirs = append(dirs, basedir.DataDirs...)
	var files []*os.File
	var readers []io.Reader

	for _, dir := range dirs {
		fPath := path.Join(dir, "mime/aliases")
		f, err := os.Open(fPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			continue
		case err != nil:
			return nil, fmt.Errorf("failed to load aliases file at %s: %w", fPath, err)
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

	aliases, err := AliasesFromReaders(readers)
	if err == nil {
		return aliases, nil
	}
	var x MalformedAliasError
	if errors.As(err, &x) && x.FileIndex >= 0 && x.FileIndex < len(files) {
		return nil, fmt.Errorf(
			"failed to load aliases file %s: %w",
			files[x.FileIndex].Name(),
			err,
		)
	}

	return nil, err
}

// AliasesFromReaders loads the aliases based on the given [io.Reader] slice.
// Order is important: earlier readers have higher precedence.
func AliasesFromReaders(readers []io.Reader) (*Aliases, error) {
	aliases := &Aliases{
		dict: make(map[string]string),
	}

	for fileIndex, f := range readers {
		scanner := bufio.NewScanner(f)
		lineIndex := 0
		for scanner.Scan() {
			line := scanner.Text()
			alias, canonical, found := strings.Cut(line, " ")
			if !found {
				return nil, MalformedAliasError{
					FileIndex: fileIndex,
					LineIndex: lineIndex,
				}
			}

			if _, ok := aliases.dict[alias]; !ok {
				aliases.dict[alias] = canonical
			}
			lineIndex++
		}

		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	return aliases, nil
}

// Canonical returns the canonical MIME type for the given alias, or mime itself if it is not
// known to be an alias of anything.
func (a *Aliases) Canonical(mime string) string {
	if canonical, ok := a.dict[mime]; ok {
		return canonical
	}
	return mime
}

// Map returns the full alias -> canonical mapping. The returned map must not be mutated.
func (a *Aliases) Map() map[string]string {
	return a.dict
}
