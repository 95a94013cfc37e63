package executor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okranek/muninn/internal/corpus"
)

// ErrCorpusLocked indicates another apply run holds the corpus lock.
var ErrCorpusLocked = errors.New("corpus is locked by another apply run")

// corpusLock is the exclusive advisory lock held for the duration of one
// apply run. Preview never locks.
type corpusLock struct {
	file *os.File
}

func acquireCorpusLock(root string) (*corpusLock, error) {
	dir := filepath.Join(root, corpus.SystemDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", corpus.SystemDir, err)
	}

	lockFile, err := os.OpenFile(filepath.Join(dir, "corpus.lock"), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus lock: %w", err)
	}

	if err := lockFileExclusiveNonBlocking(lockFile); err != nil {
		lockFile.Close()
		if isWouldBlockError(err) {
			return nil, ErrCorpusLocked
		}
		return nil, fmt.Errorf("failed to acquire corpus lock: %w", err)
	}

	return &corpusLock{file: lockFile}, nil
}

func (l *corpusLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
