package lookup

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vilhelmlindell/maxi-yahtzee/game"
)

var ErrCardinalityMismatch = errors.New("table cardinality mismatch")

var order = binary.LittleEndian

// SaveOutcomes writes the outcome table to path through a temporary file.
func SaveOutcomes(path string, entries []Entry) error {
	return atomicWrite(path, func(w io.Writer) error {
		return writeOutcomes(w, entries)
	})
}

// LoadOutcomes reads a table written by SaveOutcomes. Only the leading count
// is validated.
func LoadOutcomes(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open outcome cache: %w", err)
	}
	defer f.Close()
	return readOutcomes(bufio.NewReader(f))
}

func SaveRecommendations(path string, r *Recommendations) error {
	return atomicWrite(path, func(w io.Writer) error {
		return writeRecommendations(w, r)
	})
}

func LoadRecommendations(path string) (*Recommendations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recommendation cache: %w", err)
	}
	defer f.Close()
	return readRecommendations(bufio.NewReader(f))
}

func writeOutcomes(w io.Writer, entries []Entry) error {
	if err := writeCount(w, len(entries)); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeCount(w, len(e.Categories)); err != nil {
			return err
		}
		for _, c := range e.Categories {
			if _, err := w.Write([]byte{byte(c.Category), c.Points}); err != nil {
				return fmt.Errorf("failed to write categories: %w", err)
			}
		}
		if err := writeCount(w, len(e.Holds)); err != nil {
			return err
		}
		for _, h := range e.Holds {
			if _, err := w.Write(h[:]); err != nil {
				return fmt.Errorf("failed to write holds: %w", err)
			}
		}
		if err := writeCount(w, len(e.EVs)); err != nil {
			return err
		}
		if err := binary.Write(w, order, e.EVs); err != nil {
			return fmt.Errorf("failed to write evs: %w", err)
		}
		if err := binary.Write(w, order, e.Mask); err != nil {
			return fmt.Errorf("failed to write mask: %w", err)
		}
	}
	return nil
}

func readOutcomes(r io.Reader) ([]Entry, error) {
	if err := readExpectedCount(r, game.NumStates); err != nil {
		return nil, err
	}
	entries := make([]Entry, game.NumStates)
	for i := range entries {
		e := &entries[i]

		n, err := readCount(r)
		if err != nil {
			return nil, err
		}
		raw := make([]byte, 2*n)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("failed to read categories: %w", err)
		}
		e.Categories = make([]game.CategoryEntry, n)
		for j := range e.Categories {
			e.Categories[j] = game.CategoryEntry{Category: game.Category(raw[2*j]), Points: raw[2*j+1]}
		}

		if n, err = readCount(r); err != nil {
			return nil, err
		}
		e.Holds = make([]game.Hold, n)
		for j := range e.Holds {
			if _, err := io.ReadFull(r, e.Holds[j][:]); err != nil {
				return nil, fmt.Errorf("failed to read holds: %w", err)
			}
		}

		if n, err = readCount(r); err != nil {
			return nil, err
		}
		e.EVs = make([]EVs, n)
		if err := binary.Read(r, order, e.EVs); err != nil {
			return nil, fmt.Errorf("failed to read evs: %w", err)
		}
		if err := binary.Read(r, order, &e.Mask); err != nil {
			return nil, fmt.Errorf("failed to read mask: %w", err)
		}
	}
	return entries, nil
}

func writeRecommendations(w io.Writer, r *Recommendations) error {
	if err := writeCount(w, r.masks()); err != nil {
		return err
	}
	if _, err := w.Write(r.best); err != nil {
		return fmt.Errorf("failed to write recommendations: %w", err)
	}
	return nil
}

func readRecommendations(r io.Reader) (*Recommendations, error) {
	return readMaskTable(r, NumMasks)
}

// readMaskTable reads a recommendation blob that must cover exactly masks
// open masks.
func readMaskTable(r io.Reader, masks int) (*Recommendations, error) {
	if err := readExpectedCount(r, masks); err != nil {
		return nil, err
	}
	rec := newRecommendations(masks)
	if _, err := io.ReadFull(r, rec.best); err != nil {
		return nil, fmt.Errorf("failed to read recommendations: %w", err)
	}
	return rec, nil
}

func writeCount(w io.Writer, n int) error {
	if err := binary.Write(w, order, uint64(n)); err != nil {
		return fmt.Errorf("failed to write count: %w", err)
	}
	return nil
}

func readCount(r io.Reader) (int, error) {
	var n uint64
	if err := binary.Read(r, order, &n); err != nil {
		return 0, fmt.Errorf("failed to read count: %w", err)
	}
	// Sub-lists never hold more than one entry per positional hold
	if n > 1<<game.NumDice {
		return 0, fmt.Errorf("list of %d elements: %w", n, ErrCardinalityMismatch)
	}
	return int(n), nil
}

func readExpectedCount(r io.Reader, expected int) error {
	var n uint64
	if err := binary.Read(r, order, &n); err != nil {
		return fmt.Errorf("failed to read count: %w", err)
	}
	if n != uint64(expected) {
		return fmt.Errorf("cache has %d entries, expected %d: %w", n, expected, ErrCardinalityMismatch)
	}
	return nil
}

// atomicWrite writes to a temporary file next to path and renames it into
// place once complete.
func atomicWrite(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(f.Name())

	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush cache file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("failed to move cache file into place: %w", err)
	}
	return nil
}
