package nvm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// File is a Memory whose contents persist to an image file after every
// erase and program, so the mapping survives emulator restarts. The image is
// held under an exclusive lock so only one process writes it.
type File struct {
	*Memory
	f *os.File
}

// OpenFile opens or creates the flash image at path.
func OpenFile(path string, g Geometry) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	m := NewMemory(g)
	img, err := io.ReadAll(f)
	if err != nil {
		_ = unlockFile(f)
		_ = f.Close()
		return nil, err
	}
	switch len(img) {
	case 0:
	case 2 * g.size():
		words := make([]uint16, g.size())
		for i := range words {
			words[i] = binary.LittleEndian.Uint16(img[2*i:])
		}
		m.restore(words)
	default:
		_ = unlockFile(f)
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s has %d bytes, want %d", ErrImageLayout, path, len(img), 2*g.size())
	}

	ff := &File{Memory: m, f: f}
	if len(img) == 0 {
		if err := ff.flush(); err != nil {
			_ = ff.Close()
			return nil, err
		}
	}
	return ff, nil
}

// EraseRow erases the row and persists the image.
func (ff *File) EraseRow(addr uint32) error {
	if err := ff.Memory.EraseRow(addr); err != nil {
		return err
	}
	return ff.flush()
}

// WriteRow programs the row and persists the image. A simulated power loss
// is still persisted, matching what a real device would hold.
func (ff *File) WriteRow(addr uint32, words []uint16) error {
	werr := ff.Memory.WriteRow(addr, words)
	if err := ff.flush(); err != nil {
		return errors.Join(werr, err)
	}
	return werr
}

func (ff *File) flush() error {
	words := ff.Memory.snapshot()
	buf := make([]byte, 2*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[2*i:], w)
	}
	if _, err := ff.f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("nvm: persist image: %w", err)
	}
	return ff.f.Sync()
}

// Close releases the image lock and closes the file.
func (ff *File) Close() error {
	if ff.f == nil {
		return nil
	}
	uerr := unlockFile(ff.f)
	cerr := ff.f.Close()
	ff.f = nil
	return errors.Join(uerr, cerr)
}
