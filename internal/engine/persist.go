package engine

import "fmt"

// BlobStore persists encoded snapshots by slot name.
// LoadSnapshot returns nil data and a nil error when the slot is empty.
type BlobStore interface {
	SaveSnapshot(slot string, data []byte) error
	LoadSnapshot(slot string) ([]byte, error)
}

// Suspend pauses a running flight and saves it to slot.
func Suspend(e *Engine, store BlobStore, slot string) error {
	e.Pause()
	data, err := EncodeSnapshot(e.Snapshot())
	if err != nil {
		return err
	}
	if err := store.SaveSnapshot(slot, data); err != nil {
		return fmt.Errorf("engine: cannot suspend to %q: %w", slot, err)
	}
	return nil
}

// Resume restores the flight saved in slot.
// It reports false if the slot is empty. An undecodable snapshot resets
// the engine to a fresh flight and returns an error wrapping
// ErrIncompatibleSnapshot.
func Resume(e *Engine, store BlobStore, slot string) (bool, error) {
	data, err := store.LoadSnapshot(slot)
	if err != nil {
		return false, fmt.Errorf("engine: cannot load %q: %w", slot, err)
	}
	if data == nil {
		return false, nil
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		e.NewGame()
		return false, err
	}
	if err := e.Restore(snap); err != nil {
		return false, err
	}
	return true, nil
}
