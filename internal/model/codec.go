package model

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/gruntwork-io/go-commons/errors"
)

// DecodeProject reads a length-prefixed gob payload and decodes it into a
// fresh Project. Decoding is total: gob's zero-value defaulting means
// unknown/missing fields default the way the invariants require (palette
// colors to zero, durations to zero) without any bespoke field-by-field
// fallback logic.
//
// The caller is expected to build a whole new Project this way and swap it
// in under the project guard, never decode into a live value in place.
func DecodeProject(r io.Reader) (Project, error) {
	var project Project
	payload, err := readLengthPrefixed(r)
	if err != nil {
		return Project{}, errors.WithStackTrace(fmt.Errorf("%w: %v", ErrDecode, err))
	}
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&project); err != nil {
		return Project{}, errors.WithStackTrace(fmt.Errorf("%w: %v", ErrDecode, err))
	}
	return project, nil
}

// EncodeProject writes a Project as a length-prefixed gob payload.
func EncodeProject(w io.Writer, project Project) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(project); err != nil {
		return fmt.Errorf("halo: encode project: %w", err)
	}
	return writeLengthPrefixed(w, buf.Bytes())
}

// DecodeRenderMode reads a length-prefixed gob payload and decodes it into
// a RenderMode.
func DecodeRenderMode(r io.Reader) (RenderMode, error) {
	var mode RenderMode
	payload, err := readLengthPrefixed(r)
	if err != nil {
		return RenderMode{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&mode); err != nil {
		return RenderMode{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return mode, nil
}

// EncodeRenderMode writes a RenderMode as a length-prefixed gob payload.
func EncodeRenderMode(w io.Writer, mode RenderMode) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(mode); err != nil {
		return fmt.Errorf("halo: encode render mode: %w", err)
	}
	return writeLengthPrefixed(w, buf.Bytes())
}

func readLengthPrefixed(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("read length prefix: %w", err)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read payload (%d bytes): %w", length, err)
	}
	return payload, nil
}

func writeLengthPrefixed(w io.Writer, payload []byte) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(payload))); err != nil {
		return fmt.Errorf("write length prefix: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}
