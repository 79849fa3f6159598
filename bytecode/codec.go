package bytecode

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/loom-lang/loomvm/vmerr"
)

// Load decodes a Program from path per §4.B / §6: the compact binary
// encoding is tried first, then the textual encoding; the first that
// deserializes successfully wins. I/O failures are reported distinctly
// from decode failures.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vmerr.Wrap(vmerr.Io, "reading artifact "+path, err)
	}
	return Decode(data)
}

// Decode implements the binary-then-text fallback of §4.B/§6 on an
// in-memory artifact, independent of file I/O (Load reads the file and
// calls it; tests call it directly).
func Decode(data []byte) (*Program, error) {
	prog, binErr := decodeBinary(data)
	if binErr == nil {
		Logger().Debug("decoded artifact via binary codec", zap.String("program", prog.Name))
		return prog, nil
	}
	prog, textErr := decodeText(data)
	if textErr == nil {
		Logger().Debug("decoded artifact via textual codec", zap.String("program", prog.Name))
		return prog, nil
	}
	Logger().Warn("artifact decode failed under both codecs",
		zap.Error(binErr), zap.Error(textErr))
	return nil, vmerr.Combine(vmerr.InvalidBytecode, "artifact did not decode as binary or textual program", binErr, textErr)
}

// Save writes prog to path using the binary codec — the canonical form
// used for Checksum and for the round-trip idempotency property of §8.
func Save(prog *Program, path string) error {
	data, err := EncodeBinary(prog)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return vmerr.Wrap(vmerr.Io, "writing artifact "+path, err)
	}
	return nil
}

// EncodeBinary renders prog in the compact binary encoding, via the
// name-sorted programWire envelope so the byte layout is deterministic
// regardless of the source Program's map iteration order.
func EncodeBinary(prog *Program) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(toProgramWire(prog)); err != nil {
		return nil, vmerr.Wrap(vmerr.Serialization, "encoding artifact", err)
	}
	return buf.Bytes(), nil
}

// EncodeText renders prog in the textual (JSON-like) encoding, via the
// same programWire envelope as EncodeBinary.
func EncodeText(prog *Program) ([]byte, error) {
	data, err := json.MarshalIndent(toProgramWire(prog), "", "  ")
	if err != nil {
		return nil, vmerr.Wrap(vmerr.Serialization, "encoding artifact", err)
	}
	return data, nil
}

func decodeBinary(data []byte) (*Program, error) {
	var w programWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return nil, vmerr.Wrap(vmerr.Deserialization, "binary decode", err)
	}
	prog := fromProgramWire(w)
	if err := validate(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

func decodeText(data []byte) (*Program, error) {
	var w programWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, vmerr.Wrap(vmerr.Deserialization, "textual decode", err)
	}
	prog := fromProgramWire(w)
	if err := validate(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

// validate combines every independent structural violation into one
// multierr-backed InvalidBytecode, as SPEC_FULL.md's error-handling notes
// describe.
func validate(prog *Program) error {
	var violations []error
	if prog.Name == "" {
		violations = append(violations, fmt.Errorf("program has no name"))
	}
	if prog.Main == "" {
		violations = append(violations, fmt.Errorf("program has no entry function"))
	} else if _, ok := prog.Functions[prog.Main]; !ok {
		violations = append(violations, fmt.Errorf("entry function %q is not declared", prog.Main))
	}
	if len(violations) == 0 {
		return nil
	}
	return vmerr.Combine(vmerr.InvalidBytecode, "artifact failed validation", violations...)
}

// Checksum returns a BLAKE2b-256 digest of prog's canonical binary
// encoding. Informational (§3 Addendum): not part of program identity,
// used to detect corruption/tampering between save and load.
func Checksum(prog *Program) ([32]byte, error) {
	data, err := EncodeBinary(prog)
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}
