package rdb

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// constructModuleName decodes a module id into the 9-character module name
// Redis registers it under. Each character is packed 6 bits at a time from
// a 64-character alphabet, most significant character first; the low 10
// bits of the id are the module's encoding version instead.
func constructModuleName(id uint64) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	name := make([]byte, 9)
	v := id >> 10
	for i := 8; i >= 0; i-- {
		name[i] = alphabet[v&63]
		v >>= 6
	}
	return string(name)
}

func moduleVersion(id uint64) uint64 {
	return id & 1023
}

// readModule2 reads a TypeModule2 payload. Only the RedisJSON module is
// decoded structurally; any other module is skipped opaquely by walking
// its self-describing opcode stream without interpreting the values, since
// this decoder has no way to know a third-party module's semantics.
func (r *valueReader) readModule2() (moduleName string, version uint64, doc string, understood bool, err error) {
	id, _, err := r.readLen()
	if err != nil {
		return "", 0, "", false, err
	}
	moduleName = constructModuleName(id)
	version = moduleVersion(id)

	if id>>10 == jsonModuleID>>10 {
		doc, err := r.readJSON(version)
		if err != nil {
			return moduleName, version, "", false, err
		}
		// The module opcode stream always ends with moduleOpCodeEOF;
		// readJSON already consumes it.
		return moduleName, version, doc, true, nil
	}

	if err := r.skipModuleOpaque(); err != nil {
		return moduleName, version, "", false, err
	}
	return moduleName, version, "", false, nil
}

// skipModuleOpaque walks a module's self-describing opcode stream,
// discarding every value, until moduleOpCodeEOF.
func (r *valueReader) skipModuleOpaque() error {
	for {
		op, _, err := r.readLen()
		if err != nil {
			return err
		}
		switch op {
		case moduleOpCodeEOF:
			return nil
		case moduleOpCodeSInt, moduleOpCodeUInt:
			if _, _, err := r.readLen(); err != nil {
				return err
			}
		case moduleOpCodeFloat:
			if _, err := r.src.Get(4); err != nil {
				return err
			}
		case moduleOpCodeDouble:
			if _, err := r.src.Get(8); err != nil {
				return err
			}
		case moduleOpCodeString:
			if _, err := r.ReadString(); err != nil {
				return err
			}
		default:
			return ErrMalformed
		}
	}
}

// readJSON decodes a RedisJSON module payload. Version 3 stores the
// document as a single plain JSON string; version 0 stores a node-tagged
// tree that must be reconstructed recursively.
func (r *valueReader) readJSON(version uint64) (string, error) {
	if version == jsonModuleV3 {
		s, err := r.readModuleString()
		if err != nil {
			return "", err
		}
		if err := r.expectModuleEOF(); err != nil {
			return "", err
		}
		return s, nil
	}
	doc, err := r.readJSONV0Node()
	if err != nil {
		return "", err
	}
	if err := r.expectModuleEOF(); err != nil {
		return "", err
	}
	return doc, nil
}

func (r *valueReader) expectModuleEOF() error {
	op, _, err := r.readLen()
	if err != nil {
		return err
	}
	if op != moduleOpCodeEOF {
		return ErrMalformed
	}
	return nil
}

func (r *valueReader) readModuleString() (string, error) {
	op, _, err := r.readLen()
	if err != nil {
		return "", err
	}
	if op != moduleOpCodeString {
		return "", ErrMalformed
	}
	return r.ReadString()
}

func (r *valueReader) readModuleUint() (uint64, error) {
	op, _, err := r.readLen()
	if err != nil {
		return 0, err
	}
	if op != moduleOpCodeUInt {
		return 0, ErrMalformed
	}
	v, _, err := r.readLen()
	return v, err
}

// readJSONV0Node recursively reconstructs a version-0 RedisJSON tree into
// its textual JSON representation, serializing dict/array subtrees with
// oj.JSON so the overall document round-trips through a single parser.
func (r *valueReader) readJSONV0Node() (string, error) {
	tag, err := r.readModuleUint()
	if err != nil {
		return "", err
	}
	switch tag {
	case jsonModuleV0NodeNull:
		return "null", nil
	case jsonModuleV0NodeBoolean:
		v, err := r.readModuleUint()
		if err != nil {
			return "", err
		}
		if v != 0 {
			return "true", nil
		}
		return "false", nil
	case jsonModuleV0NodeInteger:
		v, err := r.readModuleUint()
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(v, 10), nil
	case jsonModuleV0NodeNumber:
		op, _, err := r.readLen()
		if err != nil {
			return "", err
		}
		if op != moduleOpCodeDouble {
			return "", ErrMalformed
		}
		b, err := r.src.Get(8)
		if err != nil {
			return "", err
		}
		f := float64frombits(binary.LittleEndian.Uint64(b))
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case jsonModuleV0NodeString:
		s, err := r.readModuleString()
		if err != nil {
			return "", err
		}
		return string(oj.JSON(s)), nil
	case jsonModuleV0NodeArray:
		n, err := r.readModuleUint()
		if err != nil {
			return "", err
		}
		parts := make([]string, n)
		for i := range parts {
			parts[i], err = r.readJSONV0Node()
			if err != nil {
				return "", err
			}
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case jsonModuleV0NodeDict:
		n, err := r.readModuleUint()
		if err != nil {
			return "", err
		}
		parts := make([]string, n)
		for i := range parts {
			key, err := r.readModuleString()
			if err != nil {
				return "", err
			}
			val, err := r.readJSONV0Node()
			if err != nil {
				return "", err
			}
			parts[i] = string(oj.JSON(key)) + ":" + val
		}
		return "{" + strings.Join(parts, ",") + "}", nil
	default:
		return "", ErrMalformed
	}
}
