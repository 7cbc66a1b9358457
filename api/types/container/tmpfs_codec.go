package container

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	cerrdefs "github.com/containerd/errdefs"
)

var (
	// ErrTmpfsNotObject is returned when decoding tmpfs configuration
	// that is not a JSON object.
	ErrTmpfsNotObject = errors.New("tmpfs configuration must be a JSON object")

	// ErrTmpfsNonScalar is returned when decoding tmpfs configuration in
	// which the options of a mount are an object or an array.
	ErrTmpfsNonScalar = errors.New("tmpfs mount options must be a string, number or boolean")

	// ErrTmpfsInvalidUTF8 is returned when encoding a tmpfs mount whose
	// path or options are not valid UTF-8, which JSON cannot represent.
	ErrTmpfsInvalidUTF8 = errors.New("tmpfs mount path and options must be valid UTF-8")
)

// decodeError is returned by DecodeTmpfs. It matches its kind and
// cerrdefs.ErrInvalidArgument with errors.Is, and unwraps to the
// underlying JSON error, if any.
type decodeError struct {
	kind  error
	path  string
	cause error
}

func (e *decodeError) Error() string {
	msg := "invalid tmpfs configuration"
	if e.path != "" {
		msg += fmt.Sprintf(" for %q", e.path)
	}
	msg += ": " + e.kind.Error()
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *decodeError) Unwrap() []error {
	errs := []error{e.kind, cerrdefs.ErrInvalidArgument}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// EncodeTmpfs encodes t as a JSON object mapping each mount path to its
// mount options, in insertion order. An empty or nil t encodes as "{}".
//
// A JSON object cannot hold the same key twice, so a path that occurs more
// than once is written once, at the position of its first occurrence, with
// the options of its last occurrence.
//
// A path or options that are not valid UTF-8 fail with
// [ErrTmpfsInvalidUTF8] rather than being altered.
func EncodeTmpfs(t *Tmpfs) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range t.Unique() {
		if !utf8.ValidString(m.path) || !utf8.ValidString(m.options) {
			return nil, fmt.Errorf("%w: %w: %q", ErrTmpfsInvalidUTF8, cerrdefs.ErrInvalidArgument, m.path)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(m.path)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.options)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeTmpfs decodes a JSON object mapping mount paths to mount options.
// Mounts are returned in the order the fields appear in the object. Empty
// input, "null" and "{}" produce an empty Tmpfs.
//
// Numbers are converted to their literal JSON text, booleans to "true" or
// "false", and null values to "null". Objects or arrays as values fail with
// [ErrTmpfsNonScalar]; anything other than a JSON object at the top level
// fails with [ErrTmpfsNotObject]. A key that occurs more than once keeps
// the position of its first occurrence and the value of its last.
func DecodeTmpfs(data []byte) (*Tmpfs, error) {
	t := &Tmpfs{}
	if len(bytes.TrimSpace(data)) == 0 {
		return t, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, &decodeError{kind: ErrTmpfsNotObject, cause: err}
	}
	switch tok {
	case nil:
		if err := expectEOF(dec); err != nil {
			return nil, err
		}
		return t, nil
	case json.Delim('{'):
	default:
		return nil, &decodeError{kind: ErrTmpfsNotObject, cause: fmt.Errorf("unexpected %s", describeToken(tok))}
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &decodeError{kind: ErrTmpfsNotObject, cause: err}
		}
		// The decoder only yields string tokens in key position.
		path := tok.(string)

		tok, err = dec.Token()
		if err != nil {
			return nil, &decodeError{kind: ErrTmpfsNotObject, path: path, cause: err}
		}
		options, err := scalarText(tok)
		if err != nil {
			return nil, &decodeError{kind: err, path: path}
		}
		t.Add(NewTmpfsMount(path, options))
	}

	if _, err := dec.Token(); err != nil {
		return nil, &decodeError{kind: ErrTmpfsNotObject, cause: err}
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	t.mounts = t.Unique()
	return t, nil
}

func scalarText(tok json.Token) (string, error) {
	switch v := tok.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "null", nil
	default:
		return "", ErrTmpfsNonScalar
	}
}

func expectEOF(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return &decodeError{kind: ErrTmpfsNotObject, cause: err}
	}
	return &decodeError{kind: ErrTmpfsNotObject, cause: fmt.Errorf("unexpected %s after object", describeToken(tok))}
}

func describeToken(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "array"
		}
		return "object"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("token %v", v)
	}
}

// MarshalJSON implements [json.Marshaler] using [EncodeTmpfs].
func (t Tmpfs) MarshalJSON() ([]byte, error) {
	return EncodeTmpfs(&t)
}

// UnmarshalJSON implements [json.Unmarshaler] using [DecodeTmpfs]. It
// replaces any mounts already held by t.
func (t *Tmpfs) UnmarshalJSON(data []byte) error {
	out, err := DecodeTmpfs(data)
	if err != nil {
		return err
	}
	t.mounts = out.mounts
	return nil
}
