package settings

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const envKey = "env"

var emptyObject = []byte("{}")

var prettyOptions = &pretty.Options{
	Width:  80,
	Prefix: "",
	Indent: "  ",
}

// Document is the assistant's settings file. The raw JSON text is kept and
// edited in place so keys this tool does not own keep their values and order.
type Document struct {
	raw []byte
}

// NewDocument returns an empty settings document
func NewDocument() *Document {
	return &Document{raw: append([]byte(nil), emptyObject...)}
}

// Parse reads a settings document. Blank input is an empty document and a
// missing env key is an empty env map.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return NewDocument(), nil
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, fmt.Errorf("invalid JSON content")
	}
	root := gjson.ParseBytes(trimmed)
	if !root.IsObject() {
		return nil, fmt.Errorf("settings must be a JSON object")
	}
	if env := root.Get(envKey); env.Exists() && !env.IsObject() {
		return nil, fmt.Errorf("env field is not an object")
	}
	return &Document{raw: append([]byte(nil), trimmed...)}, nil
}

func envPath(name string) string {
	return envKey + "." + gjson.Escape(name)
}

func (d *Document) clone() *Document {
	return &Document{raw: append([]byte(nil), d.raw...)}
}

// Env returns a copy of the env map
func (d *Document) Env() map[string]string {
	env := map[string]string{}
	gjson.GetBytes(d.raw, envKey).ForEach(func(key, value gjson.Result) bool {
		env[key.String()] = value.String()
		return true
	})
	return env
}

// HasEnv reports whether the env map holds name
func (d *Document) HasEnv(name string) bool {
	return gjson.GetBytes(d.raw, envPath(name)).Exists()
}

// Keys returns the top-level keys in document order
func (d *Document) Keys() []string {
	var keys []string
	gjson.ParseBytes(d.raw).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// Get returns the raw JSON of a top-level key
func (d *Document) Get(key string) (string, bool) {
	r := gjson.GetBytes(d.raw, gjson.Escape(key))
	if !r.Exists() {
		return "", false
	}
	return r.Raw, true
}

// SetEnv sets env[name] = value, creating the env map if needed
func (d *Document) SetEnv(name, value string) error {
	updated, err := sjson.SetBytes(d.raw, envPath(name), value)
	if err != nil {
		return fmt.Errorf("failed to set env.%s: %w", name, err)
	}
	d.raw = updated
	return nil
}

// DeleteEnv removes env[name] and reports whether it was present. The env
// key itself is dropped once its map is empty.
func (d *Document) DeleteEnv(name string) (bool, error) {
	if !d.HasEnv(name) {
		return false, nil
	}
	updated, err := sjson.DeleteBytes(d.raw, envPath(name))
	if err != nil {
		return false, fmt.Errorf("failed to delete env.%s: %w", name, err)
	}
	d.raw = updated
	if err := d.dropEmptyEnv(); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Document) dropEmptyEnv() error {
	env := gjson.GetBytes(d.raw, envKey)
	if !env.Exists() || len(env.Map()) > 0 {
		return nil
	}
	updated, err := sjson.DeleteBytes(d.raw, envKey)
	if err != nil {
		return fmt.Errorf("failed to delete empty env: %w", err)
	}
	d.raw = updated
	return nil
}

// Bytes serializes the document, leaving out an empty env map
func (d *Document) Bytes() []byte {
	out := d.raw
	env := gjson.GetBytes(out, envKey)
	if env.Exists() && len(env.Map()) == 0 {
		if trimmed, err := sjson.DeleteBytes(out, envKey); err == nil {
			out = trimmed
		}
	}
	return pretty.PrettyOptions(out, prettyOptions)
}

// Equal reports whether both documents hold the same values, ignoring
// formatting, key order and an empty env map
func (d *Document) Equal(o *Document) bool {
	return bytes.Equal(canonical(d.Bytes()), canonical(o.Bytes()))
}

func canonical(data []byte) []byte {
	return pretty.Ugly(pretty.PrettyOptions(data, &pretty.Options{SortKeys: true}))
}

// verifyPreserved checks that every top-level key other than env holds the
// same value in after as in before
func verifyPreserved(before, after *Document) error {
	var diffs []string
	for _, key := range before.Keys() {
		if key == envKey {
			continue
		}
		b, _ := before.Get(key)
		a, ok := after.Get(key)
		if !ok {
			diffs = append(diffs, key+" (missing)")
			continue
		}
		if !bytes.Equal(canonical([]byte(b)), canonical([]byte(a))) {
			diffs = append(diffs, key)
		}
	}
	for _, key := range after.Keys() {
		if key == envKey {
			continue
		}
		if _, ok := before.Get(key); !ok {
			diffs = append(diffs, key+" (new)")
		}
	}
	if len(diffs) > 0 {
		return fmt.Errorf("unexpected changes to non-env fields: %v", diffs)
	}
	return nil
}
