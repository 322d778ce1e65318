package persist

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/weditgo/weditd/internal/entity"
)

var ErrDigestMismatch = errors.New("persist: snapshot digest mismatch")

var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	if encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault)); err != nil {
		panic(fmt.Sprintf("persist: zstd encoder: %v", err))
	}
	if decoder, err = zstd.NewReader(nil); err != nil {
		panic(fmt.Sprintf("persist: zstd decoder: %v", err))
	}
}

// EncodeState serializes a snapshot as YAML, NFC-normalizing every string
// and sorting map keys so equal snapshots always hash the same, then
// compresses it. The digest covers the uncompressed YAML.
//
// Floats are tagged so a whole float64 decodes as float64, not int.
// Typed containers decode as map[string]any and []any.
func EncodeState(b entity.BaseEntity) (payload []byte, digest []byte, err error) {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	doc.Content = append(doc.Content, strNode("type"), strNode(b.Type))
	if len(b.Data) > 0 {
		data, err := valueNode(reflect.ValueOf(b.Data))
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s: %w", b.Type, err)
		}
		doc.Content = append(doc.Content, strNode("data"), data)
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s: %w", b.Type, err)
	}
	sum := blake2b.Sum256(raw)
	return encoder.EncodeAll(raw, nil), sum[:], nil
}

// DecodeState reverses EncodeState and checks the digest.
func DecodeState(payload, digest []byte) (entity.BaseEntity, error) {
	var b entity.BaseEntity
	raw, err := decoder.DecodeAll(payload, nil)
	if err != nil {
		return b, fmt.Errorf("decompress snapshot: %w", err)
	}
	sum := blake2b.Sum256(raw)
	if !bytes.Equal(sum[:], digest) {
		return b, ErrDigestMismatch
	}
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("decode snapshot: %w", err)
	}
	return b, nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: norm.NFC.String(s)}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func floatNode(f float64, bits int) *yaml.Node {
	switch {
	case math.IsNaN(f):
		return scalarNode("!!float", ".nan")
	case math.IsInf(f, 1):
		return scalarNode("!!float", ".inf")
	case math.IsInf(f, -1):
		return scalarNode("!!float", "-.inf")
	}
	return scalarNode("!!float", strconv.FormatFloat(f, 'g', -1, bits))
}

func valueNode(v reflect.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case reflect.Invalid:
		return scalarNode("!!null", "null"), nil
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return scalarNode("!!null", "null"), nil
		}
		return valueNode(v.Elem())
	case reflect.String:
		return strNode(v.String()), nil
	case reflect.Bool:
		return scalarNode("!!bool", strconv.FormatBool(v.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalarNode("!!int", strconv.FormatInt(v.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return scalarNode("!!int", strconv.FormatUint(v.Uint(), 10)), nil
	case reflect.Float32:
		return floatNode(v.Float(), 32), nil
	case reflect.Float64:
		return floatNode(v.Float(), 64), nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", v.Type().Key())
		}
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return norm.NFC.String(keys[i].String()) < norm.NFC.String(keys[j].String())
		})
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			val, err := valueNode(v.MapIndex(k))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k.String(), err)
			}
			n.Content = append(n.Content, strNode(k.String()), val)
		}
		return n, nil
	case reflect.Slice, reflect.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := 0; i < v.Len(); i++ {
			val, err := valueNode(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Content = append(n.Content, val)
		}
		return n, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", v.Type())
}
