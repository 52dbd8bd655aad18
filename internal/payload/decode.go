// Package payload implements spec.md §4.2: dispatching a file's bytes to a
// decoder by extension, decoding into the dynamic value.Value tree, and
// flattening that tree into a dotted-path map plus a reference index.
package payload

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/lowcarboncode/gitdis/internal/constants"
	"github.com/lowcarboncode/gitdis/internal/value"
)

// IsValidFile reports whether path's extension is one gitdis decodes, per
// spec.md §4.2. Any other file is ignored at every stage.
func IsValidFile(path string) bool {
	return strings.HasSuffix(path, constants.ExtJSON) ||
		strings.HasSuffix(path, constants.ExtYML) ||
		strings.HasSuffix(path, constants.ExtYAML) ||
		strings.HasSuffix(path, constants.ExtXML)
}

// Decode dispatches on path's extension and decodes content. Any decoder
// error degrades to value.Undefined() rather than propagating — decoder
// failures never fail the synchronizer (spec.md §4.2, §7).
func Decode(path string, content []byte) value.Value {
	switch {
	case strings.HasSuffix(path, constants.ExtJSON):
		v, err := DecodeJSON(content)
		if err != nil {
			return value.Undefined()
		}
		return v
	case strings.HasSuffix(path, constants.ExtYML), strings.HasSuffix(path, constants.ExtYAML):
		v, err := DecodeYAML(content)
		if err != nil {
			return value.Undefined()
		}
		return v
	case strings.HasSuffix(path, constants.ExtXML):
		v, err := DecodeXML(content)
		if err != nil {
			return value.Undefined()
		}
		return v
	default:
		return value.Undefined()
	}
}

// DecodeJSON decodes JSON bytes into a value.Value, preserving object key
// order as it appears in the source document (encoding/json's map-based
// decode does not guarantee this, so we walk tokens by hand).
func DecodeJSON(content []byte) (value.Value, error) {
	dec := gojson.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return value.Value{}, err
	}
	return v, nil
}

func decodeJSONValue(dec *gojson.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *gojson.Decoder, tok gojson.Token) (value.Value, error) {
	switch t := tok.(type) {
	case gojson.Delim:
		switch t {
		case '{':
			obj := value.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return value.Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return value.Value{}, fmt.Errorf("payload: expected object key, got %v", keyTok)
				}
				child, err := decodeJSONValue(dec)
				if err != nil {
					return value.Value{}, err
				}
				obj.Set(key, child)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return value.Value{}, err
			}
			return obj, nil
		case '[':
			var items []value.Value
			for dec.More() {
				child, err := decodeJSONValue(dec)
				if err != nil {
					return value.Value{}, err
				}
				items = append(items, child)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return value.Value{}, err
			}
			return value.Array(items), nil
		default:
			return value.Value{}, fmt.Errorf("payload: unexpected delimiter %v", t)
		}
	case gojson.Number:
		v, err := value.NumberFromString(t.String())
		if err != nil {
			return value.Value{}, err
		}
		return v, nil
	case string:
		return value.String(t), nil
	case bool:
		return value.Bool(t), nil
	case nil:
		return value.Null(), nil
	default:
		return value.Value{}, fmt.Errorf("payload: unsupported JSON token %T", tok)
	}
}

// DecodeYAML decodes YAML bytes into a value.Value via yaml.Node, which
// preserves mapping key order (gopkg.in/yaml.v3, as the teacher already
// depends on for its state file).
func DecodeYAML(content []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return value.Value{}, err
	}
	if len(doc.Content) == 0 {
		return value.Null(), nil
	}
	return yamlNodeToValue(doc.Content[0])
}

func yamlNodeToValue(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return yamlNodeToValue(n.Content[0])
	case yaml.MappingNode:
		obj := value.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			child, err := yamlNodeToValue(valNode)
			if err != nil {
				return value.Value{}, err
			}
			obj.Set(keyNode.Value, child)
		}
		return obj, nil
	case yaml.SequenceNode:
		items := make([]value.Value, 0, len(n.Content))
		for _, item := range n.Content {
			child, err := yamlNodeToValue(item)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, child)
		}
		return value.Array(items), nil
	case yaml.ScalarNode:
		return yamlScalarToValue(n)
	case yaml.AliasNode:
		return yamlNodeToValue(n.Alias)
	default:
		return value.Undefined(), nil
	}
}

func yamlScalarToValue(n *yaml.Node) (value.Value, error) {
	switch n.Tag {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, err
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		if v, err := value.NumberFromString(n.Value); err == nil {
			return v, nil
		}
		return value.String(n.Value), nil
	default:
		return value.String(n.Value), nil
	}
}

// DecodeXML decodes XML bytes into a value.Value. XML has no native
// arbitrary-map type the way JSON/YAML do, so elements become Objects
// keyed by child tag name, each attribute is exposed under an "@<name>"
// key, repeated sibling tags collapse into an Array, and the text of an
// element with no attributes and no children becomes a String (text next
// to attributes is kept under "#text"). The root element's own tag name
// is not part of the result.
// Per spec.md §4.2, XML support is optional — implementations that omit it
// may still treat the extension as valid and yield Undefined; this one
// implements it with the standard library, since no third-party library in
// the reference corpus offers a dynamic XML-to-ordered-map decoder.
func DecodeXML(content []byte) (value.Value, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return value.Undefined(), nil
		}
		if err != nil {
			return value.Value{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return decodeXMLElement(dec, start)
		}
	}
}

func decodeXMLElement(dec *xml.Decoder, start xml.StartElement) (value.Value, error) {
	obj := value.NewObject()
	for _, attr := range start.Attr {
		obj.Set("@"+attr.Name.Local, value.String(attr.Value))
	}

	childOrder := map[string][]value.Value{}
	var childKeyOrder []string
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			return value.Value{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeXMLElement(dec, t)
			if err != nil {
				return value.Value{}, err
			}
			key := t.Name.Local
			if _, seen := childOrder[key]; !seen {
				childKeyOrder = append(childKeyOrder, key)
			}
			childOrder[key] = append(childOrder[key], child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			trimmed := strings.TrimSpace(text.String())
			if len(childKeyOrder) == 0 {
				if len(start.Attr) == 0 {
					return value.String(trimmed), nil
				}
				if trimmed != "" {
					obj.Set("#text", value.String(trimmed))
				}
				return obj, nil
			}
			for _, key := range childKeyOrder {
				vals := childOrder[key]
				if len(vals) == 1 {
					obj.Set(key, vals[0])
				} else {
					obj.Set(key, value.Array(vals))
				}
			}
			return obj, nil
		}
	}
}
