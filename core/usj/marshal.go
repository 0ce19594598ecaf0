package usj

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/FocuswithJustin/usj/core/errors"
)

// wireNode fixes the key order USJ documents are written in.
type wireNode struct {
	Type        string     `json:"type"`
	Marker      string     `json:"marker,omitempty"`
	Code        *string    `json:"code,omitempty"`
	Number      string     `json:"number,omitempty"`
	Sid         string     `json:"sid,omitempty"`
	AltNumber   string     `json:"altnumber,omitempty"`
	PubNumber   string     `json:"pubnumber,omitempty"`
	Caller      *string    `json:"caller,omitempty"`
	Align       string     `json:"align,omitempty"`
	Category    string     `json:"category,omitempty"`
	Name        string     `json:"name,omitempty"`
	Value       *string    `json:"value,omitempty"`
	AttribName  string     `json:"attrib_name,omitempty"`
	AttribValue *string    `json:"attrib_value,omitempty"`
	Content     *[]Content `json:"content,omitempty"`
}

// MarshalJSON writes n with a stable key order. Book codes, note callers
// and attribute values are always written, even when empty; attrib_value
// goes with attrib_name.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := wireNode{
		Type:        n.Type,
		Marker:      n.Marker,
		Number:      n.Number,
		Sid:         n.Sid,
		AltNumber:   n.AltNumber,
		PubNumber:   n.PubNumber,
		Align:       n.Align,
		Category:    n.Category,
		Name:        n.Name,
		AttribName:  n.AttribName,
	}
	switch n.Type {
	case TypeBook:
		w.Code = &n.Code
	case TypeNote:
		w.Caller = &n.Caller
	case TypeAttribute:
		w.Value = &n.Value
		if n.AttribName != "" {
			w.AttribValue = &n.AttribValue
		}
	}
	if n.Content != nil {
		w.Content = &n.Content
	}
	return encode(w)
}

type wireDocument struct {
	Type    string    `json:"type"`
	Version string    `json:"version"`
	Content []Content `json:"content"`
}

// MarshalJSON writes the document envelope followed by its content.
func (d *Document) MarshalJSON() ([]byte, error) {
	content := d.Content
	if content == nil {
		content = []Content{}
	}
	return encode(wireDocument{Type: d.Type, Version: d.Version, Content: content})
}

// encode is json.Marshal without HTML escaping.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Marshal encodes doc as JSON. A non-empty indent produces indented output.
// Encoder failures are returned as *errors.SerializationError.
func Marshal(doc *Document, indent string) ([]byte, error) {
	if doc == nil {
		return nil, &errors.SerializationError{Format: "JSON", Err: fmt.Errorf("nil document")}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, &errors.SerializationError{Format: "JSON", Err: err}
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

type inputNode struct {
	wireNode
	Content *[]json.RawMessage `json:"content"`
}

type inputDocument struct {
	Type    string            `json:"type"`
	Version string            `json:"version"`
	Content []json.RawMessage `json:"content"`
}

// Unmarshal decodes a USJ document previously written by Marshal or by
// another USJ producer.
func Unmarshal(data []byte) (*Document, error) {
	var in inputDocument
	if err := json.Unmarshal(data, &in); err != nil {
		perr := errors.NewParse("USJ", "", err.Error())
		perr.Err = err
		return nil, perr
	}
	if in.Type != DocumentType {
		return nil, errors.NewParse("USJ", "", fmt.Sprintf("top-level type is %q, want %q", in.Type, DocumentType))
	}
	content, err := decodeContent(in.Content)
	if err != nil {
		return nil, err
	}
	if content == nil {
		content = []Content{}
	}
	return &Document{Type: in.Type, Version: in.Version, Content: content}, nil
}

func decodeContent(raw []json.RawMessage) ([]Content, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]Content, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				return nil, errors.NewParse("USJ", "", err.Error())
			}
			out = append(out, Text(s))
			continue
		}
		var in inputNode
		if err := json.Unmarshal(item, &in); err != nil {
			return nil, errors.NewParse("USJ", "", err.Error())
		}
		if in.Type == "" {
			return nil, errors.NewParse("USJ", "", "content node has no type")
		}
		n := &Node{
			Type:        in.Type,
			Marker:      in.Marker,
			Number:      in.Number,
			Sid:         in.Sid,
			AltNumber:   in.AltNumber,
			PubNumber:   in.PubNumber,
			Align:       in.Align,
			Category:    in.Category,
			Name:        in.Name,
			AttribName:  in.AttribName,
		}
		if in.Value != nil {
			n.Value = *in.Value
		}
		if in.AttribValue != nil {
			n.AttribValue = *in.AttribValue
		}
		if in.Code != nil {
			n.Code = *in.Code
		}
		if in.Caller != nil {
			n.Caller = *in.Caller
		}
		if in.Content != nil {
			children, err := decodeContent(*in.Content)
			if err != nil {
				return nil, err
			}
			if children == nil {
				children = []Content{}
			}
			n.Content = children
		}
		out = append(out, n)
	}
	return out, nil
}
