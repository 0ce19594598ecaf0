package convert

import (
	"github.com/FocuswithJustin/usj/core/errors"
	"github.com/FocuswithJustin/usj/core/extract"
	"github.com/FocuswithJustin/usj/core/syntax"
	"github.com/FocuswithJustin/usj/core/usj"
)

// milestone emits a milestone or z-namespace marker. Only its attributes
// become content, and a milestone without attributes has no content field.
func (w *walker) milestone(n syntax.Node, out *[]usj.Content) traversal {
	node := &usj.Node{Type: usj.TypeMilestone}
	if tag := extract.First(milestoneTagPath, w.src, n); tag != nil {
		raw, err := extract.Raw(w.src, tag)
		if err != nil {
			w.diagnose(err)
		}
		node.Marker = markerName(raw)
	}
	if node.Marker == "" {
		w.diagnose(errors.NewMalformed(n.Kind(), "milestoneTag", n.StartByte()))
		node.Marker = n.Kind()
	}
	for _, attr := range extract.Select(milestoneAttributesPath, w.src, n) {
		var attrs []usj.Content
		w.attribute(attr, &attrs)
		node.Append(attrs...)
	}
	*out = append(*out, node)
	return consumed
}

// attribute emits a name/value pair. An attribute without a name is the
// default attribute of its marker; one without a value gets an empty value.
func (w *walker) attribute(n syntax.Node, out *[]usj.Content) traversal {
	b := w.match(attributePattern, n)
	name, ok := w.lookup(b, "name")
	if !ok {
		name = "default"
	}
	value, _ := w.lookup(b, "value")

	node := &usj.Node{
		Type:   usj.TypeAttribute,
		Marker: "attribute",
		Name:   name,
		Value:  value,
	}
	if w.opts.LegacyAttributeFields {
		node.AttribName = name
		node.AttribValue = value
	}
	*out = append(*out, node)
	return consumed
}
