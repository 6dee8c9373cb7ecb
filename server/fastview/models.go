// Package fastview implements a builder pattern for simple server-pushed
// views: given an input data model, apply a transformation to a view-model,
// and multiplex that data to one or more view components.
package fastview

import "html/template"

// EleUpdate is an element identifier and a set of operations to apply to its
// attributes/content.
type EleUpdate struct {
	// The id by which to find the element.
	EleId string
	// Op keys are attrib keys or 'textContent', values are the strings to
	// which these are set. Example: ('x','123') means 'set attribute 'x' to
	// 123. 'textContent' is a reserved key: ('textContent','abc') means 'set
	// ele.textContent to abc'.
	Ops []Op
}

// Op is a key and value. For example an html attribute and its new value.
type Op struct {
	Key   string
	Value string
}

// ViewComponent implements server side views: Parse adds the view's template
// to a parent template (possibly recursively), and Updates returns the chan
// by which ele-updates are notified.
type ViewComponent interface {
	Updates() <-chan []EleUpdate
	Parse(*template.Template) (string, error)
}
