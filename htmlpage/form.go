package htmlpage

import (
	"net/url"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoSubmitButton is returned by Submit if the page has no save button.
const ErrNoSubmitButton errors.Error = "no submit button on the page"

// ErrNotSubmitted is returned by FormValues if the form has not been
// submitted.
const ErrNotSubmitted errors.Error = "form has not been submitted"

// Submit implements the watchlist.FormSubmitter interface for *Document.  It
// clicks the save button: the button is remembered, and the payload the
// browser would send is available from FormValues.
func (d *Document) Submit() (err error) {
	btn := d.submitButton()
	if btn == nil {
		return ErrNoSubmitButton
	}

	d.clicked = btn
	log.Debug("htmlpage: submitted form with button %q", attrVal(btn, "name"))

	return nil
}

// Submitted returns true if Submit has been called successfully.
func (d *Document) Submitted() bool {
	return d.clicked != nil
}

// submitButton returns the save button of the watchlist form or nil.
func (d *Document) submitButton() *html.Node {
	return findFirst(d.root, func(n *html.Node) bool {
		return isSubmitButton(n) && n.Parent != nil && hasClass(n.Parent, submitButtonsClass)
	})
}

// isSubmitButton returns true if n is a button submitting its form.
func isSubmitButton(n *html.Node) bool {
	switch {
	case isElement(n, atom.Input):
		return strings.EqualFold(attrVal(n, "type"), "submit")
	case isElement(n, atom.Button):
		t, ok := attr(n, "type")

		return !ok || strings.EqualFold(t, "submit")
	default:
		return false
	}
}

// Action returns the action URL of the submitted form.
func (d *Document) Action() (action string, err error) {
	form, err := d.submittedForm()
	if err != nil {
		return "", err
	}

	return attrVal(form, "action"), nil
}

// submittedForm returns the form the clicked button belongs to.
func (d *Document) submittedForm() (form *html.Node, err error) {
	if d.clicked == nil {
		return nil, ErrNotSubmitted
	}

	form = closest(d.clicked, func(n *html.Node) bool {
		return isElement(n, atom.Form)
	})
	if form == nil {
		return nil, errors.Error("submit button is outside of a form")
	}

	return form, nil
}

// FormValues returns the payload of the submitted form: the hidden fields,
// the checked watchlist entries, the raw text and the clicked button.
func (d *Document) FormValues() (vals url.Values, err error) {
	form, err := d.submittedForm()
	if err != nil {
		return nil, err
	}

	vals = url.Values{}
	walk(form, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}

		name, ok := attr(n, "name")
		if !ok || name == "" {
			return true
		}

		if _, disabled := attr(n, "disabled"); disabled {
			return true
		}

		switch n.DataAtom {
		case atom.Input:
			d.addInput(vals, n, name)
		case atom.Button:
			if n == d.clicked {
				vals.Add(name, attrVal(n, "value"))
			}
		case atom.Textarea:
			vals.Add(name, textContent(n))
		}

		return true
	})

	return vals, nil
}

// addInput adds the value of the input n to vals, if the browser would send
// it.
func (d *Document) addInput(vals url.Values, n *html.Node, name string) {
	val, ok := attr(n, "value")
	switch t := strings.ToLower(attrVal(n, "type")); t {
	case "checkbox", "radio":
		if _, checked := attr(n, "checked"); !checked {
			return
		}

		if !ok {
			val = "on"
		}
	case "submit", "image", "button", "reset":
		if n != d.clicked {
			return
		}
	default:
		// Text, hidden, and the rest are sent as is.
	}

	vals.Add(name, val)
}
