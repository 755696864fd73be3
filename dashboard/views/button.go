package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/gofrs/uuid"
)

type ButtonVariant string

const (
	ButtonVariantDefault     ButtonVariant = "default"
	ButtonVariantDestructive ButtonVariant = "destructive"
)

const buttonBaseClasses = "inline-flex items-center justify-center rounded-md text-sm font-medium transition-colors focus-visible:outline-none focus-visible:ring-2 focus-visible:ring-offset-2 disabled:pointer-events-none disabled:opacity-50"

// ElementRef is a handle to a rendered element. After a component rendered
// with a ref, ID holds the id attribute of the element itself, so scripts and
// browser automation can address it directly (focus, measurement).
type ElementRef struct {
	ID string
}

// Selector returns a CSS selector matching the referenced element.
func (r *ElementRef) Selector() string {
	return "#" + r.ID
}

type ButtonProps struct {
	// Native button attributes, rendered as given.
	ID        string
	Type      string
	Name      string
	Value     string
	Form      string
	Title     string
	Disabled  bool
	AutoFocus bool
	OnClick   string

	// Attributes are passed through for anything not covered above (aria-*, data-*, hx-*).
	// Keys colliding with the fields above or with "class" are ignored.
	Attributes templ.Attributes

	// Variant selects the color set. Empty means ButtonVariantDefault.
	Variant ButtonVariant
	// Class is merged after the variant classes and wins on conflicting utilities.
	Class string

	// Ref receives the id of the rendered button.
	Ref *ElementRef
}

func buttonVariantClasses(variant ButtonVariant) string {
	switch variant {
	case "", ButtonVariantDefault:
		return "bg-blue-500 text-white"
	case ButtonVariantDestructive:
		return "bg-red-500 text-white"
	default:
		return ""
	}
}

// ButtonClasses returns the class attribute of a button rendered with props.
func ButtonClasses(props ButtonProps) string {
	return cn(buttonBaseClasses, buttonVariantClasses(props.Variant), props.Class)
}

// Button renders a <button> element. Children are taken from the templ
// children context, so it can be used as @views.Button(props) { Label }.
func Button(props ButtonProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children := templ.GetChildren(ctx)
		if children == nil {
			children = templ.NopComponent
		}
		ctx = templ.ClearChildren(ctx)

		var b strings.Builder
		b.WriteString("<button")
		if id := buttonID(props); id != "" {
			writeAttr(&b, "id", id)
		}
		writeAttr(&b, "class", ButtonClasses(props))
		if props.Type != "" {
			writeAttr(&b, "type", props.Type)
		}
		if props.Name != "" {
			writeAttr(&b, "name", props.Name)
		}
		if props.Value != "" {
			writeAttr(&b, "value", props.Value)
		}
		if props.Form != "" {
			writeAttr(&b, "form", props.Form)
		}
		if props.Title != "" {
			writeAttr(&b, "title", props.Title)
		}
		if props.Disabled {
			writeBoolAttr(&b, "disabled")
		}
		if props.AutoFocus {
			writeBoolAttr(&b, "autofocus")
		}
		if props.OnClick != "" {
			writeAttr(&b, "onclick", props.OnClick)
		}
		if err := writeAttributes(ctx, &b, props.Attributes, buttonReservedAttrs); err != nil {
			return err
		}
		b.WriteString(">")

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := children.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</button>")
		return err
	})
}

// ButtonWithLabel renders a Button with an escaped text label as its only child.
func ButtonWithLabel(props ButtonProps, label string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Button(props).Render(templ.WithChildren(ctx, Text(label)), w)
	})
}

var buttonReservedAttrs = map[string]struct{}{
	"id": {}, "class": {}, "type": {}, "name": {}, "value": {}, "form": {},
	"title": {}, "disabled": {}, "autofocus": {}, "onclick": {},
}

// buttonID resolves the id attribute and attaches it to the ref.
// An explicit ID wins, then an id already held by the ref, then a generated one.
func buttonID(props ButtonProps) string {
	if props.Ref == nil {
		return props.ID
	}
	switch {
	case props.ID != "":
		props.Ref.ID = props.ID
	case props.Ref.ID == "":
		props.Ref.ID = "btn-" + uuid.Must(uuid.NewV7()).String()
	}
	return props.Ref.ID
}
