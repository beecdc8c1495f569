package browser

import (
	"errors"
	"fmt"
	"strings"
)

// By names the strategy a Locator uses to find elements.
type By int

const (
	byNone By = iota
	// ByClass matches a single class name
	ByClass
	// ByID matches the id attribute
	ByID
	// ByXPath matches an XPath expression
	ByXPath
	// ByName matches the name attribute
	ByName
	// ByCSS matches a CSS selector
	ByCSS
	// ByTag matches a tag name
	ByTag
)

// String returns the strategy name
func (b By) String() string {
	switch b {
	case ByClass:
		return "class"
	case ByID:
		return "id"
	case ByXPath:
		return "xpath"
	case ByName:
		return "name"
	case ByCSS:
		return "css"
	case ByTag:
		return "tag"
	default:
		return "none"
	}
}

// ParseBy converts a strategy name into a By.
func ParseBy(name string) (By, error) {
	switch strings.ToLower(name) {
	case "class", "cls":
		return ByClass, nil
	case "id":
		return ByID, nil
	case "xpath":
		return ByXPath, nil
	case "name":
		return ByName, nil
	case "css":
		return ByCSS, nil
	case "tag":
		return ByTag, nil
	default:
		return byNone, fmt.Errorf("%w: unknown strategy %q", ErrInvalidLocator, name)
	}
}

// ErrInvalidLocator is returned for the zero Locator or an empty value.
var ErrInvalidLocator = errors.New("invalid locator")

// Locator selects elements by exactly one strategy. Build it with Class,
// ID, XPath, Name, CSS or Tag.
type Locator struct {
	by    By
	value string
}

// Class locates elements having the class name.
func Class(name string) Locator { return Locator{by: ByClass, value: name} }

// ID locates elements by id attribute.
func ID(id string) Locator { return Locator{by: ByID, value: id} }

// XPath locates elements by XPath expression.
func XPath(expr string) Locator { return Locator{by: ByXPath, value: expr} }

// Name locates elements by name attribute.
func Name(name string) Locator { return Locator{by: ByName, value: name} }

// CSS locates elements by CSS selector.
func CSS(selector string) Locator { return Locator{by: ByCSS, value: selector} }

// Tag locates elements by tag name.
func Tag(name string) Locator { return Locator{by: ByTag, value: name} }

// NewLocator builds a Locator from a strategy and value.
func NewLocator(by By, value string) (Locator, error) {
	l := Locator{by: by, value: value}
	if err := l.Validate(); err != nil {
		return Locator{}, err
	}
	return l, nil
}

// By returns the locator's strategy
func (l Locator) By() By { return l.by }

// Value returns the locator's raw value
func (l Locator) Value() string { return l.value }

// Validate reports whether the locator can be used.
func (l Locator) Validate() error {
	if l.by <= byNone || l.by > ByTag {
		return fmt.Errorf("%w: no strategy", ErrInvalidLocator)
	}
	if strings.TrimSpace(l.value) == "" {
		return fmt.Errorf("%w: empty %s value", ErrInvalidLocator, l.by)
	}
	return nil
}

// Selector translates the locator into a playwright selector.
func (l Locator) Selector() (string, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}

	switch l.by {
	case ByClass:
		return "css=." + cssEscapeIdent(l.value), nil
	case ByID:
		return "id=" + l.value, nil
	case ByXPath:
		return "xpath=" + l.value, nil
	case ByName:
		return fmt.Sprintf(`css=[name="%s"]`, cssEscapeString(l.value)), nil
	case ByTag:
		return "css=" + l.value, nil
	default:
		return "css=" + l.value, nil
	}
}

// String renders the locator as strategy=value
func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.by, l.value)
}

// cssEscapeIdent escapes every character that may not appear unescaped in
// a CSS identifier.
func cssEscapeIdent(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-', r >= 0x80:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				// leading digits must be written as code points
				fmt.Fprintf(&b, "\\%x ", r)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cssEscapeString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
