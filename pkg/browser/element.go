package browser

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/playwright-community/playwright-go"
)

// Element is a located element of the current page.
type Element struct {
	loc  playwright.Locator
	desc string
}

func (e *Element) String() string {
	return e.desc
}

// Text returns the text content of the element.
func (e *Element) Text() (string, error) {
	text, err := e.loc.TextContent()
	if err != nil {
		return "", wrapEngineErr("text", err)
	}
	return text, nil
}

// Attribute returns the named attribute of the element.
func (e *Element) Attribute(name string) (string, error) {
	value, err := e.loc.GetAttribute(name)
	if err != nil {
		return "", wrapEngineErr("attribute", err)
	}
	return value, nil
}

// FindElement returns the first descendant of e matching l.
func (e *Element) FindElement(l Locator) (*Element, error) {
	return findFirst(e.scope, e.desc+" > ", l)
}

// FindElements returns every descendant of e matching l. No match is an
// empty slice, not an error.
func (e *Element) FindElements(l Locator) ([]*Element, error) {
	return findAll(e.scope, e.desc+" > ", l)
}

func (e *Element) scope(selector string) playwright.Locator {
	return e.loc.Locator(selector)
}

// Children returns every descendant element of e.
func (e *Element) Children() ([]*Element, error) {
	return e.FindElements(XPath(".//*"))
}

// FindElement returns the first element of the current frame matching l.
func (d *Driver) FindElement(l Locator) (*Element, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	return findFirst(d.frameLocator, "", l)
}

// FindElements returns every element of the current frame matching l.
func (d *Driver) FindElements(l Locator) ([]*Element, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	return findAll(d.frameLocator, "", l)
}

func (d *Driver) frameLocator(selector string) playwright.Locator {
	return d.currentFrame().Locator(selector)
}

// locate turns a Locator into an engine locator under a parent scope.
func locate(scope func(string) playwright.Locator, l Locator) (playwright.Locator, error) {
	selector, err := l.Selector()
	if err != nil {
		return nil, err
	}
	return scope(selector), nil
}

func findFirst(scope func(string) playwright.Locator, prefix string, l Locator) (*Element, error) {
	loc, err := locate(scope, l)
	if err != nil {
		return nil, err
	}

	count, err := loc.Count()
	if err != nil {
		return nil, &LocatorError{Locator: l, Err: wrapEngineErr("count", err)}
	}
	if count == 0 {
		return nil, &LocatorError{Locator: l, Err: ErrNoSuchElement}
	}
	return &Element{loc: loc.First(), desc: prefix + l.String()}, nil
}

func findAll(scope func(string) playwright.Locator, prefix string, l Locator) ([]*Element, error) {
	loc, err := locate(scope, l)
	if err != nil {
		return nil, err
	}

	all, err := loc.All()
	if err != nil {
		return nil, &LocatorError{Locator: l, Err: wrapEngineErr("list", err)}
	}

	elements := make([]*Element, 0, len(all))
	for i, item := range all {
		elements = append(elements, &Element{
			loc:  item,
			desc: fmt.Sprintf("%s%s[%d]", prefix, l, i),
		})
	}
	return elements, nil
}

// Click clicks el. When the click cannot be delivered (another element
// covers the target) Enter is sent to the element instead.
func (d *Driver) Click(el *Element, opts ClickOptions) error {
	if err := d.checkOpen(); err != nil {
		return err
	}

	if opts.NewTab {
		modifier := playwright.KeyboardModifier("Control")
		if runtime.GOOS == "darwin" {
			modifier = playwright.KeyboardModifier("Meta")
		}
		err := el.loc.Click(playwright.LocatorClickOptions{
			Modifiers: []playwright.KeyboardModifier{modifier},
		})
		if err != nil {
			return wrapEngineErr("click", err)
		}
		return nil
	}

	err := el.loc.Click()
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTargetClosed) {
		return wrapEngineErr("click", err)
	}

	d.logger.Debugf("click on %s intercepted, sending Enter: %v", el, err)
	if pressErr := el.loc.Press("Enter"); pressErr != nil {
		return wrapEngineErr("click", errors.Join(err, pressErr))
	}
	return nil
}

// ClickLocator clicks the first element matching l.
func (d *Driver) ClickLocator(l Locator, opts ClickOptions) error {
	el, err := d.FindElement(l)
	if err != nil {
		return err
	}
	return d.Click(el, opts)
}

// MouseOver moves the mouse over el.
func (d *Driver) MouseOver(el *Element) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := el.loc.Hover(); err != nil {
		return wrapEngineErr("hover", err)
	}
	return nil
}

// MouseOverLocator moves the mouse over the index-th element matching l.
// An index past the matches is a no-op.
func (d *Driver) MouseOverLocator(l Locator, index int) error {
	elements, err := d.FindElements(l)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(elements) {
		d.logger.Debugf("mouse over %s: index %d out of %d matches", l, index, len(elements))
		return nil
	}
	return d.MouseOver(elements[index])
}

// Select picks an option of the <select> element el.
func (d *Driver) Select(el *Element, by SelectBy) error {
	if err := d.checkOpen(); err != nil {
		return err
	}

	var values playwright.SelectOptionValues
	switch by.kind {
	case selectIndex:
		values.Indexes = &[]int{by.index}
	case selectText:
		values.Labels = &[]string{by.text}
	case selectValue:
		values.Values = &[]string{by.text}
	default:
		return fmt.Errorf("select %s: no option given", el)
	}

	if _, err := el.loc.SelectOption(values); err != nil {
		return wrapEngineErr(fmt.Sprintf("select %s", by), err)
	}
	return nil
}
