package loaders

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Element is a node of a parsed XML document. Text content is discarded.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []*Element
	Line     int // Line of the start tag, for error messages
}

// Attr returns the value of the named attribute
func (e *Element) Attr(name string) (string, bool) {
	value, ok := e.Attrs[name]
	return value, ok
}

// Child returns the first child with the given name, or nil
func (e *Element) Child(name string) *Element {
	for _, child := range e.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// LoadXML parses an XML file into an element tree
func LoadXML(filename string) (*Element, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer file.Close()

	root, err := ParseXML(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return root, nil
}

// ParseXML reads a single-rooted XML document. Any syntax error aborts the parse.
func ParseXML(r io.Reader) (*Element, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read XML: %w", err)
	}

	decoder := xml.NewDecoder(bytes.NewReader(content))
	var root *Element
	var stack []*Element

	// Line number of content[counted], advanced from the previous start element
	line, counted := 1, int64(0)

	for {
		offset := decoder.InputOffset()
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			line += bytes.Count(content[counted:offset], []byte("\n"))
			counted = offset
			element := &Element{
				Name:  t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
				Line:  line,
			}
			for _, attr := range t.Attr {
				element.Attrs[attr.Name.Local] = attr.Value
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("malformed XML: multiple root elements")
				}
				root = element
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, element)
			}
			stack = append(stack, element)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && strings.TrimSpace(string(t)) != "" {
				return nil, fmt.Errorf("malformed XML: text outside root element")
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("malformed XML: no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("malformed XML: unclosed element <%s>", stack[len(stack)-1].Name)
	}
	return root, nil
}
