// Package ui holds the server-driven component tree handed to renderers.
// Trees are values: every update returns a new tree and shares the
// subtrees it did not touch, so a tree a reader still holds never changes.
package ui

// Action is an event a component emits when the user interacts with it.
type Action struct {
	Type    string            `yaml:"type" json:"type"`
	Payload map[string]string `yaml:"payload,omitempty" json:"payload,omitempty"`
}

// Component is one node of the tree. Style is carried opaquely.
type Component struct {
	Type      string         `yaml:"type" json:"type"`
	ID        string         `yaml:"id" json:"id"`
	Content   string         `yaml:"content,omitempty" json:"content,omitempty"`
	StackAxis string         `yaml:"stackAxis,omitempty" json:"stackAxis,omitempty"`
	Style     map[string]any `yaml:"style,omitempty" json:"style,omitempty"`
	Action    *Action        `yaml:"action,omitempty" json:"action,omitempty"`
	Children  []Component    `yaml:"children,omitempty" json:"children,omitempty"`
}

// SetContent returns a tree where the first component with the given id
// (depth first) has its Content replaced. ok is false when no id matched,
// in which case the original tree is returned.
func (c Component) SetContent(id, content string) (Component, bool) {
	return c.update(id, func(n *Component) { n.Content = content })
}

// SetChildren is SetContent for container slots.
func (c Component) SetChildren(id string, children []Component) (Component, bool) {
	cp := append([]Component(nil), children...)
	return c.update(id, func(n *Component) { n.Children = cp })
}

func (c Component) update(id string, fn func(*Component)) (Component, bool) {
	if c.ID == id {
		fn(&c)
		return c, true
	}
	for i, child := range c.Children {
		updated, ok := child.update(id, fn)
		if !ok {
			continue
		}
		children := make([]Component, len(c.Children))
		copy(children, c.Children)
		children[i] = updated
		c.Children = children
		return c, true
	}
	return c, false
}

// Find returns the first component with the given id.
func (c Component) Find(id string) (Component, bool) {
	if c.ID == id {
		return c, true
	}
	for _, child := range c.Children {
		if found, ok := child.Find(id); ok {
			return found, true
		}
	}
	return Component{}, false
}
