package model

import "strings"

// Category groups transactions by what the money was for.
type Category struct {
	ID   string
	Name string
}

// NameMatches reports whether name equals the category name, ignoring case.
func (c Category) NameMatches(name string) bool {
	return strings.EqualFold(c.Name, name)
}

// PaymentMethod groups transactions by how they were paid.
type PaymentMethod struct {
	ID   string
	Name string
}

// NameMatches reports whether name equals the method name, ignoring case.
func (m PaymentMethod) NameMatches(name string) bool {
	return strings.EqualFold(m.Name, name)
}
