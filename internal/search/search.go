// Package search implements the free-text filter used by list screens.
package search

import (
	"strings"

	"github.com/naveenspark/roster/pkg/domain"
)

// Fields yields the searchable fields of an item in match order. yield
// returns false to stop early. Absent optional fields are simply not yielded.
type Fields[T any] func(item T, yield func(string) bool)

// Matches reports whether any field of item contains query, ignoring case.
// Only the empty string matches everything; whitespace is part of the query.
func Matches[T any](item T, query string, fields Fields[T]) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	return match(item, q, fields)
}

func match[T any](item T, q string, fields Fields[T]) bool {
	found := false
	fields(item, func(f string) bool {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Filter returns the items matching query, preserving order. The input is
// returned unchanged for an empty query.
func Filter[T any](items []T, query string, fields Fields[T]) []T {
	q := strings.ToLower(query)
	if q == "" {
		return items
	}
	var out []T
	for _, it := range items {
		if match(it, q, fields) {
			out = append(out, it)
		}
	}
	return out
}

// EngineerFields searches name, then each skill.
func EngineerFields(e domain.Engineer, yield func(string) bool) {
	if !yield(e.Name) {
		return
	}
	for _, s := range e.Skills {
		if !yield(s) {
			return
		}
	}
}

// ProjectFields searches name, description, then each required skill.
func ProjectFields(p domain.Project, yield func(string) bool) {
	if !yield(p.Name) || !yield(p.Description) {
		return
	}
	for _, s := range p.RequiredSkills {
		if !yield(s) {
			return
		}
	}
}

// AssignmentFields searches engineer name, project name, then role. A
// missing snapshot contributes nothing.
func AssignmentFields(a domain.Assignment, yield func(string) bool) {
	if a.Engineer != nil && !yield(a.Engineer.Name) {
		return
	}
	if a.Project != nil && !yield(a.Project.Name) {
		return
	}
	yield(a.Role)
}
