// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package component

import (
	"fmt"
	"strconv"
	"strings"
)

// splitPath splits a dotted property path into its elements.
func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrBadPath)
	}
	els := strings.Split(path, ".")
	for _, e := range els {
		if e == "" {
			return nil, fmt.Errorf("%w: %q has an empty element", ErrBadPath, path)
		}
	}
	return els, nil
}

// step returns the value of element el within container c,
// which must be an object or an array.
func step(c any, el, path string) (any, error) {
	switch c := c.(type) {
	case map[string]any:
		v, ok := c[el]
		if !ok {
			return nil, fmt.Errorf("%w: %q: %q is undefined", ErrBadPath, path, el)
		}
		return v, nil
	case []any:
		i, err := strconv.Atoi(el)
		if err != nil || i < 0 || i >= len(c) {
			return nil, fmt.Errorf("%w: %q: index %q out of range", ErrBadPath, path, el)
		}
		return c[i], nil
	}
	return nil, fmt.Errorf("%w: %q: %q is not an object", ErrBadPath, path, el)
}

// container walks all but the last element of path.
func container(obj map[string]any, path string) (any, string, error) {
	els, err := splitPath(path)
	if err != nil {
		return nil, "", err
	}
	var c any = obj
	for _, el := range els[:len(els)-1] {
		c, err = step(c, el, path)
		if err != nil {
			return nil, "", err
		}
	}
	return c, els[len(els)-1], nil
}

// GetPath returns the value at the given dotted path within obj.
// Numeric elements index into arrays.
func GetPath(obj map[string]any, path string) (any, error) {
	c, last, err := container(obj, path)
	if err != nil {
		return nil, err
	}
	return step(c, last, path)
}

// SetPath sets the value at the given dotted path within obj.
// Every intermediate element must already exist and be an object or
// array; the final element of an object is created if missing.
func SetPath(obj map[string]any, path string, v any) error {
	c, last, err := container(obj, path)
	if err != nil {
		return err
	}
	switch c := c.(type) {
	case map[string]any:
		c[last] = v
		return nil
	case []any:
		i, err := strconv.Atoi(last)
		if err != nil || i < 0 || i >= len(c) {
			return fmt.Errorf("%w: %q: index %q out of range", ErrBadPath, path, last)
		}
		c[i] = v
		return nil
	}
	return fmt.Errorf("%w: %q: parent of %q is not an object", ErrBadPath, path, last)
}

// DeletePath deletes the object member at the given dotted path.
// Deleting a missing member is not an error.
func DeletePath(obj map[string]any, path string) error {
	c, last, err := container(obj, path)
	if err != nil {
		return err
	}
	m, ok := c.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: %q: parent of %q is not an object", ErrBadPath, path, last)
	}
	delete(m, last)
	return nil
}
