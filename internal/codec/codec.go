// Package codec converts between the interchange JSON shapes and domain
// records. Import payloads may be a single object or an array of objects;
// both decode to a list.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quizdeck/internal/domain"
)

// DecodeList splits data into one raw message per record.
func DecodeList(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, domain.NewMalformedJSONError(errors.New("empty payload"))
	}

	var whole json.RawMessage
	if err := json.Unmarshal(trimmed, &whole); err != nil {
		return nil, domain.NewMalformedJSONError(err)
	}

	switch trimmed[0] {
	case '{':
		return []json.RawMessage{json.RawMessage(trimmed)}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, domain.NewMalformedJSONError(err)
		}
		var errs domain.ValidationErrors
		for i, item := range items {
			if t := bytes.TrimSpace(item); len(t) == 0 || t[0] != '{' {
				errs = append(errs, domain.NewInvalidFormatError(fmt.Sprintf("[%d]", i), nil, "array element must be a JSON object"))
			}
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return items, nil
	default:
		return nil, domain.NewInvalidInputError("payload must be a JSON object or an array of objects")
	}
}

// decodeEach decodes every record of data into P and converts it with fn.
// Problems from all records are reported together.
func decodeEach[P any, R any](data []byte, fn func(path string, p *P, c *collector) R) ([]R, error) {
	items, err := DecodeList(data)
	if err != nil {
		return nil, err
	}

	c := &collector{}
	out := make([]R, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("[%d]", i)
		var p P
		if err := json.Unmarshal(item, &p); err != nil {
			c.add(typeError(path, err))
			continue
		}
		out = append(out, fn(path, &p, c))
	}
	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return out, nil
}

func typeError(path string, err error) domain.ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := path
		if typeErr.Field != "" {
			field = path + "." + typeErr.Field
		}
		return domain.NewInvalidFormatError(field, typeErr.Value, fmt.Sprintf("expected %s", typeErr.Type))
	}
	return domain.NewInvalidFormatError(path, nil, err.Error())
}

// collector accumulates field problems while converting a payload.
type collector struct {
	errs domain.ValidationErrors
}

func (c *collector) add(e domain.ValidationError) {
	c.errs = append(c.errs, e)
}

func (c *collector) requireString(field string, v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		c.add(domain.NewMissingFieldError(field))
		return ""
	}
	return *v
}

func (c *collector) requireID(field string, v *int64) int64 {
	if v == nil {
		c.add(domain.NewMissingFieldError(field))
		return 0
	}
	return *v
}

// enum parses an optional enum field; nil stays nil.
func enum[T ~string](c *collector, field string, v *string, allowed []string, parse func(string) (T, error)) *T {
	if v == nil {
		return nil
	}
	parsed, err := parse(*v)
	if err != nil {
		c.add(domain.NewInvalidEnumError(field, *v, allowed))
		return nil
	}
	return &parsed
}

// MarshalExport renders an export payload as indented JSON.
func MarshalExport(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
