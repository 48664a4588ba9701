package generator

import (
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"storeschema/internal/config"
	"storeschema/internal/model"
)

// templateFuncs returns custom template functions.
func (g *Generator) templateFuncs() template.FuncMap {
	return template.FuncMap{
		// Type mapping
		"goType":   g.goType,
		"tsType":   g.tsType,
		"typeName": g.typeName,

		// Naming
		"camelCase":  camelCase,
		"pascalCase": pascalCase,
		"snakeCase":  snakeCase,
		"kebabCase":  kebabCase,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"trim":       strings.TrimSpace,
		"replace":    strings.ReplaceAll,
		"quote":      strconv.Quote,

		// Field helpers
		"jsonTag":   jsonTag,
		"tsKey":     tsKey,
		"tsLiteral": func(s string) string { return strconv.Quote(s) },

		// List helpers
		"join":    strings.Join,
		"notLast": func(i, length int) bool { return i < length-1 },
		"quoteAll": func(ss []string) []string {
			out := make([]string, len(ss))
			for i, s := range ss {
				out[i] = strconv.Quote(s)
			}
			return out
		},

		// Comment formatting
		"comment":    formatComment,
		"docComment": formatDocComment,
	}
}

// goType renders a shape field as a Go type. Nullable and optional fields
// become pointers unless the type already has a nil value.
func (g *Generator) goType(schema string, f model.ShapeField) string {
	var base string
	switch {
	case f.TypeRef != nil:
		refSchema := f.TypeRef.Schema
		if refSchema == "" {
			refSchema = schema
		}
		base = g.typeName(refSchema, f.TypeRef.Name)
	default:
		if mapped, ok := g.config.MapType(config.TargetGo, string(f.Type)); ok {
			base = mapped
		} else {
			base = "any"
		}
	}

	if f.Array {
		return "[]" + base
	}
	if (f.Nullable || f.Optional) && !nilable(base) {
		return "*" + base
	}
	return base
}

// tsType renders a shape field as a TypeScript type.
func (g *Generator) tsType(schema string, f model.ShapeField) string {
	var base string
	switch {
	case f.TypeRef != nil:
		refSchema := f.TypeRef.Schema
		if refSchema == "" {
			refSchema = schema
		}
		kind := "Enums"
		if f.Type == model.TypeComposite {
			kind = "CompositeTypes"
		}
		base = `Database[` + strconv.Quote(refSchema) + `][` + strconv.Quote(kind) + `][` + strconv.Quote(f.TypeRef.Name) + `]`
	default:
		if mapped, ok := g.config.MapType(config.TargetTypeScript, string(f.Type)); ok {
			base = mapped
		} else {
			base = "unknown"
		}
	}
	if f.Array {
		base += "[]"
	}
	if f.Nullable {
		base += " | null"
	}
	return base
}

// typeName returns the Go identifier for a relation or type. Names outside
// the default schema are prefixed with their schema to avoid collisions.
func (g *Generator) typeName(schema, name string) string {
	if schema == "" || schema == g.defaultSchema {
		return pascalCase(name)
	}
	return pascalCase(schema) + pascalCase(name)
}

// nilable reports whether a Go type already has a nil value.
func nilable(goType string) bool {
	return strings.HasPrefix(goType, "[]") ||
		strings.HasPrefix(goType, "map[") ||
		goType == "any" ||
		goType == "json.RawMessage"
}

// jsonTag returns the json tag value for a field.
func jsonTag(f model.ShapeField) string {
	if f.Optional {
		return f.Name + ",omitempty"
	}
	return f.Name
}

// tsKey returns a TypeScript property key, marking optional fields.
func tsKey(f model.ShapeField) string {
	if f.Optional {
		return f.Name + "?"
	}
	return f.Name
}

// commonInitialisms are rendered upper-case by pascalCase.
var commonInitialisms = map[string]bool{
	"API": true, "HTTP": true, "ID": true, "JSON": true, "SKU": true,
	"SQL": true, "URL": true, "UUID": true,
}

// camelCase converts to camelCase.
func camelCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		if i == 0 {
			words[i] = strings.ToLower(word)
			continue
		}
		words[i] = titleWord(word)
	}
	return strings.Join(words, "")
}

// pascalCase converts to PascalCase ("user_id" -> "UserID").
func pascalCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = titleWord(word)
	}
	return strings.Join(words, "")
}

func titleWord(word string) string {
	if upper := strings.ToUpper(word); commonInitialisms[upper] {
		return upper
	}
	runes := []rune(strings.ToLower(word))
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// snakeCase converts to snake_case.
func snakeCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "_")
}

// kebabCase converts to kebab-case.
func kebabCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "-")
}

// splitWords splits a string into words (handles camelCase, PascalCase, snake_case, etc.).
// Characters that cannot appear in an identifier act as separators.
func splitWords(s string) []string {
	var words []string
	var current []rune

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if len(current) > 0 {
				words = append(words, string(current))
				current = nil
			}
			continue
		}

		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				if len(current) > 0 {
					words = append(words, string(current))
					current = nil
				}
			}
		}

		current = append(current, r)
	}

	if len(current) > 0 {
		words = append(words, string(current))
	}

	return words
}

// formatComment formats a comment with a prefix.
func formatComment(comment, prefix string) string {
	if comment == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(comment), "\n")
	var result []string
	for _, line := range lines {
		result = append(result, prefix+strings.TrimSpace(line))
	}
	return strings.Join(result, "\n")
}

// formatDocComment formats a documentation comment for TypeScript.
func formatDocComment(comment string) string {
	if comment == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(comment), "\n")
	if len(lines) == 1 {
		return "/** " + strings.TrimSpace(lines[0]) + " */"
	}
	var result []string
	result = append(result, "/**")
	for _, line := range lines {
		result = append(result, " * "+strings.TrimSpace(line))
	}
	result = append(result, " */")
	return strings.Join(result, "\n")
}
