// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation wraps go-playground/validator with field names taken
// from json or form tags and Spanish, path-qualified issue messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		instance = v
	})
	return instance
}

// Issue is one failed rule with the path of the offending field.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Struct validates s and returns its issues, each path prefixed with prefix.
// A nil result means s is valid.
func Struct(s any, prefix string) []Issue {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Path: prefix, Message: err.Error()}}
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{Path: JoinPath(prefix, fieldPath(fe)), Message: Message(fe)})
	}
	return issues
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// JoinPath joins a prefix and a field path with a dot.
func JoinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	default:
		return prefix + "." + path
	}
}

// Message returns a human-readable message for a failed rule.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo requerido"
	case "email":
		return "Correo electronico invalido"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return "Debe tener al menos " + fe.Param() + " caracteres"
		case reflect.Slice, reflect.Array:
			return "Debe tener al menos " + fe.Param() + " elementos"
		}
		return "Debe ser mayor o igual a " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "Debe tener como maximo " + fe.Param() + " caracteres"
		}
		return "Debe ser menor o igual a " + fe.Param()
	case "gte":
		return "Debe ser mayor o igual a " + fe.Param()
	case "oneof":
		return "Debe ser uno de: " + fe.Param()
	case "number", "numeric":
		return "Debe ser un numero"
	case "datetime":
		return "Fecha invalida, usa el formato AAAA-MM-DD"
	default:
		return fmt.Sprintf("Valor invalido (%s)", fe.Tag())
	}
}

// Join renders at most limit issues as "path: message" separated by ", ".
func Join(issues []Issue, limit int) string {
	if limit > 0 && len(issues) > limit {
		issues = issues[:limit]
	}
	parts := make([]string, len(issues))
	for i, issue := range issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, ", ")
}
