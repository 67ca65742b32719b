package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// groupOptions splits options into top-level keys and [section] tables,
// keeping first-seen section order. Section keys lose their prefix.
func groupOptions(opts []ConfigOption) (top []ConfigOption, order []string, sections map[string][]ConfigOption) {
	sections = make(map[string][]ConfigOption)
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, seen := sections[section]; !seen {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, order, sections
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var lines []string
	lines = append(lines, "# leancanvas configuration (TOML)", "")

	top, order, sections := groupOptions(GetConfigOptions())
	for _, o := range top {
		writeTOMLOptionLines(&lines, o)
	}
	for _, section := range order {
		lines = append(lines, "["+section+"]")
		for _, o := range sections[section] {
			writeTOMLOptionLines(&lines, o)
		}
	}
	return strings.Join(lines, "\n")
}

// UpdateTOML merges defaults into an existing TOML string and comments out unknown keys.
func UpdateTOML(existing string) (string, bool) {
	opts := GetConfigOptions()
	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.Key] = true
	}

	present := make(map[string]bool)
	// sectionEnd is the index in out just past the last line of each table.
	sectionEnd := make(map[string]int)
	currentSection := ""
	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";") {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			currentSection = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			sectionEnd[currentSection] = len(out)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		fullKey := key
		if currentSection != "" {
			fullKey = currentSection + "." + key
		}
		present[fullKey] = true
		if !known[fullKey] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema")
			out = append(out, indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
		} else {
			out = append(out, line)
		}
		if currentSection != "" {
			sectionEnd[currentSection] = len(out)
		}
	}

	var missing []ConfigOption
	for _, o := range opts {
		if !present[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	top, order, sections := groupOptions(missing)

	// Keys of tables that already exist go at the end of that table, last
	// table first so earlier indexes stay valid.
	var newTables []string
	inFile := make([]string, 0, len(order))
	for _, section := range order {
		if _, ok := sectionEnd[section]; ok {
			inFile = append(inFile, section)
		} else {
			newTables = append(newTables, section)
		}
	}
	sort.Slice(inFile, func(i, j int) bool { return sectionEnd[inFile[i]] > sectionEnd[inFile[j]] })
	for _, section := range inFile {
		var add []string
		for _, o := range sections[section] {
			writeTOMLOptionLines(&add, o)
		}
		at := sectionEnd[section]
		out = append(out[:at], append(add, out[at:]...)...)
	}

	// Top-level keys must precede every table, so they go first.
	if len(top) > 0 {
		var head []string
		head = append(head, "# Added by config update")
		for _, o := range top {
			writeTOMLOptionLines(&head, o)
		}
		out = append(head, out...)
	}
	if len(newTables) > 0 {
		out = append(out, "", "# Added by config update")
		for _, section := range newTables {
			out = append(out, "["+section+"]")
			for _, o := range sections[section] {
				writeTOMLOptionLines(&out, o)
			}
		}
	}
	return strings.Join(out, "\n"), true
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") {
		return "", false
	}
	if strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case bool, int, int64, float64:
		return fmt.Sprint(v)
	default:
		return strconv.Quote(fmt.Sprint(v))
	}
}

func writeTOMLOptionLines(lines *[]string, o ConfigOption) {
	if o.Comment != "" {
		*lines = append(*lines, "# "+o.Comment)
	}
	*lines = append(*lines, o.Key+" = "+tomlValue(o.Default), "")
}
