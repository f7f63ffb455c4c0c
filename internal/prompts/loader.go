// Package prompts holds the LLM prompt templates shipped with the binary.
// Each embedded *.json file maps template keys to text with {{.Name}}
// placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

// library maps a file name to its templates. It is read once, on first use.
var library = sync.OnceValues(readLibrary)

func readLibrary() (map[string]map[string]string, error) {
	names, err := fs.Glob(files, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt files: %w", err)
	}

	lib := make(map[string]map[string]string, len(names))
	for _, name := range names {
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var templates map[string]string
		if err := json.Unmarshal(data, &templates); err != nil {
			return nil, fmt.Errorf("prompt file %s is not an object of strings: %w", name, err)
		}
		lib[name] = templates
	}
	return lib, nil
}

// Get returns the template stored under key in file, e.g.
// Get("enhancement.json", "daily-do-items").
func Get(file, key string) (string, error) {
	lib, err := library()
	if err != nil {
		return "", err
	}

	templates, ok := lib[file]
	if !ok {
		return "", fmt.Errorf("prompt file %s is not embedded", file)
	}
	template, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, file)
	}
	return template, nil
}

// MustGet is Get for templates that ship with the binary; a miss panics.
func MustGet(file, key string) string {
	template, err := Get(file, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return template
}

// Format replaces placeholders in the form {{.Key}} with values from data.
// Substitution is a single pass, so placeholder-like text inside a value is
// left untouched and the output does not depend on map order.
func Format(template string, data map[string]string) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, "{{."+key+"}}", data[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
